// Package router resolves URL fragments to top-level pages and tracks the
// generator sub-view, which lives in memory rather than in the URL.
package router

import (
	"fmt"
	"strings"
	"sync"
)

// Page is a top-level view.
type Page string

const (
	Landing   Page = "landing"
	Generator Page = "generator"
)

// SubView is a panel inside the generator page.
type SubView string

const (
	GeneratorView SubView = "generator"
	HistoryView   SubView = "history"
	SettingsView  SubView = "settings"
)

// Fragments for each page.
const (
	RootFragment      = "#/"
	GeneratorFragment = "#/generator"
)

// Resolve maps a URL fragment to a page. Anything other than the generator
// fragment resolves to the landing page.
func Resolve(fragment string) Page {
	if fragment == GeneratorFragment {
		return Generator
	}
	return Landing
}

// Normalize replaces an empty fragment with the root fragment.
func Normalize(fragment string) string {
	if fragment == "" {
		return RootFragment
	}
	return fragment
}

// Fragment returns the canonical fragment of p.
func (p Page) Fragment() string {
	if p == Generator {
		return GeneratorFragment
	}
	return RootFragment
}

// ParseSubView validates a sub-view name.
func ParseSubView(s string) (SubView, error) {
	switch v := SubView(strings.ToLower(strings.TrimSpace(s))); v {
	case GeneratorView, HistoryView, SettingsView:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Navigator holds the current page and sub-view. It is safe for concurrent use.
type Navigator struct {
	mu      sync.RWMutex
	page    Page
	subView SubView
}

// NewNavigator starts on the landing page with the generator sub-view.
func NewNavigator() *Navigator {
	return &Navigator{page: Landing, subView: GeneratorView}
}

// Navigate resolves fragment and makes it the current page.
func (n *Navigator) Navigate(fragment string) Page {
	p := Resolve(Normalize(fragment))
	n.mu.Lock()
	n.page = p
	n.mu.Unlock()
	return p
}

// Show opens the generator page on sub-view v.
func (n *Navigator) Show(v SubView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.page = Generator
	n.subView = v
}

// Page returns the current page.
func (n *Navigator) Page() Page {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.page
}

// SubView returns the current generator sub-view.
func (n *Navigator) SubView() SubView {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.subView
}
