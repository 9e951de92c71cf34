// Package onboarding tracks whether the landing-page tour has been shown in
// the current session.
package onboarding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/i18n"
	"github.com/ziadkadry99/stockseo/internal/kvstore"
	"github.com/ziadkadry99/stockseo/internal/router"
)

// Step is one localized tour step anchored to a landing-page section.
type Step struct {
	Target   string `json:"target"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position string `json:"position"`
	// Navigate is set on the last step: finishing the tour opens this fragment.
	Navigate string `json:"navigate,omitempty"`
}

var anchors = []struct{ target, position string }{
	{"hero-section", "bottom"},
	{"how-it-works-section", "bottom"},
	{"features-section", "top"},
	{"get-started-tour-target", "bottom"},
}

// Tour reads and writes the shown flag in a session-scoped store.
type Tour struct {
	session kvstore.Store
	log     *zap.Logger
}

// NewTour creates a tour over a session store.
func NewTour(session kvstore.Store, log *zap.Logger) *Tour {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tour{session: session, log: log.Named("onboarding")}
}

// ShouldShow reports whether the tour has not yet been shown this session.
func (t *Tour) ShouldShow(ctx context.Context) bool {
	v, ok, err := t.session.Get(ctx, kvstore.KeyTourViewed)
	if err != nil {
		t.log.Warn("reading tour flag failed", zap.Error(err))
		return false
	}
	return !ok || v != "true"
}

// MarkShown records that the tour was shown or dismissed.
func (t *Tour) MarkShown(ctx context.Context) {
	if err := t.session.Set(ctx, kvstore.KeyTourViewed, "true"); err != nil {
		t.log.Warn("saving tour flag failed", zap.Error(err))
	}
}

// Steps returns the tour in the catalog's language.
func Steps(c *i18n.Catalog) []Step {
	steps := make([]Step, len(anchors))
	for i, a := range anchors {
		steps[i] = Step{
			Target:   a.target,
			Title:    c.T(fmt.Sprintf("tour.step%dTitle", i+1), nil),
			Content:  c.T(fmt.Sprintf("tour.step%dContent", i+1), nil),
			Position: a.position,
		}
	}
	steps[len(steps)-1].Navigate = router.GeneratorFragment
	return steps
}
