package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		fragment string
		want     Page
	}{
		{"#/generator", Generator},
		{"#/", Landing},
		{"", Landing},
		{"#/unknown", Landing},
		{"#/generator/", Landing},
		{"#/Generator", Landing},
	}
	for _, tt := range tests {
		if got := Resolve(tt.fragment); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.fragment, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(""); got != "#/" {
		t.Errorf("Normalize(\"\") = %q", got)
	}
	if got := Normalize("#/generator"); got != "#/generator" {
		t.Errorf("Normalize kept %q", got)
	}
}

func TestParseSubView(t *testing.T) {
	for _, s := range []string{"generator", "History", " settings "} {
		if _, err := ParseSubView(s); err != nil {
			t.Errorf("ParseSubView(%q): %v", s, err)
		}
	}
	if _, err := ParseSubView("landing"); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestNavigator(t *testing.T) {
	nav := NewNavigator()
	if nav.Page() != Landing || nav.SubView() != GeneratorView {
		t.Fatalf("unexpected initial state %q/%q", nav.Page(), nav.SubView())
	}

	nav.Show(SettingsView)
	if nav.Page() != Generator || nav.SubView() != SettingsView {
		t.Errorf("Show did not switch views: %q/%q", nav.Page(), nav.SubView())
	}

	if p := nav.Navigate(""); p != Landing {
		t.Errorf("Navigate(\"\") = %q", p)
	}
	if nav.SubView() != SettingsView {
		t.Error("navigating pages must keep the sub-view")
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				nav.Show(HistoryView)
			} else {
				_ = nav.SubView()
			}
		}(i)
	}
	wg.Wait()
}

func TestRoutes(t *testing.T) {
	nav := NewNavigator()
	r := chi.NewRouter()
	RegisterRoutes(r, nav)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/view?fragment=%23%2Fgenerator", nil))
	var resp viewResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Page != Generator || resp.Fragment != "#/generator" {
		t.Errorf("unexpected resolve response: %+v", resp)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/view", nil))
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Page != Landing || resp.Fragment != "#/" {
		t.Errorf("empty fragment: %+v", resp)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/view/subview", strings.NewReader(`{"subview":"history"}`)))
	if rec.Code != http.StatusOK || nav.SubView() != HistoryView {
		t.Errorf("set subview: status %d, view %q", rec.Code, nav.SubView())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/view/subview", strings.NewReader(`{"subview":"nope"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
