package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts view-resolution routes.
func RegisterRoutes(r chi.Router, nav *Navigator) {
	r.Get("/api/view", handleResolve(nav))
	r.Get("/api/view/subview", handleGetSubView(nav))
	r.Put("/api/view/subview", handleSetSubView(nav))
}

type viewResponse struct {
	Page     Page    `json:"page"`
	Fragment string  `json:"fragment"`
	SubView  SubView `json:"subview"`
}

func current(nav *Navigator) viewResponse {
	p := nav.Page()
	return viewResponse{Page: p, Fragment: p.Fragment(), SubView: nav.SubView()}
}

func handleResolve(nav *Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fragment := Normalize(r.URL.Query().Get("fragment"))
		nav.Navigate(fragment)
		resp := current(nav)
		resp.Fragment = fragment
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetSubView(nav *Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, current(nav))
	}
}

func handleSetSubView(nav *Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubView string `json:"subview"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		v, err := ParseSubView(req.SubView)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		nav.Show(v)
		writeJSON(w, http.StatusOK, current(nav))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
