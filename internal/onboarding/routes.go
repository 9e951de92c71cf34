package onboarding

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/stockseo/internal/i18n"
)

// RegisterRoutes mounts the tour routes. Steps are localized with the
// stored language preference.
func RegisterRoutes(r chi.Router, tour *Tour, pref *i18n.Preference) {
	r.Get("/api/tour", handleGet(tour, pref))
	r.Post("/api/tour/done", handleDone(tour))
}

type tourResponse struct {
	Show  bool   `json:"show"`
	Steps []Step `json:"steps"`
}

func handleGet(tour *Tour, pref *i18n.Preference) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		writeJSON(w, http.StatusOK, tourResponse{
			Show:  tour.ShouldShow(ctx),
			Steps: Steps(pref.Catalog(ctx)),
		})
	}
}

func handleDone(tour *Tour) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tour.MarkShown(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
