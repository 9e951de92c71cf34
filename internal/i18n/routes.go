package i18n

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts catalog and language-preference routes.
func RegisterRoutes(r chi.Router, pref *Preference) {
	r.Get("/api/i18n/{lang}", handleCatalog())
	r.Get("/api/language", handleGetLanguage(pref))
	r.Put("/api/language", handleSetLanguage(pref))
}

type languageResponse struct {
	Language  string   `json:"language"`
	Supported []string `json:"supported"`
}

func handleCatalog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := Load(chi.URLParam(r, "lang"))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Language", c.Lang())
		writeJSON(w, http.StatusOK, c.Raw())
	}
}

func handleGetLanguage(pref *Preference) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, languageResponse{Language: pref.Get(r.Context()), Supported: Supported()})
	}
}

func handleSetLanguage(pref *Preference) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Language string `json:"language"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Language == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "language is required"})
			return
		}
		lang := pref.Set(r.Context(), req.Language)
		writeJSON(w, http.StatusOK, languageResponse{Language: lang, Supported: Supported()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
