package apikeys

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the settings-view API routes. Deleting keys goes
// through the generator routes because it requires confirmation.
func RegisterRoutes(r chi.Router, reg *Registry) {
	r.Get("/api/settings/key", handleGetActive(reg))
	r.Put("/api/settings/key", handleSetActive(reg))
	r.Get("/api/keys", handleList(reg))
	r.Post("/api/keys/select", handleSelect(reg))
}

type keyRequest struct {
	Key string `json:"key"`
}

type activeResponse struct {
	Set    bool   `json:"set"`
	Masked string `json:"masked,omitempty"`
}

func handleGetActive(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := reg.Active(r.Context())
		resp := activeResponse{Set: key != ""}
		if resp.Set {
			resp.Masked = Mask(key)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSetActive(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req keyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		reg.SetActive(r.Context(), req.Key)
		writeJSON(w, http.StatusOK, activeResponse{Set: req.Key != "", Masked: maskIfSet(req.Key)})
	}
}

func handleList(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		writeJSON(w, http.StatusOK, Entries(reg.History(ctx), reg.Active(ctx)))
	}
}

func handleSelect(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req keyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
			return
		}
		reg.SetActive(r.Context(), req.Key)
		writeJSON(w, http.StatusOK, activeResponse{Set: true, Masked: Mask(req.Key)})
	}
}

func maskIfSet(key string) string {
	if key == "" {
		return ""
	}
	return Mask(key)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
