package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the read-only history routes. Deletion and
// "use in generator" are served by the generator routes.
func RegisterRoutes(r chi.Router, reg *Registry) {
	r.Get("/api/history", handleList(reg))
	r.Get("/api/history/{id}", handleGet(reg))
}

// itemView adds the de-duplicated keyword line shown by "copy all".
type itemView struct {
	Item
	CopyAll string `json:"copy_all"`
}

func handleList(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := reg.All(r.Context())
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(items) {
				items = items[:n]
			}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleGet(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := reg.Get(r.Context(), chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, itemView{Item: item, CopyAll: Join(UniqueKeywords(item.Groups))})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
