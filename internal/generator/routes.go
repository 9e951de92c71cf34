package generator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/stockseo/internal/apikeys"
	"github.com/ziadkadry99/stockseo/internal/history"
)

// RegisterRoutes mounts generation, reuse and the confirmed destructive
// operations. Destructive routes require ?confirm=true.
func RegisterRoutes(r chi.Router, o *Orchestrator) {
	r.Post("/api/generate", handleGenerate(o))
	r.Get("/api/state", handleState(o))
	r.Post("/api/history/{id}/use", handleUse(o))
	r.Delete("/api/history/{id}", handleDeleteHistoryItem(o))
	r.Delete("/api/history", handleClearHistory(o))
	r.Post("/api/keys/delete", handleDeleteKey(o))
	r.Delete("/api/keys", handleClearKeys(o))
}

type generateRequest struct {
	Input string `json:"input"`
	Count *int   `json:"count,omitempty"`
}

type generateResponse struct {
	Groups  []history.KeywordGroup `json:"groups"`
	CopyAll string                 `json:"copy_all"`
}

type errorResponse struct {
	Error   string    `json:"error"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message"`
	View    string    `json:"view,omitempty"`
}

type stateResponse struct {
	State
	Message string `json:"message,omitempty"`
}

func handleGenerate(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Message: "invalid request body"})
			return
		}
		count := DefaultCount
		if req.Count != nil {
			count = *req.Count
		}

		groups, err := o.Generate(r.Context(), req.Input, count)
		if err != nil {
			writeError(w, r, o, err)
			return
		}
		writeJSON(w, http.StatusOK, generateResponse{
			Groups:  groups,
			CopyAll: history.Join(history.UniqueKeywords(groups)),
		})
	}
}

func handleState(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := o.State()
		writeJSON(w, http.StatusOK, stateResponse{State: s, Message: KindMessage(s.Failure, o.catalog(r.Context()))})
	}
}

func handleUse(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := o.UseHistoryItem(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, o, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func handleDeleteHistoryItem(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := o.DeleteHistoryItem(r.Context(), chi.URLParam(r, "id"), confirmFlag(r))
		if err != nil {
			writeError(w, r, o, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleClearHistory(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.ClearHistory(r.Context(), confirmFlag(r)); err != nil {
			writeError(w, r, o, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeleteKey(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key string `json:"key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "key is required", Message: "key is required"})
			return
		}
		items, err := o.DeleteKey(r.Context(), req.Key, confirmFlag(r))
		if err != nil {
			writeError(w, r, o, err)
			return
		}
		writeJSON(w, http.StatusOK, apikeys.Entries(items, o.keys.Active(r.Context())))
	}
}

func handleClearKeys(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.ClearKeyHistory(r.Context(), confirmFlag(r)); err != nil {
			writeError(w, r, o, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func confirmFlag(r *http.Request) Confirmer {
	return Static(r.URL.Query().Get("confirm") == "true")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrNoTitle), errors.Is(err, ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, ErrBusy), errors.Is(err, ErrCancelled):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGenerationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, o *Orchestrator, err error) {
	resp := errorResponse{Error: err.Error(), Kind: Kind(err), Message: Message(err, o.catalog(r.Context()))}
	// Per-title causes stay in the log.
	if errors.Is(err, ErrGenerationFailed) {
		resp.Error = ErrGenerationFailed.Error()
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrBusy) {
		resp.Message = err.Error()
	}
	if resp.Kind == KindMissingCredential {
		resp.View = string(o.nav.SubView())
	}
	writeJSON(w, statusFor(err), resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
