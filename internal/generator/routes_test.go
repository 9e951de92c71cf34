package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/stockseo/internal/history"
)

func setupRouter(f *fixture) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, f.o)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateRoute(t *testing.T) {
	f := setupTest(t)
	r := setupRouter(f)

	rec := do(r, http.MethodPost, "/api/generate", `{"input":"Red apple","count":10}`)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)
	var errResp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, KindMissingCredential, errResp.Kind)
	assert.Equal(t, "settings", errResp.View)

	f.keys.SetActive(context.Background(), "k")
	f.source.answers["Red apple"] = []string{"apple", "red", "fruit"}
	f.source.answers["Green apple"] = []string{"apple", "green"}

	rec = do(r, http.MethodPost, "/api/generate", `{"input":"Red apple\nGreen apple","count":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp generateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Groups, 2)
	assert.Equal(t, "apple, red, fruit, green", resp.CopyAll)

	tests := []struct {
		body string
		code int
		kind ErrorKind
	}{
		{`{"input":"   ","count":10}`, http.StatusBadRequest, KindNoTitle},
		{`{"input":"Red apple","count":99}`, http.StatusBadRequest, KindInvalidCount},
		{`not json`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		rec := do(r, http.MethodPost, "/api/generate", tt.body)
		assert.Equal(t, tt.code, rec.Code, tt.body)
		var e errorResponse
		json.NewDecoder(rec.Body).Decode(&e)
		assert.Equal(t, tt.kind, e.Kind, tt.body)
	}
}

func TestGenerateRouteDefaultsCount(t *testing.T) {
	f := setupTest(t)
	f.keys.SetActive(context.Background(), "k")

	rec := do(setupRouter(f), http.MethodPost, "/api/generate", `{"input":"Blue sky"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp generateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Groups[0].Keywords, DefaultCount)
}

func TestGenerateRouteUpstreamFailure(t *testing.T) {
	f := setupTest(t)
	f.keys.SetActive(context.Background(), "k")
	f.source.fail["Blue sky"] = assert.AnError

	rec := do(setupRouter(f), http.MethodPost, "/api/generate", `{"input":"Blue sky","count":10}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var e errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&e))
	assert.Equal(t, ErrGenerationFailed.Error(), e.Error)
	assert.Equal(t, KindGenerationFailed, e.Kind)

	rec = do(setupRouter(f), http.MethodGet, "/api/state", "")
	var s stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, KindGenerationFailed, s.Failure)
	assert.Equal(t, "Failed to generate keywords. Please check your API key and try again.", s.Message)
}

func TestHistoryRoutes(t *testing.T) {
	f := setupTest(t)
	r := setupRouter(f)
	ctx := context.Background()
	f.history.Add(ctx, []history.KeywordGroup{{Title: "a", Keywords: []string{"x"}}})
	items := f.history.Add(ctx, []history.KeywordGroup{{Title: "b", Keywords: []string{"y", "z"}}})
	id := items[0].ID

	rec := do(r, http.MethodPost, "/api/history/"+id+"/use", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d Draft
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	assert.Equal(t, "b", d.Input)
	assert.Equal(t, 2, d.Count)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/history/nope/use", "").Code)

	rec = do(r, http.MethodDelete, "/api/history/"+id, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, f.history.All(ctx), 2)

	rec = do(r, http.MethodDelete, "/api/history/"+id+"?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.history.All(ctx), 1)

	assert.Equal(t, http.StatusConflict, do(r, http.MethodDelete, "/api/history", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/history?confirm=true", "").Code)
	assert.Empty(t, f.history.All(ctx))
}

func TestKeyRoutes(t *testing.T) {
	f := setupTest(t)
	r := setupRouter(f)
	ctx := context.Background()
	f.keys.RecordUsage(ctx, "key-one-000000")
	f.keys.RecordUsage(ctx, "key-two-000000")
	f.keys.SetActive(ctx, "key-two-000000")

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/keys/delete", `{"key":"key-one-000000"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/keys/delete?confirm=true", `{}`).Code)

	rec := do(r, http.MethodPost, "/api/keys/delete?confirm=true", `{"key":"key-one-000000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []struct {
		Masked string `json:"masked"`
		Active bool   `json:"active"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Active)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/keys?confirm=true", "").Code)
	assert.Empty(t, f.keys.History(ctx))
	assert.Equal(t, "key-two-000000", f.keys.Active(ctx), "clearing history keeps the active key")
}
