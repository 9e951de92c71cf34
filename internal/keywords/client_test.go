package keywords

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/stockseo/internal/llm"
)

type fakeProvider struct {
	mu      sync.Mutex
	content string
	err     error
	calls   []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.content, Model: "gemini-2.5-flash"}, nil
}

func newTestClient(p *fakeProvider, credentials *[]string) *Client {
	return NewClient(func(credential string) (llm.Provider, error) {
		if credentials != nil {
			*credentials = append(*credentials, credential)
		}
		return p, nil
	}, "gemini-2.5-flash")
}

func TestGenerateReturnsKeywordsVerbatim(t *testing.T) {
	p := &fakeProvider{content: `["sunset","beach","sunset","ocean"]`}
	var creds []string
	c := newTestClient(p, &creds)

	got, err := c.Generate(context.Background(), "Sunset over the beach", 45, "AIza-key")
	require.NoError(t, err)
	assert.Equal(t, []string{"sunset", "beach", "sunset", "ocean"}, got)

	require.Len(t, p.calls, 1)
	req := p.calls[0]
	assert.Equal(t, "gemini-2.5-flash", req.Model)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 0.9, req.TopP)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, llm.RoleUser, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `Title: "Sunset over the beach"`)
	assert.Equal(t, []string{"AIza-key"}, creds)
}

func TestGenerateMissingCredential(t *testing.T) {
	p := &fakeProvider{content: `["a"]`}
	var creds []string
	c := newTestClient(p, &creds)

	_, err := c.Generate(context.Background(), "title", 10, "")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Empty(t, p.calls, "no request may be sent without a credential")
	assert.Empty(t, creds)
}

func TestGenerateFencedResponse(t *testing.T) {
	p := &fakeProvider{content: "```json\n[\"cat\",\"dog\"]\n```"}
	got, err := newTestClient(p, nil).Generate(context.Background(), "pets", 2, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, got)
}

func TestGenerateFailuresBecomeMalformed(t *testing.T) {
	tests := []struct {
		name string
		p    *fakeProvider
	}{
		{"prose", &fakeProvider{content: "Here are your keywords: cat, dog"}},
		{"object", &fakeProvider{content: `{"keywords":["cat"]}`}},
		{"numbers", &fakeProvider{content: `[1,2,3]`}},
		{"transport", &fakeProvider{err: errors.New("connection reset")}},
		{"quota", &fakeProvider{err: errors.New("429 resource exhausted")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(tt.p, nil).Generate(context.Background(), "t", 5, "k")
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Equal(t, ErrMalformedResponse.Error(), err.Error(), "cause must not leak into the error")
		})
	}
}

func TestGenerateProviderConstructionFails(t *testing.T) {
	c := NewClient(func(string) (llm.Provider, error) {
		return nil, errors.New("bad config")
	}, "m")
	_, err := c.Generate(context.Background(), "t", 5, "k")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("Red apple on table", 30)
	assert.True(t, strings.HasPrefix(prompt, "Based on the following title for a microstock image/vector, generate exactly 30 "))
	assert.Contains(t, prompt, "Adobe Stock, Vecteezy, and Freepik")
	assert.Contains(t, prompt, "Title: \"Red apple on table\"\n\n")
	assert.True(t, strings.HasSuffix(prompt, "valid JSON array of 30 single-word strings, and nothing else."))
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`["a"]`, `["a"]`},
		{"  [\"a\"]\n", `["a"]`},
		{"```json\n[\"a\"]\n```", `["a"]`},
		{"```json[\"a\"]```", `["a"]`},
		{"```\n[\"a\"]\n```", `["a"]`},
		{"\n```json\n[\"a\"]\n```\n", `["a"]`},
		{"```json\n[\"a\"]", `["a"]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripFences(tt.in), "input %q", tt.in)
	}
}

func TestParseKeywords(t *testing.T) {
	got, err := ParseKeywords("```json\n[\"a\", \"b\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = ParseKeywords("[]")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	for _, bad := range []string{"", "null", "not json", `["a",]`, `"word"`, `["a",null]`, `["fruit", null, "red"]`, `["a", 1]`} {
		_, err := ParseKeywords(bad)
		assert.ErrorIs(t, err, ErrMalformedResponse, "input %q", bad)
	}
}
