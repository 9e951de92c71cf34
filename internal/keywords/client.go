// Package keywords turns a microstock title into SEO keywords through an LLM
// provider.
package keywords

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/llm"
)

var (
	// ErrMissingCredential is returned before any network activity when no
	// API key is available.
	ErrMissingCredential = errors.New("api key is not set")
	// ErrMalformedResponse covers every failed call: transport, service and
	// unparseable output alike.
	ErrMalformedResponse = errors.New("failed to parse keywords from API response")
)

// Sampling parameters sent with every request.
const (
	Temperature = 0.7
	TopP        = 0.9
)

// Client generates keywords for one title at a time. It holds no state
// between calls and is safe for concurrent use.
type Client struct {
	newProvider llm.Factory
	model       string
	maxTokens   int
	log         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxTokens caps the response length. Zero leaves the provider default.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// WithLogger sets the logger used for failure causes and usage.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client that builds a provider per credential with
// newProvider and asks it for model.
func NewClient(newProvider llm.Factory, model string, opts ...Option) *Client {
	c := &Client{newProvider: newProvider, model: model, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("keywords")
	return c
}

// Generate asks the model for count single-word keywords describing title.
// The result is the model's array verbatim: it is neither de-duplicated nor
// checked against count.
func (c *Client) Generate(ctx context.Context, title string, count int, credential string) ([]string, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	log := c.log.With(zap.String("title", title), zap.Int("count", count))

	provider, err := c.newProvider(credential)
	if err != nil {
		log.Error("creating provider failed", zap.Error(err))
		return nil, ErrMalformedResponse
	}

	prompt := BuildPrompt(title, count)
	start := time.Now()
	resp, err := provider.Complete(ctx, llm.CompletionRequest{
		Model:       c.model,
		Messages:    llm.Prompt("", prompt),
		MaxTokens:   c.maxTokens,
		Temperature: Temperature,
		TopP:        TopP,
	})
	if err != nil {
		log.Error("keyword request failed", zap.String("provider", provider.Name()), zap.Error(err))
		return nil, ErrMalformedResponse
	}

	keywords, err := ParseKeywords(resp.Content)
	if err != nil {
		log.Error("keyword response rejected", zap.Error(err), zap.String("content", resp.Content))
		return nil, ErrMalformedResponse
	}

	log.Debug("keywords generated",
		zap.Int("received", len(keywords)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("cost_usd", resp.Cost()),
	)
	return keywords, nil
}

// BuildPrompt renders the instruction sent for one title.
func BuildPrompt(title string, count int) string {
	return fmt.Sprintf("Based on the following title for a microstock image/vector, generate exactly %d SEO-friendly and highly searchable single-word keywords in English. "+
		"These keywords will be used for metadata on platforms like Adobe Stock, Vecteezy, and Freepik. "+
		"The keywords should be relevant, specific, and cover concepts, themes, and objects related to the title. "+
		"Each keyword in the list must be a single word.\n\n"+
		"Title: \"%s\"\n\n"+
		"Provide the output as a valid JSON array of %d single-word strings, and nothing else.", count, title, count)
}
