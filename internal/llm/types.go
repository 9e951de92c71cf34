// Package llm sends single-turn prompts to hosted and local language models.
package llm

import "context"

// DefaultMaxTokens is sent to APIs that require an output limit when the
// request sets none. Providers without that requirement leave the cap to the
// model, since thinking models count reasoning against it.
const DefaultMaxTokens = 1024

// Provider is one model backend.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// Role tags the sender of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Prompt builds the message list for a one-shot request. An empty system
// string is left out.
func Prompt(system, user string) []Message {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	return append(msgs, Message{Role: RoleUser, Content: user})
}

// CompletionRequest describes one call. Zero TopP and zero MaxTokens leave
// the provider defaults in place.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	TopP        float64
}

func (r CompletionRequest) model(fallback string) string {
	if r.Model != "" {
		return r.Model
	}
	return fallback
}

// requiredMaxTokens is MaxTokens, or DefaultMaxTokens when unset.
func (r CompletionRequest) requiredMaxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// split returns the joined system text and the remaining turns.
func (r CompletionRequest) split() (string, []Message) {
	var system string
	var turns []Message
	for _, m := range r.Messages {
		if m.Role != RoleSystem {
			turns = append(turns, m)
			continue
		}
		if system != "" {
			system += "\n\n"
		}
		system += m.Content
	}
	return system, turns
}

type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}

// Cost estimates the USD spent on the response, zero for unpriced models.
func (r *CompletionResponse) Cost() float64 {
	return EstimateCost(r.Model, r.InputTokens, r.OutputTokens)
}
