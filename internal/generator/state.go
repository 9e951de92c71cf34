package generator

import "github.com/ziadkadry99/stockseo/internal/history"

// Phase is the stage of the generation flow.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// ErrorKind classifies a failed attempt.
type ErrorKind string

const (
	KindMissingCredential ErrorKind = "missing_credential"
	KindNoTitle           ErrorKind = "no_title"
	KindInvalidCount      ErrorKind = "invalid_count"
	KindGenerationFailed  ErrorKind = "generation_failed"
)

// State is a snapshot of the generator screen. Groups is empty while
// loading; Failure is set only in PhaseFailed.
type State struct {
	Phase   Phase                  `json:"phase"`
	Groups  []history.KeywordGroup `json:"groups"`
	Failure ErrorKind              `json:"error,omitempty"`
	Input   string                 `json:"input"`
	Count   int                    `json:"count"`
}

func idle() State {
	return State{Phase: PhaseIdle, Groups: []history.KeywordGroup{}, Count: DefaultCount}
}

func (s State) loading() State {
	return State{Phase: PhaseLoading, Groups: []history.KeywordGroup{}, Input: s.Input, Count: s.Count}
}

func (s State) succeeded(groups []history.KeywordGroup) State {
	return State{Phase: PhaseSuccess, Groups: groups, Input: s.Input, Count: s.Count}
}

// failed keeps whatever groups are currently shown.
func (s State) failed(kind ErrorKind) State {
	s.Phase = PhaseFailed
	s.Failure = kind
	return s
}

// Draft is what the generator form is refilled with when a history item is
// reused.
type Draft struct {
	Input  string                 `json:"input"`
	Count  int                    `json:"count"`
	Groups []history.KeywordGroup `json:"groups"`
}
