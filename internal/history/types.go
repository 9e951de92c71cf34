package history

// KeywordGroup pairs one title with the keywords generated for it.
type KeywordGroup struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// Item is one persisted batch generation.
type Item struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"` // milliseconds since epoch
	Groups    []KeywordGroup `json:"groups"`
}

// MaxItems bounds the stored history.
const MaxItems = 20
