package apikeys

// HistoryItem records when a credential was last used for generation.
type HistoryItem struct {
	Key      string `json:"key"`
	LastUsed int64  `json:"lastUsed"` // milliseconds since epoch
}

// MaxHistory bounds the number of remembered credentials.
const MaxHistory = 10
