package apikeys

// Mask hides all but the first and last four characters of a credential.
func Mask(key string) string {
	if len(key) < 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// Entry is a display row for the settings view.
type Entry struct {
	Masked   string `json:"masked"`
	Key      string `json:"key"`
	LastUsed int64  `json:"lastUsed"`
	Active   bool   `json:"active"`
}

// Entries returns the key history annotated for display.
func Entries(history []HistoryItem, active string) []Entry {
	out := make([]Entry, 0, len(history))
	for _, item := range history {
		out = append(out, Entry{
			Masked:   Mask(item.Key),
			Key:      item.Key,
			LastUsed: item.LastUsed,
			Active:   item.Key == active,
		})
	}
	return out
}
