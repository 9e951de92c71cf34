package history

import "strings"

// UniqueKeywords flattens the keywords of all groups, keeping the first
// occurrence of each.
func UniqueKeywords(groups []KeywordGroup) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

// Join renders keywords the way they are pasted into stock-site metadata.
func Join(keywords []string) string {
	return strings.Join(keywords, ", ")
}

// Titles returns the group titles in order.
func Titles(groups []KeywordGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Title
	}
	return out
}
