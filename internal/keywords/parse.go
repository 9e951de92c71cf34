package keywords

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^```(?:json)?\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

// StripFences removes a Markdown code fence wrapped around the model output.
// Text without fences is returned trimmed.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	text = openingFence.ReplaceAllString(text, "")
	text = closingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParseKeywords decodes the model output as a JSON array of strings after
// stripping code fences. Every element must be a string; null is rejected.
func ParseKeywords(text string) ([]string, error) {
	body := StripFences(text)
	var raw []*string
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null array", ErrMalformedResponse)
	}
	keywords := make([]string, len(raw))
	for i, k := range raw {
		if k == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrMalformedResponse, i)
		}
		keywords[i] = *k
	}
	return keywords, nil
}
