package llm

import "strings"

// Pricing is USD per million tokens.
type Pricing struct {
	Input  float64
	Output float64
}

// prices is keyed by model family. Dated snapshots such as
// claude-haiku-4-5-20251001 resolve through LookupPricing.
var prices = map[string]Pricing{
	"claude-sonnet-4-5": {Input: 3.00, Output: 15.00},
	"claude-haiku-4-5":  {Input: 1.00, Output: 5.00},
	"gpt-4o":            {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":       {Input: 0.15, Output: 0.60},
	"gpt-4.1-mini":      {Input: 0.40, Output: 1.60},
	"gemini-2.5-flash":  {Input: 0.30, Output: 2.50},
	"gemini-2.5-pro":    {Input: 1.25, Output: 10.00},
	"gemini-2.0-flash":  {Input: 0.10, Output: 0.40},
}

// LookupPricing finds the price of model, matching an exact key first and
// then the longest family key followed by a "-" suffix.
func LookupPricing(model string) (Pricing, bool) {
	if p, ok := prices[model]; ok {
		return p, true
	}
	var best string
	for family := range prices {
		if strings.HasPrefix(model, family+"-") && len(family) > len(best) {
			best = family
		}
	}
	if best == "" {
		return Pricing{}, false
	}
	return prices[best], true
}

// EstimateCost is zero for models missing from the table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	p, ok := LookupPricing(model)
	if !ok {
		return 0
	}
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1e6
}

// EstimateTokens approximates four characters per token, rounding a short
// non-empty text up to one.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(1, len(text)/4)
}
