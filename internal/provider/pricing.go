package provider

import (
	"log/slog"
	"strings"
)

// modelPrice holds USD per million tokens for a model family.
type modelPrice struct {
	Input  float64
	Output float64
}

// Prices are matched by longest prefix so dated model snapshots resolve to
// their family rate.
var modelPrices = map[string]modelPrice{
	"claude-opus-4":     {Input: 15.0, Output: 75.0},
	"claude-sonnet-4":   {Input: 3.0, Output: 15.0},
	"claude-3-5-sonnet": {Input: 3.0, Output: 15.0},
	"claude-3-5-haiku":  {Input: 0.8, Output: 4.0},
	"claude-3-haiku":    {Input: 0.25, Output: 1.25},
	"gpt-4o-mini":       {Input: 0.15, Output: 0.6},
	"gpt-4o":            {Input: 2.5, Output: 10.0},
	"gpt-4.1-mini":      {Input: 0.4, Output: 1.6},
	"gpt-4.1":           {Input: 2.0, Output: 8.0},
	"o1-mini":           {Input: 1.1, Output: 4.4},
	"o1":                {Input: 15.0, Output: 60.0},
	"o3-mini":           {Input: 1.1, Output: 4.4},
	"o3":                {Input: 2.0, Output: 8.0},
	"o4-mini":           {Input: 1.1, Output: 4.4},
}

// defaultPrice is charged when a model has no table entry. A mid-tier rate
// overestimates cheap models rather than undercounting expensive ones.
var defaultPrice = modelPrice{Input: 3.0, Output: 15.0}

// EstimateCost returns the USD cost for a completion given token counts.
// Unknown models fall back to the default tier.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	price, ok := lookupPrice(model)
	if !ok {
		slog.Debug("no price entry for model, using default tier", "model", model)
		price = defaultPrice
	}
	return (float64(inputTokens)*price.Input + float64(outputTokens)*price.Output) / 1_000_000
}

func lookupPrice(model string) (modelPrice, bool) {
	lower := strings.ToLower(strings.TrimSpace(model))
	var (
		best    modelPrice
		bestLen = -1
	)
	for prefix, price := range modelPrices {
		if strings.HasPrefix(lower, prefix) && len(prefix) > bestLen {
			best = price
			bestLen = len(prefix)
		}
	}
	if bestLen < 0 {
		return modelPrice{}, false
	}
	return best, true
}
