// Package pricing maps model identifiers to per-token prices and
// derives call costs. The table is loaded once at startup and never
// mutated afterwards.
package pricing

import (
	"math"
	"strings"
)

// Tier is the input/output price pair for a model prefix, in USD per
// 1M tokens.
type Tier struct {
	Prefix string
	Input  float64
	Output float64
}

// DefaultTier is the catch-all for unknown models.
var DefaultTier = Tier{Input: 1.0, Output: 2.0}

// Table resolves model names to pricing tiers. Entries are checked in
// declaration order: prefix matching returns the FIRST declared entry
// whose prefix matches, so a model named "gpt-4-mini-special" resolves
// to whichever of its matching prefixes was declared first. Reordering
// the table is a behavior change.
type Table struct {
	tiers []Tier
}

// NewTable builds a table from ordered tiers. Empty input yields the
// built-in defaults.
func NewTable(tiers []Tier) Table {
	if len(tiers) == 0 {
		return DefaultTable()
	}
	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return Table{tiers: cp}
}

// DefaultTable returns the built-in pricing table.
func DefaultTable() Table {
	return Table{tiers: []Tier{
		// OpenAI
		{Prefix: "gpt-4", Input: 30.0, Output: 60.0},
		{Prefix: "gpt-4-32k", Input: 60.0, Output: 120.0},
		{Prefix: "gpt-4-turbo", Input: 10.0, Output: 30.0},
		{Prefix: "gpt-4-turbo-preview", Input: 10.0, Output: 30.0},
		{Prefix: "gpt-4-mini", Input: 0.15, Output: 0.60},
		{Prefix: "gpt-3.5-turbo", Input: 0.50, Output: 1.50},
		{Prefix: "gpt-3.5-turbo-16k", Input: 3.0, Output: 4.0},

		// Anthropic
		{Prefix: "claude-3-opus", Input: 15.0, Output: 75.0},
		{Prefix: "claude-3-sonnet", Input: 3.0, Output: 15.0},
		{Prefix: "claude-3-haiku", Input: 0.25, Output: 1.25},
		{Prefix: "claude-sonnet-4", Input: 3.0, Output: 15.0},
		{Prefix: "claude-3-5-sonnet", Input: 3.0, Output: 15.0},
		{Prefix: "claude-3-5-haiku", Input: 0.80, Output: 4.0},
	}}
}

// Resolve returns the pricing tier for a model. Exact match first,
// then the first declared prefix match (handles date-suffixed variants
// like "gpt-4-0613"), then DefaultTier. Never fails.
func (t Table) Resolve(model string) Tier {
	for _, tier := range t.tiers {
		if tier.Prefix == model {
			return tier
		}
	}
	for _, tier := range t.tiers {
		if strings.HasPrefix(model, tier.Prefix) {
			return tier
		}
	}
	return DefaultTier
}

// Cost derives the USD cost for a call from its token counts, rounded
// to 6 fractional digits. Negative counts are rejected upstream as a
// validation error; here they are treated as zero.
func (t Table) Cost(model string, promptTokens, completionTokens int) float64 {
	if promptTokens < 0 {
		promptTokens = 0
	}
	if completionTokens < 0 {
		completionTokens = 0
	}

	tier := t.Resolve(model)
	cost := float64(promptTokens)/1_000_000*tier.Input +
		float64(completionTokens)/1_000_000*tier.Output

	return math.Round(cost*1e6) / 1e6
}
