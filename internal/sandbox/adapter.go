// Package sandbox adapts the pricing engine to the checkout platform's
// deterministic execution environment. The host supplies all inputs in a
// single payload and accepts only relative (percentage) adjustments per
// line; nothing here performs I/O, reads the clock, or touches shared state.
package sandbox

import (
	"strconv"
	"strings"

	"github.com/merchkit/pricing-api/internal/common"
	"github.com/merchkit/pricing-api/internal/pricing"
	"github.com/merchkit/pricing-api/internal/rules"
)

// Input is the invocation payload supplied by the checkout runtime. RuleConfig
// is the pre-serialized rule blob synchronized ahead of time; there is no rule
// store access from inside the sandbox.
type Input struct {
	CartLines  []InputLine `json:"cartLines"`
	RuleConfig string      `json:"ruleConfig"`
}

// InputLine is one checkout line as the platform presents it: a compound
// merchandise identifier and a decimal unit price.
type InputLine struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unitPrice"`
}

// Output is the discount instruction set returned to the checkout runtime.
// An empty Discounts slice is valid and means no discounts apply.
type Output struct {
	Discounts []Discount `json:"discounts"`
}

// Discount targets one or more lines with a percentage adjustment.
type Discount struct {
	Targets []Target `json:"targets"`
	Value   Value    `json:"value"`
	Message string   `json:"message"`
}

// Target identifies a cart line.
type Target struct {
	LineID string `json:"lineId"`
}

// Value carries the relative adjustment. The protocol accepts percentages
// only, so fixed discounts are re-expressed relative to the unit price here.
type Value struct {
	Percentage string `json:"percentage"`
}

// Run resolves discounts for the supplied cart lines. A rule config that
// fails to parse is fatal for the invocation: the result is no discounts,
// never a partial or guessed configuration.
func Run(input Input) Output {
	out := Output{Discounts: []Discount{}}
	ruleSet, err := rules.DecodeConfig([]byte(input.RuleConfig))
	if err != nil {
		return out
	}
	for _, line := range input.CartLines {
		productID := ExtractProductID(line.MerchandiseID)
		if productID == "" || line.Quantity <= 0 {
			continue
		}
		unitPrice, err := common.ParseDecimalMinorUnits(line.UnitPrice)
		if err != nil || unitPrice <= 0 {
			continue
		}
		resolved, ok := pricing.SelectBest(pricing.MatchCandidates(productID, ruleSet), unitPrice)
		if !ok || resolved.PerUnitAmount <= 0 {
			continue
		}
		out.Discounts = append(out.Discounts, Discount{
			Targets: []Target{{LineID: line.ID}},
			Value:   Value{Percentage: effectivePercentage(resolved.PerUnitAmount, unitPrice)},
			Message: resolved.Name,
		})
	}
	return out
}

// ExtractProductID strips the platform's compound identifier down to the
// plain catalog product id (the final path segment of e.g.
// "gid://platform/ProductVariant/12345").
func ExtractProductID(merchandiseID string) string {
	trimmed := strings.TrimSpace(merchandiseID)
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// effectivePercentage re-expresses an absolute per-unit discount as the
// percentage of the unit price the output protocol requires. This is the
// single floating-point boundary in the system: a fixed discount translated
// here may differ from the aggregator's absolute figure by a fraction of a
// minor unit, which is an accepted divergence at the edge.
func effectivePercentage(perUnit, unitPrice pricing.Money) string {
	pct := float64(perUnit) / float64(unitPrice) * 100
	return strconv.FormatFloat(pct, 'f', -1, 64)
}
