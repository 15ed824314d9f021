package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLine is returned when a cart line is missing required fields.
// The whole pricing call fails; no partial results are produced.
var ErrInvalidLine = errors.New("invalid cart line")

// Line is one cart entry submitted for pricing.
type Line struct {
	LineID    string
	ProductID string
	Qty       int
	UnitPrice Money
}

// PricedLine mirrors an input line annotated with its resolved discount.
type PricedLine struct {
	LineID       string
	ProductID    string
	Qty          int
	UnitPrice    Money
	Discount     *Resolved
	LineDiscount Money
	LineTotal    Money
}

// CartResult aggregates per-line pricing into cart totals.
type CartResult struct {
	Lines         []PricedLine
	Subtotal      Money
	TotalDiscount Money
	GrandTotal    Money
}

// PriceCart resolves the best discount for every line and computes totals.
// The discount is rounded once per unit before multiplying by quantity;
// output line order mirrors input order so callers can correlate results.
func PriceCart(lines []Line, rules []Rule) (CartResult, error) {
	result := CartResult{Lines: make([]PricedLine, 0, len(lines))}
	for i, line := range lines {
		productID := strings.TrimSpace(line.ProductID)
		if productID == "" {
			return CartResult{}, fmt.Errorf("line %d: productId is required: %w", i, ErrInvalidLine)
		}
		if line.Qty <= 0 {
			return CartResult{}, fmt.Errorf("line %d: quantity must be positive: %w", i, ErrInvalidLine)
		}
		if line.UnitPrice < 0 {
			return CartResult{}, fmt.Errorf("line %d: unit price must not be negative: %w", i, ErrInvalidLine)
		}

		priced := PricedLine{
			LineID:    line.LineID,
			ProductID: productID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		}
		gross := line.UnitPrice * Money(line.Qty)
		if resolved, ok := SelectBest(MatchCandidates(productID, rules), line.UnitPrice); ok {
			r := resolved
			priced.Discount = &r
			priced.LineDiscount = resolved.PerUnitAmount * Money(line.Qty)
		}
		priced.LineTotal = gross - priced.LineDiscount

		result.Subtotal += gross
		result.TotalDiscount += priced.LineDiscount
		result.Lines = append(result.Lines, priced)
	}
	result.GrandTotal = result.Subtotal - result.TotalDiscount
	return result, nil
}
