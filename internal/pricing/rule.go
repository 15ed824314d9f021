package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Kind identifies how a discount rule computes its amount.
type Kind string

const (
	// KindPercentage discounts a percentage of the unit price.
	KindPercentage Kind = "percentage"
	// KindFixed discounts a fixed amount in minor units per unit.
	KindFixed Kind = "fixed"
)

// Rule is a merchant-authored discount policy. Rules are immutable inputs for
// the duration of one resolution call; the engine never mutates them.
type Rule struct {
	ID         string
	Name       string
	Kind       Kind
	Magnitude  int64
	ProductIDs []string
}

// AppliesTo reports whether the rule's scope covers the given product.
// An empty product set means the rule applies to every product.
func (r Rule) AppliesTo(productID string) bool {
	if len(r.ProductIDs) == 0 {
		return true
	}
	for _, id := range r.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
