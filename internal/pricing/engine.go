package pricing

// Resolved describes the winning rule for one cart line and the absolute
// discount it yields per unit.
type Resolved struct {
	RuleID        string `json:"ruleId"`
	Name          string `json:"name"`
	Kind          Kind   `json:"kind"`
	Magnitude     int64  `json:"magnitude"`
	PerUnitAmount Money  `json:"perUnitAmount"`
}

// MatchCandidates selects the rules whose scope covers the product.
func MatchCandidates(productID string, rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.AppliesTo(productID) {
			out = append(out, r)
		}
	}
	return out
}

// DiscountAmount computes the per-unit discount a rule yields at the given
// unit price. Percentage amounts round half-up at the minor-unit boundary.
// A fixed discount never exceeds the unit price. Unknown kinds yield zero so
// a newer rule schema degrades safely on an older build.
func DiscountAmount(unitPrice Money, r Rule) Money {
	if unitPrice <= 0 || r.Magnitude <= 0 {
		return 0
	}
	var amount Money
	switch r.Kind {
	case KindPercentage:
		amount = (unitPrice*r.Magnitude + 50) / 100
	case KindFixed:
		amount = r.Magnitude
	default:
		return 0
	}
	if amount > unitPrice {
		amount = unitPrice
	}
	if amount < 0 {
		return 0
	}
	return amount
}

// SelectBest resolves the single best-value rule among the candidates.
// Candidates whose computed amount is zero are excluded; ties on amount are
// broken by the lexicographically smaller rule ID so the choice is
// deterministic regardless of input order. The second return value reports
// whether any discount applies.
func SelectBest(candidates []Rule, unitPrice Money) (Resolved, bool) {
	var (
		best   Rule
		amount Money
		found  bool
	)
	for _, c := range candidates {
		a := DiscountAmount(unitPrice, c)
		if a <= 0 {
			continue
		}
		if !found || a > amount || (a == amount && c.ID < best.ID) {
			best = c
			amount = a
			found = true
		}
	}
	if !found {
		return Resolved{}, false
	}
	return Resolved{
		RuleID:        best.ID,
		Name:          best.Name,
		Kind:          best.Kind,
		Magnitude:     best.Magnitude,
		PerUnitAmount: amount,
	}, true
}
