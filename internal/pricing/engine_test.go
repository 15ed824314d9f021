package pricing

import "testing"

func TestDiscountAmountPercentage(t *testing.T) {
	rule := Rule{ID: "r1", Kind: KindPercentage, Magnitude: 20}
	if got := DiscountAmount(10_000, rule); got != 2_000 {
		t.Fatalf("expected 2000, got %d", got)
	}
}

func TestDiscountAmountPercentageRoundsHalfUp(t *testing.T) {
	cases := []struct {
		price Money
		pct   int64
		want  Money
	}{
		{999, 5, 50},  // 49.95 rounds up
		{101, 33, 33}, // 33.33 rounds down
		{150, 33, 50}, // 49.5 rounds up
		{1, 50, 1},    // 0.5 rounds up
	}
	for _, tc := range cases {
		rule := Rule{ID: "r", Kind: KindPercentage, Magnitude: tc.pct}
		if got := DiscountAmount(tc.price, rule); got != tc.want {
			t.Fatalf("price=%d pct=%d: expected %d, got %d", tc.price, tc.pct, tc.want, got)
		}
	}
}

func TestDiscountAmountFullPercentage(t *testing.T) {
	rule := Rule{ID: "r1", Kind: KindPercentage, Magnitude: 100}
	if got := DiscountAmount(7_331, rule); got != 7_331 {
		t.Fatalf("expected full unit price 7331, got %d", got)
	}
}

func TestDiscountAmountFixedBelowPrice(t *testing.T) {
	rule := Rule{ID: "r1", Kind: KindFixed, Magnitude: 1_500}
	if got := DiscountAmount(5_000, rule); got != 1_500 {
		t.Fatalf("expected 1500, got %d", got)
	}
}

func TestDiscountAmountFixedCappedAtPrice(t *testing.T) {
	rule := Rule{ID: "r1", Kind: KindFixed, Magnitude: 10_000}
	if got := DiscountAmount(3_000, rule); got != 3_000 {
		t.Fatalf("expected cap at 3000, got %d", got)
	}
}

func TestDiscountAmountUnknownKind(t *testing.T) {
	rule := Rule{ID: "r1", Kind: Kind("bogo"), Magnitude: 50}
	if got := DiscountAmount(5_000, rule); got != 0 {
		t.Fatalf("unknown kind must yield 0, got %d", got)
	}
}

func TestDiscountAmountNeverExceedsUnitPrice(t *testing.T) {
	prices := []Money{0, 1, 99, 100, 2_499, 1_000_000}
	rules := []Rule{
		{ID: "a", Kind: KindPercentage, Magnitude: 0},
		{ID: "b", Kind: KindPercentage, Magnitude: 7},
		{ID: "c", Kind: KindPercentage, Magnitude: 100},
		{ID: "d", Kind: KindFixed, Magnitude: 500},
		{ID: "e", Kind: KindFixed, Magnitude: 10_000_000},
	}
	for _, price := range prices {
		for _, rule := range rules {
			got := DiscountAmount(price, rule)
			if got < 0 || got > price {
				t.Fatalf("price=%d rule=%s: amount %d out of [0,%d]", price, rule.ID, got, price)
			}
		}
	}
}

func TestMatchCandidatesScope(t *testing.T) {
	rules := []Rule{
		{ID: "all", Kind: KindPercentage, Magnitude: 5},
		{ID: "scoped", Kind: KindPercentage, Magnitude: 10, ProductIDs: []string{"sku-1", "sku-2"}},
		{ID: "other", Kind: KindFixed, Magnitude: 100, ProductIDs: []string{"sku-9"}},
	}
	matched := MatchCandidates("sku-1", rules)
	if len(matched) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(matched))
	}
	if matched[0].ID != "all" || matched[1].ID != "scoped" {
		t.Fatalf("unexpected candidates: %v", matched)
	}
}

func TestSelectBestPicksLargestAmount(t *testing.T) {
	candidates := []Rule{
		{ID: "pct", Kind: KindPercentage, Magnitude: 20},
		{ID: "fix", Kind: KindFixed, Magnitude: 1_500},
	}
	resolved, ok := SelectBest(candidates, 10_000)
	if !ok {
		t.Fatal("expected a resolved discount")
	}
	if resolved.RuleID != "pct" || resolved.PerUnitAmount != 2_000 {
		t.Fatalf("expected pct rule at 2000, got %s at %d", resolved.RuleID, resolved.PerUnitAmount)
	}
}

func TestSelectBestTieBreakIsOrderIndependent(t *testing.T) {
	a := Rule{ID: "aaa", Kind: KindFixed, Magnitude: 1_000}
	b := Rule{ID: "zzz", Kind: KindFixed, Magnitude: 1_000}

	forward, ok := SelectBest([]Rule{a, b}, 5_000)
	if !ok {
		t.Fatal("expected a resolved discount")
	}
	reverse, ok := SelectBest([]Rule{b, a}, 5_000)
	if !ok {
		t.Fatal("expected a resolved discount")
	}
	if forward.RuleID != "aaa" || reverse.RuleID != "aaa" {
		t.Fatalf("tie must resolve to smallest id: forward=%s reverse=%s", forward.RuleID, reverse.RuleID)
	}
	if forward != reverse {
		t.Fatalf("resolution must be order independent: %+v vs %+v", forward, reverse)
	}
}

func TestSelectBestExcludesZeroAmounts(t *testing.T) {
	candidates := []Rule{
		{ID: "zero", Kind: KindPercentage, Magnitude: 0},
		{ID: "bogus", Kind: Kind("mystery"), Magnitude: 50},
	}
	if _, ok := SelectBest(candidates, 10_000); ok {
		t.Fatal("expected no discount when every candidate computes zero")
	}
}

func TestSelectBestNoCandidates(t *testing.T) {
	if _, ok := SelectBest(nil, 10_000); ok {
		t.Fatal("expected no discount for empty candidate set")
	}
}
