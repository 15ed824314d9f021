package pricing

import (
	"errors"
	"testing"
)

func TestPriceCartPercentageLine(t *testing.T) {
	rules := []Rule{{ID: "pct20", Name: "20% off", Kind: KindPercentage, Magnitude: 20}}
	result, err := PriceCart([]Line{{LineID: "l1", ProductID: "sku-1", Qty: 2, UnitPrice: 10_000}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := result.Lines[0]
	if line.Discount == nil || line.Discount.PerUnitAmount != 2_000 {
		t.Fatalf("expected per-unit amount 2000, got %+v", line.Discount)
	}
	if line.LineDiscount != 4_000 || line.LineTotal != 16_000 {
		t.Fatalf("expected line discount 4000 and total 16000, got %d and %d", line.LineDiscount, line.LineTotal)
	}
	if result.Subtotal != 20_000 || result.TotalDiscount != 4_000 || result.GrandTotal != 16_000 {
		t.Fatalf("unexpected totals: %+v", result)
	}
}

func TestPriceCartFixedCapDrivesLineToZero(t *testing.T) {
	rules := []Rule{{ID: "fix", Name: "Big off", Kind: KindFixed, Magnitude: 10_000}}
	result, err := PriceCart([]Line{{LineID: "l1", ProductID: "sku-1", Qty: 1, UnitPrice: 3_000}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Lines[0].LineTotal != 0 {
		t.Fatalf("expected line total 0, got %d", result.Lines[0].LineTotal)
	}
	if result.GrandTotal != 0 {
		t.Fatalf("expected grand total 0, got %d", result.GrandTotal)
	}
}

func TestPriceCartNoMatchingScope(t *testing.T) {
	rules := []Rule{{ID: "scoped", Kind: KindPercentage, Magnitude: 50, ProductIDs: []string{"sku-other"}}}
	result, err := PriceCart([]Line{{LineID: "l1", ProductID: "sku-1", Qty: 3, UnitPrice: 2_500}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Lines[0].Discount != nil {
		t.Fatalf("expected no discount, got %+v", result.Lines[0].Discount)
	}
	if result.Lines[0].LineTotal != 7_500 || result.GrandTotal != 7_500 {
		t.Fatalf("expected undiscounted total 7500, got %+v", result)
	}
}

func TestPriceCartRoundsPerUnitNotPerLine(t *testing.T) {
	// 5% of 1010 is 50.5 which rounds to 51 per unit. Rounding the line
	// aggregate instead (3030 * 5% = 151.5 -> 152) would diverge.
	rules := []Rule{{ID: "pct5", Kind: KindPercentage, Magnitude: 5}}
	result, err := PriceCart([]Line{{LineID: "l1", ProductID: "sku-1", Qty: 3, UnitPrice: 1_010}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Lines[0].LineDiscount != 153 {
		t.Fatalf("expected per-unit rounded discount 153, got %d", result.Lines[0].LineDiscount)
	}
}

func TestPriceCartPreservesLineOrder(t *testing.T) {
	lines := []Line{
		{LineID: "b", ProductID: "sku-2", Qty: 1, UnitPrice: 100},
		{LineID: "a", ProductID: "sku-1", Qty: 1, UnitPrice: 200},
		{LineID: "c", ProductID: "sku-3", Qty: 1, UnitPrice: 300},
	}
	result, err := PriceCart(lines, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, line := range result.Lines {
		if line.LineID != lines[i].LineID {
			t.Fatalf("line %d: expected id %s, got %s", i, lines[i].LineID, line.LineID)
		}
	}
}

func TestPriceCartRejectsInvalidLines(t *testing.T) {
	rules := []Rule{{ID: "pct", Kind: KindPercentage, Magnitude: 10}}
	cases := []Line{
		{LineID: "l1", ProductID: "", Qty: 1, UnitPrice: 100},
		{LineID: "l1", ProductID: "sku-1", Qty: 0, UnitPrice: 100},
		{LineID: "l1", ProductID: "sku-1", Qty: -2, UnitPrice: 100},
		{LineID: "l1", ProductID: "sku-1", Qty: 1, UnitPrice: -1},
	}
	for i, bad := range cases {
		good := Line{LineID: "ok", ProductID: "sku-2", Qty: 1, UnitPrice: 500}
		_, err := PriceCart([]Line{good, bad}, rules)
		if !errors.Is(err, ErrInvalidLine) {
			t.Fatalf("case %d: expected ErrInvalidLine, got %v", i, err)
		}
	}
}

func TestPriceCartMatchesSingleLineResolution(t *testing.T) {
	// The aggregator and a single-line preview must produce bit-identical
	// resolutions for the same inputs.
	rules := []Rule{
		{ID: "pct15", Kind: KindPercentage, Magnitude: 15},
		{ID: "fix", Kind: KindFixed, Magnitude: 900, ProductIDs: []string{"sku-1"}},
	}
	result, err := PriceCart([]Line{{LineID: "l1", ProductID: "sku-1", Qty: 1, UnitPrice: 6_000}}, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	direct, ok := SelectBest(MatchCandidates("sku-1", rules), 6_000)
	if !ok {
		t.Fatal("expected a resolved discount")
	}
	if result.Lines[0].Discount == nil || *result.Lines[0].Discount != direct {
		t.Fatalf("aggregator resolution %+v differs from direct resolution %+v", result.Lines[0].Discount, direct)
	}
}
