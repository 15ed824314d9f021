package common

import "testing"

func TestParseDecimalMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"49.99", 4999},
		{"50", 5000},
		{"0", 0},
		{"0.01", 1},
		{"  10.00 ", 1000},
		{"2.5", 250},
		{"9.999", 1000},
	}
	for _, tc := range cases {
		got, err := ParseDecimalMinorUnits(tc.in)
		if err != nil {
			t.Fatalf("ParseDecimalMinorUnits(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDecimalMinorUnits(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseDecimalMinorUnitsRejectsBadInput(t *testing.T) {
	for _, in := range []string{"", "  ", "abc", "-1.00", "NaN", "+Inf"} {
		if _, err := ParseDecimalMinorUnits(in); err == nil {
			t.Fatalf("ParseDecimalMinorUnits(%q): expected error", in)
		}
	}
}
