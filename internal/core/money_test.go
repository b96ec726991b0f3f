package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{"1.005", "1.005", true}, // kept as given
		{" 2.50 ", "2.5", true},
		{"0", "0", true},
		{".5", "0.5", true},
		{"5.", "5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"1e3", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1.234,56", "", false},
		{".", "", false},
		{"1000000000000", "1000000000000", true},
		{"1000000000000,01", "", false},
		{"100000000000000000000", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1", 100},
		{"1.005", 101},
		{"1.004", 100},
		{"1234.5", 123450},
		{"-2.345", -235},
	}
	for _, tc := range cases {
		if got := Cents(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("Cents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountBound(t *testing.T) {
	if _, err := ParseAmount("100000000000000000000"); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if !FitsCents(MaxAmount) {
		t.Fatal("MaxAmount must fit in centavos")
	}
	if FitsCents(decimal.RequireFromString("100000000000000000")) {
		t.Fatal("10^17 reais does not fit an int64 of centavos")
	}
}
