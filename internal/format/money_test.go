package format_test

import (
	"testing"

	"makazi/internal/format"
)

func TestPrice(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1234.5, "1,235"},
		{1234.4, "1,234"},
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{2500000, "2,500,000"},
		{45000.49, "45,000"},
	}
	for _, c := range cases {
		if got := format.Price(c.in); got != c.want {
			t.Fatalf("Price(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPricePtr_NilRendersZero(t *testing.T) {
	if got := format.PricePtr(nil); got != "0" {
		t.Fatalf("PricePtr(nil) = %q, want 0", got)
	}
	v := 1234.5
	if got := format.PricePtr(&v); got != "1,235" {
		t.Fatalf("PricePtr(&1234.5) = %q", got)
	}
}
