package ident_test

import (
	"testing"

	"vehiclepass/internal/vehiclepass/ident"
)

func TestNextID(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     int64
	}{
		{"empty set starts at baseline", nil, 8_000_000},
		{"increments past the max", []string{"8000000", "8000003"}, 8_000_004},
		{"junk entries are ignored", []string{"bad", "100"}, 8_000_000},
		{"all junk falls back to baseline", []string{"bad", "", "nan"}, 8_000_000},
		{"below-baseline max is floored", []string{"12", "7999998"}, 8_000_000},
		{"whitespace tolerated", []string{" 8000010 "}, 8_000_011},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ident.NextID(tc.existing); got != tc.want {
				t.Errorf("NextID(%v) = %d, want %d", tc.existing, got, tc.want)
			}
		})
	}
}

func TestNextID_NeverAtOrBelowExisting(t *testing.T) {
	existing := []string{"8000000", "9000123", "8500000"}
	got := ident.NextID(existing)
	if got != 9_000_124 {
		t.Fatalf("NextID = %d, want 9000124", got)
	}
}
