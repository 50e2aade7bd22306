package compliance_test

import (
	"testing"
	"time"

	"vehiclepass/internal/vehiclepass/compliance"
	"vehiclepass/internal/vehiclepass/types"
)

var today = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name      string
		insurance string
		roadworthy string
		want      types.Status
	}{
		{"both in the future", "2026/01/01", "2026/06/30", types.StatusActive},
		{"expiring today still counts", "2025/03/15", "2025/03/15", types.StatusActive},
		{"insurance expired", "2025/03/14", "2026/01/01", types.StatusInactive},
		{"roadworthiness expired", "2026/01/01", "2024/12/31", types.StatusInactive},
		{"both expired", "2024/01/01", "2024/01/01", types.StatusInactive},
		{"insurance empty", "", "2026/01/01", types.StatusInactive},
		{"roadworthiness empty", "2026/01/01", "", types.StatusInactive},
		{"insurance garbage", "not-a-date", "2026/01/01", types.StatusInactive},
		{"non-canonical form rejected", "2026-01-01", "2026/01/01", types.StatusInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := compliance.DeriveStatus(tc.insurance, tc.roadworthy, today)
			if got != tc.want {
				t.Errorf("DeriveStatus(%q, %q) = %s, want %s", tc.insurance, tc.roadworthy, got, tc.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025/03/01", "2025/03/01"},
		{"2025-03-01", "2025/03/01"},
		{"01/03/2025", "2025/03/01"},
		{"2025-03-01 00:00:00", "2025/03/01"},
		{"2025-03-01T00:00:00", "2025/03/01"},
		{"  2025/03/01  ", "2025/03/01"},
		{"", ""},
		{"pending", ""},
		{"2025/13/45", ""},
	}

	for _, tc := range cases {
		if got := compliance.NormalizeDate(tc.in); got != tc.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
