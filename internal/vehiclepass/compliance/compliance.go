// Package compliance holds the date normalization rules and the single
// authority for deriving a record's Active/Inactive status.
package compliance

import (
	"strings"
	"time"

	"vehiclepass/internal/vehiclepass/types"
)

// DateLayout is the canonical textual date form used everywhere a record
// stores a date.
const DateLayout = "2006/01/02"

// inputLayouts are the date forms accepted from external sources, tried in
// order.  Canonical first, then the ISO form pandas-era exports used, then
// the day-first form people type by hand.
var inputLayouts = []string{
	DateLayout,
	"2006-01-02",
	"02/01/2006",
}

// NormalizeDate converts a date in any accepted input form to the
// canonical YYYY/MM/DD form.  Empty or unparseable input yields "", which
// DeriveStatus treats as non-compliant.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// Spreadsheet datetime cells arrive as "2025-03-01 00:00:00"; keep the
	// date part only.
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

// DeriveStatus returns StatusActive iff both expiration dates parse in the
// canonical form and neither falls before today (the expiration day itself
// still counts as compliant).  Anything else, including unparseable or
// empty dates, is StatusInactive.  Fail-closed: this never errors.
func DeriveStatus(insuranceExpiry, roadworthinessExpiry string, today time.Time) types.Status {
	ins, err := time.Parse(DateLayout, insuranceExpiry)
	if err != nil {
		return types.StatusInactive
	}
	road, err := time.Parse(DateLayout, roadworthinessExpiry)
	if err != nil {
		return types.StatusInactive
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if ins.Before(day) || road.Before(day) {
		return types.StatusInactive
	}
	return types.StatusActive
}
