// Package ident assigns record identifiers.
package ident

import (
	"strconv"
	"strings"
)

// BaselineID is the floor for assigned identifiers: the first record ever
// created gets this id, and no later allocation goes below it.
const BaselineID int64 = 8_000_000

// NextID returns the next unique identifier given the ids already in use.
// Entries that do not parse as integers are ignored (legacy workbooks
// carry the occasional junk cell in the ID column).  The result is always
// at least BaselineID and strictly greater than every numeric id in the
// input.
func NextID(existing []string) int64 {
	var max int64
	found := false
	for _, raw := range existing {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		if !found || n > max {
			max = n
			found = true
		}
	}
	if !found || max+1 < BaselineID {
		return BaselineID
	}
	return max + 1
}
