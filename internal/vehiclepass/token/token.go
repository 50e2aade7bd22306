// Package token encodes and decodes the payloads embedded in printed
// checkpoint tokens.  The format is stable: anything produced by Encode
// must keep decoding to the same record id across releases, because the
// printouts live on clipboards and windshields for months.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vehiclepass/internal/vehiclepass/types"
)

const idLabel = "ID:"

var (
	// ErrNoTokenData means the scanner delivered an empty payload.
	ErrNoTokenData = errors.New("no token data")
	// ErrNoIDField means the payload has no "ID:" field at all.
	ErrNoIDField = errors.New("no id field in token")
	// ErrBadID means the "ID:" field is present but not numeric.
	ErrBadID = errors.New("token id is not numeric")
)

// Encode renders the printable payload for a record.  The first line
// carries the id the validator resolves; the rest is operator-facing
// context for eyeballing the printout against the person presenting it.
func Encode(rec types.ComplianceRecord) string {
	return fmt.Sprintf("ID: %d\nCedula: %s\nNombre: %s\nPlaca: %s",
		rec.ID, rec.PersonID, rec.FullName, rec.Plate)
}

// Decode extracts the record id from a scanned payload.  It never panics:
// malformed input comes back as one of the sentinel errors above so the
// caller can give the operator a specific message.
func Decode(scanned string) (int64, error) {
	scanned = strings.TrimSpace(scanned)
	if scanned == "" {
		return 0, ErrNoTokenData
	}

	for _, line := range strings.Split(scanned, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, idLabel) {
			continue
		}
		raw := strings.TrimSpace(strings.TrimPrefix(line, idLabel))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadID, raw)
		}
		return id, nil
	}
	return 0, ErrNoIDField
}
