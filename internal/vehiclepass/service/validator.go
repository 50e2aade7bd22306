package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/vehiclepass/compliance"
	"vehiclepass/internal/vehiclepass/store"
	"vehiclepass/internal/vehiclepass/token"
	"vehiclepass/internal/vehiclepass/types"
)

// Decision reasons surfaced to the checkpoint operator.
const (
	ReasonGranted        = "granted"
	ReasonNoTokenData    = "no_token_data"
	ReasonNoIDField      = "no_id_field"
	ReasonMalformedToken = "malformed_token"
	ReasonRecordNotFound = "record_not_found"
	ReasonIncompleteData = "incomplete_data"
	ReasonNotCompliant   = "not_compliant"
)

// Validator resolves a scanned token payload to an access decision.
type Validator struct {
	store store.RecordStore
}

func NewValidator(st store.RecordStore) *Validator {
	return &Validator{store: st}
}

// Validate decodes the scanned payload, looks the id up in the registry
// and decides whether the vehicle may pass.  Malformed tokens and unknown
// ids come back as denial decisions, never as errors; only a persistence
// failure is an error.
func (v *Validator) Validate(ctx context.Context, p auth.Principal, scanned string) (types.Decision, error) {
	if err := Authorize(p, OpValidateToken); err != nil {
		return types.Decision{}, err
	}

	now := time.Now().UTC()
	serverTime := now.Format(time.RFC3339)

	id, err := token.Decode(scanned)
	if err != nil {
		reason := ReasonMalformedToken
		switch {
		case errors.Is(err, token.ErrNoTokenData):
			reason = ReasonNoTokenData
		case errors.Is(err, token.ErrNoIDField):
			reason = ReasonNoIDField
		}
		return types.Decision{Reason: reason, ServerTime: serverTime}, nil
	}

	records, err := v.store.Load(ctx)
	if err != nil {
		return types.Decision{}, err
	}

	idx := indexByID(records, id)
	if idx < 0 {
		return types.Decision{Reason: ReasonRecordNotFound, ServerTime: serverTime}, nil
	}
	rec := records[idx]

	// The stored status goes stale between writes, so the decision
	// re-derives it from the dates against the current day.
	status := compliance.DeriveStatus(rec.InsuranceExpiry, rec.RoadworthinessExpiry, now)

	summary := &types.RecordSummary{
		ID:       rec.ID,
		PersonID: rec.PersonID,
		FullName: rec.FullName,
		Plate:    rec.Plate,
		Status:   status,
	}

	if blankField(rec.Plate) {
		// A token without a usable plate cannot be matched to a vehicle,
		// so it never grants access, compliant dates or not.
		return types.Decision{
			OK:         true,
			Reason:     ReasonIncompleteData,
			Record:     summary,
			ServerTime: serverTime,
		}, nil
	}

	if status != types.StatusActive {
		return types.Decision{
			OK:         true,
			Reason:     ReasonNotCompliant,
			Record:     summary,
			ServerTime: serverTime,
		}, nil
	}

	return types.Decision{
		OK:         true,
		Granted:    true,
		Reason:     ReasonGranted,
		Record:     summary,
		ServerTime: serverTime,
	}, nil
}

// blankField reports whether an identity-critical field is effectively
// missing.  "none" and "nan" show up in data that went through spreadsheet
// round-trips.
func blankField(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "nan":
		return true
	}
	return false
}
