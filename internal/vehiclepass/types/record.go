package types

// Status is the derived compliance state of a record.  It is never set by
// callers; the registry recomputes it from the expiration dates on every
// write.  The textual values match the ESTADO column of the workbooks this
// system exchanges with the field operation.
type Status string

const (
	StatusActive   Status = "ACTIVO"
	StatusInactive Status = "INACTIVO"
)

// ComplianceRecord is one registry entry for a person + transport-type
// pair.  Dates are stored in the canonical YYYY/MM/DD textual form; an
// empty date means "unknown", which always derives to StatusInactive.
type ComplianceRecord struct {
	ID                   int64  `json:"id"`
	Status               Status `json:"status"`
	PersonID             string `json:"person_id"`
	FullName             string `json:"full_name"`
	Organization         string `json:"organization"`
	TransportType        string `json:"transport_type"`
	Plate                string `json:"plate"`
	PropertyCard         string `json:"property_card"`
	LicenseCategories    string `json:"license_categories"`
	GeneralExpiry        string `json:"general_expiry"`
	InsuranceExpiry      string `json:"insurance_expiry"`
	RoadworthinessExpiry string `json:"roadworthiness_expiry"`
	Notes                string `json:"notes,omitempty"`
}

// RecordInput carries the caller-supplied fields for create and update.
// ID and Status are always assigned by the registry, never by the caller.
type RecordInput struct {
	PersonID             string `json:"person_id"`
	FullName             string `json:"full_name"`
	Organization         string `json:"organization"`
	TransportType        string `json:"transport_type"`
	Plate                string `json:"plate"`
	PropertyCard         string `json:"property_card"`
	LicenseCategories    string `json:"license_categories"`
	GeneralExpiry        string `json:"general_expiry"`
	InsuranceExpiry      string `json:"insurance_expiry"`
	RoadworthinessExpiry string `json:"roadworthiness_expiry"`
	Notes                string `json:"notes"`
}
