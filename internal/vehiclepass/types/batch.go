package types

// RawRow is one externally parsed spreadsheet row awaiting reconciliation.
// All fields are untrusted text exactly as they appeared in the source
// table; the importer normalizes and validates per row.
type RawRow struct {
	PersonID             string
	FullName             string
	Organization         string
	TransportType        string
	Plate                string
	PropertyCard         string
	LicenseCategories    string
	GeneralExpiry        string
	InsuranceExpiry      string
	RoadworthinessExpiry string
	Notes                string
}

// ImportResult reports the aggregate outcome of one bulk import.
type ImportResult struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}
