package types

// Decision is the checkpoint outcome for one scanned token.
//
// OK reports whether the token decoded and resolved to a registry record;
// Granted is the actual pass/no-pass answer.  Record is present whenever a
// record was found, including denials, so the operator can compare the
// printed token against the person in front of them.
type Decision struct {
	OK         bool           `json:"ok"`
	Granted    bool           `json:"granted"`
	Reason     string         `json:"reason"`
	Record     *RecordSummary `json:"record,omitempty"`
	ServerTime string         `json:"server_time"`
}

// RecordSummary is the subset of record fields shown at the checkpoint.
type RecordSummary struct {
	ID       int64  `json:"id"`
	PersonID string `json:"person_id"`
	FullName string `json:"full_name"`
	Plate    string `json:"plate"`
	Status   Status `json:"status"`
}
