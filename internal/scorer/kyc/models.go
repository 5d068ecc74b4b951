// internal/scorer/kyc/models.go
package kyc

// FieldMatch is the tri-state outcome of comparing one claimed field
// against the reference record.
type FieldMatch string

const (
	MatchTrue         FieldMatch = "true"
	MatchFalse        FieldMatch = "false"
	MatchNotAvailable FieldMatch = "not_available"
)

// Result is the identity verification outcome for audit.
type Result struct {
	Status            string `json:"status"`
	OverallMatchScore int    `json:"overall_match_score"`
	NameScore         int    `json:"name_score,omitempty"`
	AddressScore      int    `json:"address_score,omitempty"`
}

// FieldReport is the detailed diagnostics variant: a per-field match verdict
// for every field the caller actually provided, plus a risk score derived
// from the mismatch ratio.
type FieldReport struct {
	PhoneNumber string                `json:"phone_number"`
	Status      string                `json:"status"`
	Fields      map[string]FieldMatch `json:"fields"`
	Checked     int                   `json:"checked"`
	Mismatched  int                   `json:"mismatched"`
	RiskScore   int                   `json:"risk_score"`
}
