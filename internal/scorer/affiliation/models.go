// internal/scorer/affiliation/models.go
package affiliation

import "callguard/internal/models"

// Result is the company verification outcome for audit.
type Result struct {
	CompanyFound   bool                 `json:"company_found"`
	Organization   *models.Organization `json:"company_data,omitempty"`
	Employee       *models.Employee     `json:"employee_data,omitempty"`
	NameSimilarity float64              `json:"name_similarity"`
}
