// internal/scorer/affiliation/service.go

// Package affiliation scores a caller's claimed company affiliation against
// the organization directory: does the company exist, is the caller a listed
// employee, and does their claimed name match the employee record.
package affiliation

import (
	"fmt"

	"callguard/internal/common/logger"
	"callguard/internal/directory"
	"callguard/internal/match"
	"callguard/internal/models"
)

const (
	// Score assignments per verification outcome.
	scoreNoClaim         = 20
	scoreUnknownCompany  = 60
	scoreOfficialLine    = 95
	scoreNotEmployee     = 85
	scoreVerifiedMatch   = 10
	scorePartialMatch    = 30
	scoreNameMismatch    = 80
	partialMatchBoundary = 0.5
)

// Service verifies company affiliation claims.
type Service struct {
	dir    *directory.Directory
	logger logger.Logger
}

func NewService(dir *directory.Directory, log logger.Logger) *Service {
	return &Service{
		dir:    dir,
		logger: log.WithFields(map[string]interface{}{"component": "affiliation"}),
	}
}

// Verify scores the claim "I am callerName calling on behalf of
// claimedCompany from callerPhone". An absent claim is mildly positive, not
// neutral: legitimate individuals usually don't invoke a company at all.
func (s *Service) Verify(callerPhone, callerName, claimedCompany string) *models.SubScore {
	if claimedCompany == "" {
		return &models.SubScore{
			Score:  scoreNoClaim,
			Detail: Result{CompanyFound: false},
		}
	}

	org := s.dir.ResolveOrganization(claimedCompany)
	if org == nil {
		return &models.SubScore{
			Score:       scoreUnknownCompany,
			RiskFactors: []string{fmt.Sprintf("Claimed company '%s' not found in database", claimedCompany)},
			Detail:      Result{CompanyFound: false},
		}
	}

	// Calling from the organization's own switchboard number is a spoofing
	// signature, not a credential.
	if callerPhone != "" && callerPhone == org.CompanyPhone {
		return &models.SubScore{
			Score:       scoreOfficialLine,
			RiskFactors: []string{"Caller using company's official phone number"},
			Detail:      Result{CompanyFound: true, Organization: org},
		}
	}

	empOrg, employee := s.dir.FindEmployeeByPhone(callerPhone)
	if employee == nil {
		return &models.SubScore{
			Score:       scoreNotEmployee,
			RiskFactors: []string{fmt.Sprintf("Claims %s employment but not in employee database", claimedCompany)},
			Detail:      Result{CompanyFound: true, Organization: org},
		}
	}

	similarity := match.NameSimilarity(callerName, employee.Name)
	detail := Result{
		CompanyFound:   true,
		Organization:   empOrg,
		Employee:       employee,
		NameSimilarity: similarity,
	}

	s.logger.Debug("employee record found", map[string]interface{}{
		"claimedCompany": claimedCompany,
		"employeeOrg":    empOrg.Name,
		"similarity":     similarity,
	})

	switch {
	case similarity >= match.SimilarityThreshold:
		return &models.SubScore{
			Score:       scoreVerifiedMatch,
			RiskFactors: []string{"Verified employee with name match"},
			Detail:      detail,
		}
	case similarity >= partialMatchBoundary:
		return &models.SubScore{
			Score:       scorePartialMatch,
			RiskFactors: []string{"Employee found but name partially matches"},
			Detail:      detail,
		}
	default:
		return &models.SubScore{
			Score:       scoreNameMismatch,
			RiskFactors: []string{"Employee phone found but name mismatch"},
			Detail:      detail,
		}
	}
}
