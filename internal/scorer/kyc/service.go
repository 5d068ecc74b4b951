// internal/scorer/kyc/service.go

// Package kyc matches a caller's claimed identity against the subscriber's
// reference record. Verify produces the aggregated scam sub-score; MatchFields
// produces the field-by-field diagnostic report.
package kyc

import (
	"context"
	"strings"

	apperrors "callguard/internal/common/errors"
	"callguard/internal/common/logger"
	"callguard/internal/models"
	"callguard/internal/refdata"
)

const (
	scoreNotFound     = 80
	neutralFieldScore = 50
)

// Service verifies claimed identity data.
type Service struct {
	identities refdata.IdentitySource
	logger     logger.Logger
}

func NewService(identities refdata.IdentitySource, log logger.Logger) *Service {
	return &Service{
		identities: identities,
		logger:     log.WithFields(map[string]interface{}{"component": "kyc"}),
	}
}

// Verify compares the claimed name and address against the reference record
// and returns a scam score: the inverse of the averaged field match quality.
func (s *Service) Verify(ctx context.Context, phoneNumber, claimedName, claimedAddress string) (*models.SubScore, error) {
	identity, err := s.identities.IdentityByPhone(ctx, phoneNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &models.SubScore{
				Score:       scoreNotFound,
				RiskFactors: []string{"KYC verification failed or user not found"},
				Detail:      Result{Status: "not_found"},
			}, nil
		}
		return nil, err
	}

	var fieldScores []int
	result := Result{Status: "success"}

	if claimedName != "" {
		result.NameScore = scoreName(claimedName, identity)
		fieldScores = append(fieldScores, result.NameScore)
	}
	if claimedAddress != "" {
		result.AddressScore = scoreAddress(claimedAddress, identity)
		fieldScores = append(fieldScores, result.AddressScore)
	}

	matchScore := neutralFieldScore
	if len(fieldScores) > 0 {
		total := 0
		for _, v := range fieldScores {
			total += v
		}
		matchScore = total / len(fieldScores)
	}
	result.OverallMatchScore = matchScore

	scamScore := 100 - matchScore
	if scamScore < 1 {
		scamScore = 1
	}

	var factor string
	switch {
	case matchScore >= 80:
		factor = "Strong KYC data match - low fraud risk"
	case matchScore >= 50:
		factor = "Partial KYC data match - moderate risk"
	default:
		factor = "Poor KYC data match - high fraud risk"
	}

	s.logger.Debug("kyc verification", map[string]interface{}{
		"phone":      phoneNumber,
		"matchScore": matchScore,
		"scamScore":  scamScore,
	})

	return &models.SubScore{
		Score:       scamScore,
		RiskFactors: []string{factor},
		Detail:      result,
	}, nil
}

// scoreName grades how well the claimed name fits the reference record.
func scoreName(claimed string, identity *models.ReferenceIdentity) int {
	reference := strings.ToLower(strings.TrimSpace(identity.Name))
	given := strings.ToLower(strings.TrimSpace(identity.GivenName))
	family := strings.ToLower(strings.TrimSpace(identity.FamilyName))
	claim := strings.ToLower(strings.TrimSpace(claimed))

	// Derive component names from the full name when not stored separately.
	if (given == "" || family == "") && reference != "" {
		parts := strings.Fields(reference)
		if len(parts) > 1 {
			if given == "" {
				given = parts[0]
			}
			if family == "" {
				family = parts[len(parts)-1]
			}
		}
	}

	if reference == "" && given == "" && family == "" {
		return neutralFieldScore
	}

	switch {
	case reference != "" && claim == reference:
		return 100
	case given != "" && family != "" && strings.Contains(claim, given) && strings.Contains(claim, family):
		return 90
	case family != "" && strings.Contains(claim, family):
		return 60
	case given != "" && strings.Contains(claim, given):
		return 50
	default:
		return 10
	}
}

// scoreAddress grades how well the claimed address fits the reference record.
func scoreAddress(claimed string, identity *models.ReferenceIdentity) int {
	street := strings.ToLower(strings.TrimSpace(identity.StreetName))
	reference := strings.ToLower(strings.TrimSpace(identity.Address))
	claim := strings.ToLower(strings.TrimSpace(claimed))

	if street == "" && reference == "" {
		return neutralFieldScore
	}

	switch {
	case street != "" && strings.Contains(claim, street):
		return 90
	case reference != "" && (strings.Contains(claim, reference) || strings.Contains(reference, claim)):
		return 80
	default:
		return 20
	}
}

// matchField compares one claimed value against its reference counterpart.
func matchField(claimed, reference string) FieldMatch {
	if reference == "" {
		return MatchNotAvailable
	}
	if strings.EqualFold(strings.TrimSpace(claimed), strings.TrimSpace(reference)) {
		return MatchTrue
	}
	return MatchFalse
}

// MatchFields runs the detailed per-field comparison over every field the
// caller actually provided. Fields absent from the claim are never checked
// and never penalize.
func (s *Service) MatchFields(ctx context.Context, phoneNumber string, claim *models.CallerClaim) (*FieldReport, error) {
	identity, err := s.identities.IdentityByPhone(ctx, phoneNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &FieldReport{
				PhoneNumber: phoneNumber,
				Status:      "not_found",
				Fields:      map[string]FieldMatch{},
				RiskScore:   scoreNotFound,
			}, nil
		}
		return nil, err
	}

	// Field table: claimed value paired with its reference counterpart.
	pairs := []struct {
		name      string
		claimed   string
		reference string
	}{
		{"idDocument", claim.IDDocument, identity.IDDocument},
		{"name", claim.Name, identity.Name},
		{"givenName", claim.GivenName, identity.GivenName},
		{"familyName", claim.FamilyName, identity.FamilyName},
		{"birthdate", claim.Birthdate, identity.Birthdate},
		{"address", claim.Address, identity.Address},
		{"streetName", claim.StreetName, identity.StreetName},
		{"streetNumber", claim.StreetNumber, identity.StreetNumber},
		{"postalCode", claim.PostalCode, identity.PostalCode},
		{"region", claim.Region, identity.Region},
		{"locality", claim.Locality, identity.Locality},
		{"country", claim.Country, identity.Country},
		{"email", claim.Email, identity.Email},
		{"gender", claim.Gender, identity.Gender},
	}

	report := &FieldReport{
		PhoneNumber: phoneNumber,
		Status:      "success",
		Fields:      make(map[string]FieldMatch),
	}

	for _, p := range pairs {
		if p.claimed == "" {
			continue
		}
		verdict := matchField(p.claimed, p.reference)
		report.Fields[p.name] = verdict
		if verdict != MatchNotAvailable {
			report.Checked++
			if verdict == MatchFalse {
				report.Mismatched++
			}
		}
	}

	risk := 1
	if report.Checked > 0 {
		risk = report.Mismatched*100/report.Checked + 1
	}
	report.RiskScore = models.ClampScore(risk)

	return report, nil
}
