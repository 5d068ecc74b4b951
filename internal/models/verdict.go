// internal/models/verdict.go
package models

import "time"

// RiskLevel is the discrete bucket an overall scam score falls into.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"      // score <= 25
	RiskMedium   RiskLevel = "MEDIUM"   // score <= 50
	RiskHigh     RiskLevel = "HIGH"     // score <= 75
	RiskCritical RiskLevel = "CRITICAL" // score > 75
)

// RiskLevelFor buckets a scam score. Upper bounds are inclusive.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskMedium
	case score <= 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ClampScore forces a scam score into the valid [1,100] range.
// 1 means certainly legitimate, 100 certainly fraudulent.
func ClampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 100 {
		return 100
	}
	return score
}

// SubScore is one verification component's contribution: a scam score in
// [1,100] plus the risk factors that justify it and component-specific
// detail for audit. A SubScore is produced even when verification fails;
// failures surface as documented fallback scores, never as missing data.
type SubScore struct {
	Score       int         `json:"score"`
	RiskFactors []string    `json:"riskFactors,omitempty"`
	Detail      interface{} `json:"detail,omitempty"`
}

// ComponentScores carries the three weighted sub-scores of a verdict.
type ComponentScores struct {
	Location int `json:"location_score"`
	Company  int `json:"company_score"`
	KYC      int `json:"kyc_score"`
}

// ScoringWeights is the weight set applied to the component scores.
// Weights must sum to 1.0.
type ScoringWeights struct {
	Location float64 `json:"location"`
	Company  float64 `json:"company"`
	KYC      float64 `json:"kyc"`
}

// Sum returns the total of the three weights.
func (w ScoringWeights) Sum() float64 {
	return w.Location + w.Company + w.KYC
}

// FraudVerdict is the immutable result of one call evaluation.
type FraudVerdict struct {
	EvaluationID        string                 `json:"evaluation_id"`
	OverallScamScore    int                    `json:"overall_scam_score"`
	RiskLevel           RiskLevel              `json:"risk_level"`
	ComponentScores     ComponentScores        `json:"component_scores"`
	ScoringWeights      ScoringWeights         `json:"scoring_weights"`
	RiskFactors         []string               `json:"risk_factors"`
	VerificationResults map[string]interface{} `json:"verification_results"`
	CallerPhone         string                 `json:"caller_phone"`
	ExtractedData       CallerClaim            `json:"extracted_data"`
	EvaluatedAt         time.Time              `json:"evaluated_at"`
}
