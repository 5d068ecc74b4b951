// internal/api/models.go
package api

import "callguard/internal/models"

// ScoreRequest is the body of POST /v1/score. Exactly one of Claim,
// Transcript, or Audio should carry the caller's side of the call; when more
// than one is present the most processed form wins (claim > transcript >
// audio).
type ScoreRequest struct {
	CallerPhone string              `json:"callerPhone"`
	Audio       string              `json:"audio,omitempty"` // base64-encoded recording
	AudioFormat string              `json:"audioFormat,omitempty"`
	Transcript  string              `json:"transcript,omitempty"`
	Claim       *models.CallerClaim `json:"claim,omitempty"`
}

// LocationVerifyRequest is the body of POST /v1/location/verify.
type LocationVerifyRequest struct {
	PhoneNumber string  `json:"phoneNumber"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Radius      float64 `json:"radius"`
}

// KYCMatchRequest is the body of POST /v1/kyc/match.
type KYCMatchRequest struct {
	PhoneNumber string             `json:"phoneNumber"`
	Claim       models.CallerClaim `json:"claim"`
}
