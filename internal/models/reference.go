// internal/models/reference.go
package models

import "time"

// ReferenceIdentity is the ground-truth KYC record an identity collaborator
// keeps for a phone number. Read-only from the engine's perspective.
type ReferenceIdentity struct {
	PhoneNumber  string `json:"phoneNumber"`
	IDDocument   string `json:"idDocument,omitempty"`
	Name         string `json:"name,omitempty"`
	GivenName    string `json:"givenName,omitempty"`
	FamilyName   string `json:"familyName,omitempty"`
	Birthdate    string `json:"birthdate,omitempty"`
	Address      string `json:"address,omitempty"`
	StreetName   string `json:"streetName,omitempty"`
	StreetNumber string `json:"streetNumber,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Region       string `json:"region,omitempty"`
	Locality     string `json:"locality,omitempty"`
	Country      string `json:"country,omitempty"`
	Email        string `json:"email,omitempty"`
	Gender       string `json:"gender,omitempty"`
}

// ReferenceLocation is the last known device position for a phone number:
// a circle centered on (Latitude, Longitude) with AccuracyRadius meters.
type ReferenceLocation struct {
	PhoneNumber      string    `json:"phoneNumber"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	AccuracyRadius   float64   `json:"radius"`
	LastLocationTime time.Time `json:"lastLocationTime"`
}

// SimSwapRecord reports the latest SIM change seen for a phone number.
type SimSwapRecord struct {
	PhoneNumber     string    `json:"phoneNumber"`
	LatestSimChange time.Time `json:"latestSimChange"`
}

// SwappedWithin reports whether the SIM changed inside the given window
// ending at now.
func (s SimSwapRecord) SwappedWithin(window time.Duration, now time.Time) bool {
	if s.LatestSimChange.IsZero() {
		return false
	}
	return now.Sub(s.LatestSimChange) <= window
}
