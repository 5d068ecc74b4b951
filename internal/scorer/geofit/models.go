// internal/scorer/geofit/models.go
package geofit

// MatchLevel classifies how well the claimed location fits the device's
// last known position.
type MatchLevel string

const (
	LevelMatch        MatchLevel = "MATCH"
	LevelPartialMatch MatchLevel = "PARTIAL_MATCH"
	LevelNearMiss     MatchLevel = "NEAR_MISS"
	LevelNoMatch      MatchLevel = "NO_MATCH"
	LevelUnknown      MatchLevel = "UNKNOWN"
	LevelNotFound     MatchLevel = "NOT_FOUND"
)

// CoordinateRequest asks whether the subscriber's device sits inside the
// circle centered at (Latitude, Longitude) with Radius meters.
type CoordinateRequest struct {
	PhoneNumber string  `json:"phoneNumber"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Radius      float64 `json:"radius"`
}

// Result is the location verification outcome for audit.
type Result struct {
	MatchLevel     MatchLevel `json:"matchLevel"`
	DistanceMeters float64    `json:"distanceMeters,omitempty"`
	ClaimedCity    string     `json:"claimedCity,omitempty"`
	StoredLocality string     `json:"storedLocality,omitempty"`
	CityMatched    bool       `json:"cityMatched,omitempty"`
	CountryMatched bool       `json:"countryMatched,omitempty"`
}
