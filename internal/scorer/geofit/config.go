// internal/scorer/geofit/config.go
package geofit

// Mode selects how a claimed city is verified against the device position.
type Mode string

const (
	// ModeCity compares the claimed city against the stored KYC locality.
	ModeCity Mode = "city"
	// ModeGeocode resolves the claimed city to coordinates first, then
	// measures the device distance against DefaultRadius.
	ModeGeocode Mode = "geocode"
)

type Config struct {
	Mode Mode
	// DefaultRadius is the circle radius in meters used when verifying a
	// geocoded city rather than explicit coordinates.
	DefaultRadius float64
}

func LoadConfig(mode string, defaultRadius float64) *Config {
	m := ModeCity
	if mode == string(ModeGeocode) {
		m = ModeGeocode
	}
	if defaultRadius < minRadiusMeters {
		defaultRadius = minRadiusMeters
	}
	return &Config{Mode: m, DefaultRadius: defaultRadius}
}
