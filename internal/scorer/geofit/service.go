// internal/scorer/geofit/service.go

// Package geofit scores how plausibly the caller's claimed location matches
// the device's last known position reported by the network operator.
// Coordinate checks measure great-circle distance; city checks fall back to
// comparing the claimed locality against the subscriber's KYC record.
package geofit

import (
	"context"
	"fmt"

	"github.com/golang/geo/s2"

	apperrors "callguard/internal/common/errors"
	"callguard/internal/common/logger"
	"callguard/internal/geocode"
	"callguard/internal/match"
	"callguard/internal/models"
	"callguard/internal/refdata"
)

const (
	earthRadiusMeters = 6371000

	minRadiusMeters = 2000
	maxRadiusMeters = 200000

	// Scam scores for the cases where no distance can be measured.
	scoreUnknownLocation = 75
	scoreSubscriberMiss  = 95
)

// Geocoder resolves a city name to coordinates. Satisfied by
// *geocode.Client.
type Geocoder interface {
	CityCoordinates(ctx context.Context, city, country string) (*geocode.Point, error)
}

// Service verifies claimed locations against reference device positions.
type Service struct {
	cfg        *Config
	locations  refdata.LocationSource
	identities refdata.IdentitySource
	geocoder   Geocoder
	logger     logger.Logger
}

func NewService(cfg *Config, locations refdata.LocationSource, identities refdata.IdentitySource, geocoder Geocoder, log logger.Logger) *Service {
	return &Service{
		cfg:        cfg,
		locations:  locations,
		identities: identities,
		geocoder:   geocoder,
		logger:     log.WithFields(map[string]interface{}{"component": "geofit"}),
	}
}

// distanceMeters returns the great-circle distance between two points.
func distanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}

func validateCoordinateRequest(req CoordinateRequest) error {
	if req.Latitude < -90 || req.Latitude > 90 {
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("latitude %v outside [-90, 90]", req.Latitude))
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("longitude %v outside [-180, 180]", req.Longitude))
	}
	if req.Radius < minRadiusMeters || req.Radius > maxRadiusMeters {
		return apperrors.NewInvalidArgumentError(
			fmt.Sprintf("radius %v outside [%d, %d] meters", req.Radius, minRadiusMeters, maxRadiusMeters))
	}
	return nil
}

// VerifyCoordinates scores the claim "the caller is inside the circle at
// (lat, lon) with the given radius". Invalid coordinates or radius are
// rejected rather than clamped.
func (s *Service) VerifyCoordinates(ctx context.Context, req CoordinateRequest) (*models.SubScore, error) {
	if err := validateCoordinateRequest(req); err != nil {
		return nil, err
	}

	loc, err := s.locations.LocationByPhone(ctx, req.PhoneNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return s.scoreMissingLocation(ctx, req.PhoneNumber), nil
		}
		return nil, err
	}

	d := distanceMeters(loc.Latitude, loc.Longitude, req.Latitude, req.Longitude)
	sub := s.scoreDistance(d, req.Radius, loc.AccuracyRadius)

	s.logger.Debug("coordinate verification", map[string]interface{}{
		"phone":          req.PhoneNumber,
		"distanceMeters": d,
		"score":          sub.Score,
	})
	return sub, nil
}

// scoreDistance maps the measured distance to a scam score. The device's
// accuracy radius widens the acceptance circle: combined = radius + accuracy.
func (s *Service) scoreDistance(d, radius, accuracy float64) *models.SubScore {
	combined := radius + accuracy

	var level MatchLevel
	var score float64
	var factor string

	switch {
	case d <= radius:
		level = LevelMatch
		score = 5 + (d/radius)*10
		if score < 1 {
			score = 1
		}
		if score > 15 {
			score = 15
		}
		factor = fmt.Sprintf("Location verified: device %.0fm from claimed position", d)
	case d <= combined:
		level = LevelPartialMatch
		score = 20 + (1-(combined-d)/accuracy)*30
		factor = fmt.Sprintf("Location partially verified: device within accuracy margin (%.0fm)", d)
	case d <= 2*radius:
		level = LevelNearMiss
		score = 50 + ((d-combined)/radius)*25
		factor = fmt.Sprintf("Location near miss: device %.0fm from claimed position", d)
	default:
		level = LevelNoMatch
		ratio := d / (10 * radius)
		if ratio > 1 {
			ratio = 1
		}
		score = 75 + ratio*24
		factor = fmt.Sprintf("Location mismatch: device %.0fm from claimed position", d)
	}

	return &models.SubScore{
		Score:       models.ClampScore(int(score)),
		RiskFactors: []string{factor},
		Detail:      Result{MatchLevel: level, DistanceMeters: d},
	}
}

// scoreMissingLocation distinguishes a known subscriber with no location fix
// (UNKNOWN) from an entirely unknown subscriber (NOT_FOUND).
func (s *Service) scoreMissingLocation(ctx context.Context, phoneNumber string) *models.SubScore {
	if _, err := s.identities.IdentityByPhone(ctx, phoneNumber); err == nil {
		return &models.SubScore{
			Score:       scoreUnknownLocation,
			RiskFactors: []string{"Device location unavailable"},
			Detail:      Result{MatchLevel: LevelUnknown},
		}
	}
	return &models.SubScore{
		Score:       scoreSubscriberMiss,
		RiskFactors: []string{"Phone number not known to location service"},
		Detail:      Result{MatchLevel: LevelNotFound},
	}
}

// VerifyCity scores the claim "the caller is in this city". Depending on the
// configured mode the city is either geocoded and verified by distance, or
// matched textually against the subscriber's KYC locality.
func (s *Service) VerifyCity(ctx context.Context, phoneNumber, city, country string) (*models.SubScore, error) {
	if s.cfg.Mode == ModeGeocode && s.geocoder != nil {
		point, err := s.geocoder.CityCoordinates(ctx, city, country)
		if err == nil {
			return s.VerifyCoordinates(ctx, CoordinateRequest{
				PhoneNumber: phoneNumber,
				Latitude:    point.Latitude,
				Longitude:   point.Longitude,
				Radius:      s.cfg.DefaultRadius,
			})
		}
		// Geocoding is best effort; fall back to the textual comparison.
		s.logger.Warn("geocoding failed, falling back to locality match", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
	}
	return s.verifyCityByLocality(ctx, phoneNumber, city, country)
}

func (s *Service) verifyCityByLocality(ctx context.Context, phoneNumber, city, country string) (*models.SubScore, error) {
	identity, err := s.identities.IdentityByPhone(ctx, phoneNumber)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &models.SubScore{
				Score:       scoreSubscriberMiss,
				RiskFactors: []string{"Phone number not known to identity service"},
				Detail:      Result{MatchLevel: LevelNotFound, ClaimedCity: city},
			}, nil
		}
		return nil, err
	}

	cityMatch := match.ContainsFold(city, identity.Locality)
	// An unstated country cannot contradict the record.
	countryMatch := country == "" || match.ContainsFold(country, identity.Country)

	var score int
	var level MatchLevel
	var factor string
	switch {
	case cityMatch && countryMatch:
		score, level = 8, LevelMatch
		factor = fmt.Sprintf("Location verified: %s", city)
	case cityMatch:
		score, level = 25, LevelPartialMatch
		factor = fmt.Sprintf("City matches but country differs: claimed %s", country)
	case countryMatch && country != "":
		score, level = 60, LevelNearMiss
		factor = fmt.Sprintf("Country matches but city differs: claimed %s", city)
	default:
		score, level = 90, LevelNoMatch
		factor = fmt.Sprintf("Location mismatch: claimed %s", city)
	}

	return &models.SubScore{
		Score:       score,
		RiskFactors: []string{factor},
		Detail: Result{
			MatchLevel:     level,
			ClaimedCity:    city,
			StoredLocality: identity.Locality,
			CityMatched:    cityMatch,
			CountryMatched: countryMatch,
		},
	}, nil
}
