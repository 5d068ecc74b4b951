// internal/refdata/fixtures.go
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "callguard/internal/common/errors"
	"callguard/internal/models"
)

// fixtureRecord is the on-disk shape of one subscriber fixture file.
type fixtureRecord struct {
	PhoneNumber string `json:"phoneNumber"`
	Data        struct {
		KYC      models.ReferenceIdentity `json:"kyc"`
		Location struct {
			Available        bool    `json:"available"`
			Latitude         float64 `json:"latitude"`
			Longitude        float64 `json:"longitude"`
			Radius           float64 `json:"radius"`
			LastLocationTime string  `json:"lastLocationTime"`
		} `json:"location"`
		SimSwap struct {
			LatestSimChange string `json:"latestSimChange"`
		} `json:"simSwap"`
	} `json:"data"`
}

// FixtureStore serves reference records from a directory of JSON files, one
// subscriber per file. Files are loaded once at construction; the store is
// read-only afterwards and safe for concurrent use.
type FixtureStore struct {
	identities map[string]*models.ReferenceIdentity
	locations  map[string]*models.ReferenceLocation
	simSwaps   map[string]*models.SimSwapRecord
}

// NewFixtureStore walks dir recursively and indexes every *.json file by its
// phoneNumber field. Unparseable files are skipped.
func NewFixtureStore(dir string) (*FixtureStore, error) {
	store := &FixtureStore{
		identities: make(map[string]*models.ReferenceIdentity),
		locations:  make(map[string]*models.ReferenceLocation),
		simSwaps:   make(map[string]*models.SimSwapRecord),
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var rec fixtureRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.PhoneNumber == "" {
			return nil
		}
		store.index(&rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading reference fixtures from %s: %w", dir, err)
	}

	return store, nil
}

func (s *FixtureStore) index(rec *fixtureRecord) {
	phone := rec.PhoneNumber

	kyc := rec.Data.KYC
	kyc.PhoneNumber = phone
	s.identities[phone] = &kyc

	if rec.Data.Location.Available {
		loc := &models.ReferenceLocation{
			PhoneNumber:    phone,
			Latitude:       rec.Data.Location.Latitude,
			Longitude:      rec.Data.Location.Longitude,
			AccuracyRadius: rec.Data.Location.Radius,
		}
		if loc.AccuracyRadius == 0 {
			loc.AccuracyRadius = 500
		}
		if ts, err := time.Parse(time.RFC3339, rec.Data.Location.LastLocationTime); err == nil {
			loc.LastLocationTime = ts
		}
		s.locations[phone] = loc
	}

	if raw := rec.Data.SimSwap.LatestSimChange; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			s.simSwaps[phone] = &models.SimSwapRecord{PhoneNumber: phone, LatestSimChange: ts}
		}
	}
}

// Len reports how many subscribers were indexed.
func (s *FixtureStore) Len() int {
	return len(s.identities)
}

func (s *FixtureStore) IdentityByPhone(_ context.Context, phoneNumber string) (*models.ReferenceIdentity, error) {
	ident, ok := s.identities[phoneNumber]
	if !ok {
		return nil, apperrors.NewReferenceNotFoundError("identity fixtures", phoneNumber)
	}
	return ident, nil
}

func (s *FixtureStore) LocationByPhone(_ context.Context, phoneNumber string) (*models.ReferenceLocation, error) {
	loc, ok := s.locations[phoneNumber]
	if !ok {
		return nil, apperrors.NewReferenceNotFoundError("location fixtures", phoneNumber)
	}
	return loc, nil
}

func (s *FixtureStore) LatestSimChange(_ context.Context, phoneNumber string) (*models.SimSwapRecord, error) {
	rec, ok := s.simSwaps[phoneNumber]
	if !ok {
		return nil, apperrors.NewReferenceNotFoundError("sim swap fixtures", phoneNumber)
	}
	return rec, nil
}
