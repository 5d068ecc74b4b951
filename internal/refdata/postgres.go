// internal/refdata/postgres.go
package refdata

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "callguard/internal/common/errors"
	"callguard/internal/models"
)

// PostgresStore reads reference records from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IdentityByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceIdentity, error) {
	const query = `
		SELECT phone_number, id_document, name, given_name, family_name,
		       birthdate, address, street_name, street_number, postal_code,
		       region, locality, country, email, gender
		FROM reference_identities
		WHERE phone_number = $1`

	var ident models.ReferenceIdentity
	err := s.db.QueryRowContext(ctx, query, phoneNumber).Scan(
		&ident.PhoneNumber, &ident.IDDocument, &ident.Name, &ident.GivenName,
		&ident.FamilyName, &ident.Birthdate, &ident.Address, &ident.StreetName,
		&ident.StreetNumber, &ident.PostalCode, &ident.Region, &ident.Locality,
		&ident.Country, &ident.Email, &ident.Gender,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewReferenceNotFoundError("identity store", phoneNumber)
		}
		return nil, apperrors.NewCollaboratorUnavailableError("identity store", err)
	}
	return &ident, nil
}

func (s *PostgresStore) LocationByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceLocation, error) {
	const query = `
		SELECT phone_number, latitude, longitude, accuracy_radius, last_location_time
		FROM reference_locations
		WHERE phone_number = $1`

	var loc models.ReferenceLocation
	err := s.db.QueryRowContext(ctx, query, phoneNumber).Scan(
		&loc.PhoneNumber, &loc.Latitude, &loc.Longitude,
		&loc.AccuracyRadius, &loc.LastLocationTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewReferenceNotFoundError("location store", phoneNumber)
		}
		return nil, apperrors.NewCollaboratorUnavailableError("location store", err)
	}
	return &loc, nil
}

func (s *PostgresStore) LatestSimChange(ctx context.Context, phoneNumber string) (*models.SimSwapRecord, error) {
	const query = `
		SELECT phone_number, latest_sim_change
		FROM sim_swaps
		WHERE phone_number = $1`

	var rec models.SimSwapRecord
	var latest time.Time
	err := s.db.QueryRowContext(ctx, query, phoneNumber).Scan(&rec.PhoneNumber, &latest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewReferenceNotFoundError("sim swap store", phoneNumber)
		}
		return nil, apperrors.NewCollaboratorUnavailableError("sim swap store", err)
	}
	rec.LatestSimChange = latest
	return &rec, nil
}
