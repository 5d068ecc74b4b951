// internal/refdata/refdata.go

// Package refdata supplies the read-only reference records keyed by phone
// number that the verification components consume: KYC identity, last known
// device location, and latest SIM change. Implementations exist for
// PostgreSQL, local JSON fixtures, and the remote telco API (internal/telco).
package refdata

import (
	"context"

	"callguard/internal/models"
)

// IdentitySource resolves the ground-truth KYC record for a phone number.
type IdentitySource interface {
	IdentityByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceIdentity, error)
}

// LocationSource resolves the last known device location for a phone number.
type LocationSource interface {
	LocationByPhone(ctx context.Context, phoneNumber string) (*models.ReferenceLocation, error)
}

// SimSwapSource resolves the latest SIM change for a phone number.
type SimSwapSource interface {
	LatestSimChange(ctx context.Context, phoneNumber string) (*models.SimSwapRecord, error)
}

// Store bundles the three sources; every implementation in this package
// provides all of them.
type Store interface {
	IdentitySource
	LocationSource
	SimSwapSource
}
