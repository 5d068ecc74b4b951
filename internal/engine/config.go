// internal/engine/config.go
package engine

import (
	"fmt"
	"time"

	"callguard/internal/models"
)

// Fallback scam scores substituted when a sub-scorer fails or times out.
const (
	fallbackLocationScore = 75
	fallbackCompanyScore  = 70
	fallbackKYCScore      = 75

	// Overall score when every component was unusable.
	allFailedScore = 75
)

type Config struct {
	Weights        models.ScoringWeights
	ScorerTimeout  time.Duration
	SimSwapEnabled bool
	SimSwapWindow  time.Duration
}

// Validate rejects weight sets that would distort the [1,100] score range.
func (c *Config) Validate() error {
	const epsilon = 1e-9
	sum := c.Weights.Sum()
	if sum < 1-epsilon || sum > 1+epsilon {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	if c.Weights.Location < 0 || c.Weights.Company < 0 || c.Weights.KYC < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if c.ScorerTimeout <= 0 {
		return fmt.Errorf("scorer timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Weights: models.ScoringWeights{
			Location: 0.30,
			Company:  0.40,
			KYC:      0.30,
		},
		ScorerTimeout:  5 * time.Second,
		SimSwapEnabled: true,
		SimSwapWindow:  240 * time.Hour,
	}
}
