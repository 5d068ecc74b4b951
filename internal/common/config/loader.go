// internal/common/config/loader.go
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like TELCO_CLIENT_SECRET
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml.
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the service behaves the same when launched from cmd/server or from tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up the directory tree looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "callguard"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	// Consolidated scoring policy: company carries the highest weight
	// because an unverifiable organizational claim is the strongest fraud
	// indicator in this domain.
	if cfg.Scoring.Weights == (WeightsConfig{}) {
		cfg.Scoring.Weights = WeightsConfig{Location: 0.30, Company: 0.40, KYC: 0.30}
	}
	if cfg.Scoring.ScorerTimeout == 0 {
		cfg.Scoring.ScorerTimeout = 5000
	}
	if cfg.Scoring.LocationMode == "" {
		cfg.Scoring.LocationMode = "city"
	}
	if cfg.Scoring.DefaultRadius == 0 {
		cfg.Scoring.DefaultRadius = 10000
	}
	if cfg.Scoring.SimSwapWindow == 0 {
		cfg.Scoring.SimSwapWindow = 240
	}

	if cfg.RefData.Source == "" {
		cfg.RefData.Source = "fixtures"
	}
	if cfg.RefData.FixturesPath == "" {
		cfg.RefData.FixturesPath = "testdata/reference"
	}
	if cfg.Directory.Path == "" {
		cfg.Directory.Path = "testdata/organizations.json"
	}

	if cfg.Speech.BaseURL == "" {
		cfg.Speech.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Speech.WhisperModel == "" {
		cfg.Speech.WhisperModel = "whisper-1"
	}
	if cfg.Speech.ExtractionModel == "" {
		cfg.Speech.ExtractionModel = "gpt-4o-mini"
	}
	if cfg.Speech.Language == "" {
		cfg.Speech.Language = "en"
	}
	if cfg.Speech.Timeout == 0 {
		cfg.Speech.Timeout = 30000
	}

	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Geocoder.UserAgent == "" {
		cfg.Geocoder.UserAgent = "callguard/1.0"
	}
	if cfg.Geocoder.Timeout == 0 {
		cfg.Geocoder.Timeout = 10000
	}

	if cfg.Telco.Timeout == 0 {
		cfg.Telco.Timeout = 30000
	}

	if cfg.Audit.Index == "" {
		cfg.Audit.Index = "fraud-verdicts"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	w := cfg.Scoring.Weights
	sum := w.Location + w.Company + w.KYC
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	if w.Location < 0 || w.Company < 0 || w.KYC < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}

	switch cfg.Scoring.LocationMode {
	case "city", "geocode":
	default:
		return fmt.Errorf("scoring.location_mode must be 'city' or 'geocode', got %q", cfg.Scoring.LocationMode)
	}

	switch cfg.RefData.Source {
	case "postgres", "fixtures", "telco":
	default:
		return fmt.Errorf("refdata.source must be 'postgres', 'fixtures' or 'telco', got %q", cfg.RefData.Source)
	}

	if cfg.Audit.Enabled && len(cfg.Audit.Addresses) == 0 {
		return fmt.Errorf("audit.enabled requires at least one elasticsearch address")
	}
	if cfg.Alerts.Enabled && cfg.Alerts.TopicARN == "" {
		return fmt.Errorf("alerts.enabled requires alerts.topic_arn")
	}

	return nil
}
