// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`
	RefData   RefDataConfig   `mapstructure:"refdata"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telco     TelcoConfig     `mapstructure:"telco"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Geocoder  GeocoderConfig  `mapstructure:"geocoder"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Alerts    AlertConfig     `mapstructure:"alerts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name           string `mapstructure:"name"`
	Version        string `mapstructure:"version"`
	Environment    string `mapstructure:"environment"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"` // empty disables tracing
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
	VerdictCacheTTL int `mapstructure:"verdict_cache_ttl"` // seconds, 0 disables
}

// ScoringConfig holds the engine policy knobs. The weights and bands are
// heuristic, so they live in configuration instead of the scorer code.
type ScoringConfig struct {
	Weights        WeightsConfig `mapstructure:"weights"`
	ScorerTimeout  int           `mapstructure:"scorer_timeout"`   // milliseconds, per sub-scorer
	LocationMode   string        `mapstructure:"location_mode"`    // "city" or "geocode"
	DefaultRadius  int           `mapstructure:"default_radius"`   // meters, geocode mode target circle
	SimSwapWindow  int           `mapstructure:"sim_swap_window"`  // hours, advisory signal
	SimSwapEnabled bool          `mapstructure:"sim_swap_enabled"`
}

type WeightsConfig struct {
	Location float64 `mapstructure:"location"`
	Company  float64 `mapstructure:"company"`
	KYC      float64 `mapstructure:"kyc"`
}

// RefDataConfig selects where reference identity/location/SIM records come
// from: "postgres", "fixtures" (local JSON files) or "telco" (remote API).
type RefDataConfig struct {
	Source       string `mapstructure:"source"`
	FixturesPath string `mapstructure:"fixtures_path"`
}

type DirectoryConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelcoConfig configures the remote network-operator API and its OAuth
// client-credentials token endpoint.
type TelcoConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// SpeechConfig configures the transcription and extraction collaborators.
type SpeechConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	WhisperModel    string `mapstructure:"whisper_model"`
	ExtractionModel string `mapstructure:"extraction_model"`
	Language        string `mapstructure:"language"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
}

type GeocoderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

type AuditConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type AlertConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
