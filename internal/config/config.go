// Package config loads application settings from a .env file and environment
// variables. Environment variables always take precedence over .env values.
package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/opencube/cube-draft-api/internal/draft"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port        string
	Environment string

	// Storage: memory, sqlite or postgres.
	DBDriver    string
	SQLiteFile  string
	DatabaseURL string

	// NATS
	NATSURL     string
	NATSSubject string

	// ClickHouse diagnostics
	ClickHouseAddr     string
	ClickHouseDB       string
	ClickHouseUser     string
	ClickHousePassword string

	// Card database file (JSON).
	CardDBFile string

	// Shared secret for the Draftmancer publish endpoint.
	DraftmancerAPIKey string

	// OIDC
	OIDCBaseURL      string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Draft format parameter limits, consumed by the format planner. These
	// are the single source of the pack/cards/seats bounds.
	FormatBounds draft.FormatBounds

	// Defaults applied when a start request omits format fields.
	DefaultPacks int
	DefaultCards int
	DefaultSeats int
}

// Load reads configuration from a .env file (if present) and then from
// environment variables.
func Load() *Config {
	// Silently load .env - fine if it doesn't exist, production uses real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_DRIVER", "memory")
	v.SetDefault("SQLITE_FILE", "dev.sqlite")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("NATS_SUBJECT", "draft.events")
	v.SetDefault("CLICKHOUSE_ADDR", "localhost:9000")
	v.SetDefault("CLICKHOUSE_DB", "default")
	v.SetDefault("CLICKHOUSE_USER", "default")
	v.SetDefault("CARD_DB_FILE", "cards.json")
	v.SetDefault("DEFAULT_PACKS", 3)
	v.SetDefault("DEFAULT_CARDS", 15)
	v.SetDefault("DEFAULT_SEATS", 8)

	return &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),

		DBDriver:    v.GetString("DB_DRIVER"),
		SQLiteFile:  v.GetString("SQLITE_FILE"),
		DatabaseURL: v.GetString("DATABASE_URL"),

		NATSURL:     v.GetString("NATS_URL"),
		NATSSubject: v.GetString("NATS_SUBJECT"),

		ClickHouseAddr:     v.GetString("CLICKHOUSE_ADDR"),
		ClickHouseDB:       v.GetString("CLICKHOUSE_DB"),
		ClickHouseUser:     v.GetString("CLICKHOUSE_USER"),
		ClickHousePassword: v.GetString("CLICKHOUSE_PASSWORD"),

		CardDBFile: v.GetString("CARD_DB_FILE"),

		DraftmancerAPIKey: v.GetString("DRAFTMANCER_API_KEY"),

		OIDCBaseURL:      v.GetString("OIDC_BASE_URL"),
		OIDCClientID:     v.GetString("OIDC_CLIENT_ID"),
		OIDCClientSecret: v.GetString("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  v.GetString("OIDC_REDIRECT_URL"),

		FormatBounds: draft.DefaultFormatBounds(),

		DefaultPacks: v.GetInt("DEFAULT_PACKS"),
		DefaultCards: v.GetInt("DEFAULT_CARDS"),
		DefaultSeats: v.GetInt("DEFAULT_SEATS"),
	}
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}
