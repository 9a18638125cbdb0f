// Package config loads runtime settings from the environment (optionally seeded from a .env file).
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/iafilius/AuctionAnalysis/src/auction"
)

// Config stores the column mapping and analysis options shared by the viewer and the reader.
type Config struct {
	PlayerColumn string `validate:"required"`
	TeamColumn   string `validate:"required"`
	RoleColumn   string `validate:"required"`
	PriceColumn  string `validate:"required"`
	TopN         int    `validate:"min=1,max=100"`
	HistBins     int    `validate:"min=1,max=200"`
	LogLevel     string `validate:"required,oneof=debug info warn warning error"`
}

// Columns returns the CSV column mapping.
func (c Config) Columns() auction.Columns {
	return auction.Columns{
		Player: c.PlayerColumn,
		Team:   c.TeamColumn,
		Role:   c.RoleColumn,
		Price:  c.PriceColumn,
	}
}

// Default returns the built-in settings for the IPL 2023 auction export.
func Default() Config {
	return Config{
		PlayerColumn: auction.DefaultPlayerColumn,
		TeamColumn:   auction.DefaultTeamColumn,
		RoleColumn:   auction.DefaultRoleColumn,
		PriceColumn:  auction.DefaultPriceColumn,
		TopN:         10,
		HistBins:     20,
		LogLevel:     "info",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads .env files (missing files are fine) and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrapf(err, "load %s", f)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from AUCTION_* variables on top of Default and validates it.
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.PlayerColumn = getEnv("AUCTION_COLUMN_PLAYER", cfg.PlayerColumn)
	cfg.TeamColumn = getEnv("AUCTION_COLUMN_TEAM", cfg.TeamColumn)
	cfg.RoleColumn = getEnv("AUCTION_COLUMN_ROLE", cfg.RoleColumn)
	cfg.PriceColumn = getEnv("AUCTION_COLUMN_PRICE", cfg.PriceColumn)
	cfg.LogLevel = strings.ToLower(getEnv("AUCTION_LOG_LEVEL", cfg.LogLevel))

	var err error
	if cfg.TopN, err = getEnvAsInt("AUCTION_TOP_N", cfg.TopN); err != nil {
		return Config{}, errors.Wrap(err, "parse AUCTION_TOP_N")
	}
	if cfg.HistBins, err = getEnvAsInt("AUCTION_HIST_BINS", cfg.HistBins); err != nil {
		return Config{}, errors.Wrap(err, "parse AUCTION_HIST_BINS")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
