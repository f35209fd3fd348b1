// Package config loads and persists the tool configuration: API credentials,
// customer details for order submission, the preferred pickup store, and
// optional image limits.
//
// Configuration is resolved in the following order:
//  1. Environment variables (PHOTOPRINT_API_KEY, PHOTOPRINT_AFFILIATE_ID,
//     PHOTOPRINT_STORE_ID), optionally supplied through a .env file in the
//     working directory, override individual values from any file.
//  2. A config.yaml in the current directory.
//  3. The user config file at ~/.config/photoprint/config.yaml.
//
// When no file exists, Setup runs a first-time interactive prompt and writes
// the user config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "photoprint"
	configFileName = "config.yaml"

	// EnvAPIKey, EnvAffiliateID and EnvStoreID override the corresponding
	// file values.
	EnvAPIKey      = "PHOTOPRINT_API_KEY"
	EnvAffiliateID = "PHOTOPRINT_AFFILIATE_ID"
	EnvStoreID     = "PHOTOPRINT_STORE_ID"
)

// ErrNotFound indicates that no configuration file exists yet.
var ErrNotFound = errors.New("no configuration file found")

// Customer holds the contact details attached to every print order.
type Customer struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Phone     string `yaml:"phone"`
	Email     string `yaml:"email"`
}

// Store describes a pickup store as returned by the store search.
type Store struct {
	StoreNum     string `yaml:"store_num"`
	PromiseTime  string `yaml:"promise_time,omitempty"`
	Address      string `yaml:"address,omitempty"`
	Phone        string `yaml:"phone,omitempty"`
	Distance     string `yaml:"distance,omitempty"`
	DistanceUnit string `yaml:"distance_unit,omitempty"`
}

// Location is the customer's position used for store search.
type Location struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Address   string  `yaml:"address,omitempty"`
}

// Limits caps the size and resolution of submitted images.
// Zero values disable the corresponding check.
type Limits struct {
	MaxFileSizeMB int64 `yaml:"max_file_size_mb,omitempty"`
	MaxWidth      int   `yaml:"max_width,omitempty"`
	MaxHeight     int   `yaml:"max_height,omitempty"`
}

// Config is the full tool configuration.
type Config struct {
	APIKey       string    `yaml:"api_key"`
	AffiliateID  string    `yaml:"affiliate_id"`
	Customer     Customer  `yaml:"customer"`
	DefaultStore *Store    `yaml:"default_store,omitempty"`
	Location     *Location `yaml:"location,omitempty"`
	Limits       *Limits   `yaml:"limits,omitempty"`

	// Source records which file the configuration was loaded from.
	Source string `yaml:"-"`
}

// Load reads the configuration, checking the local directory first and the
// user config directory second. Environment variables override file values.
// Returns ErrNotFound when no config file exists.
func Load() (*Config, error) {
	// A .env file in the working directory can supply the PHOTOPRINT_*
	// overrides. Missing files are fine.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded environment overrides from .env file")
	}

	local := configFileName
	if _, err := os.Stat(local); err == nil {
		log.Debug().Str("file", local).Msg("Loading configuration from local file")
		return loadFile(local)
	}

	user, err := userConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(user); err == nil {
		log.Debug().Str("file", user).Msg("Loading configuration from user config file")
		return loadFile(user)
	}

	return nil, ErrNotFound
}

// loadFile reads and validates a specific configuration file.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file at %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config file is not valid YAML: %w", err)
	}
	cfg.Source = path

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides replaces file values with environment variables when set.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		log.Debug().Msg("Using API key from environment variable")
		c.APIKey = v
	}
	if v := os.Getenv(EnvAffiliateID); v != "" {
		log.Debug().Msg("Using affiliate ID from environment variable")
		c.AffiliateID = v
	}
	if v := os.Getenv(EnvStoreID); v != "" {
		log.Debug().Str("storeNum", v).Msg("Using pickup store from environment variable")
		c.DefaultStore = &Store{StoreNum: v}
	}
}

// Validate checks that all required fields are present and non-empty.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing required field 'api_key' in config file")
	}
	if c.AffiliateID == "" {
		return fmt.Errorf("missing required field 'affiliate_id' in config file")
	}

	// Customer details are optional until an order is submitted, but when
	// any field is set the block must be complete.
	if c.Customer != (Customer{}) {
		fields := map[string]string{
			"first_name": c.Customer.FirstName,
			"last_name":  c.Customer.LastName,
			"phone":      c.Customer.Phone,
			"email":      c.Customer.Email,
		}
		for name, value := range fields {
			if value == "" {
				return fmt.Errorf("missing or empty customer %s in config file", name)
			}
		}
	}

	return nil
}

// Save writes the configuration to the user's config file.
func (c *Config) Save() error {
	path, err := userConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Debug().Str("file", path).Msg("Configuration saved")
	return nil
}

// UpdateDefaultStore sets the default pickup store and persists the change.
func (c *Config) UpdateDefaultStore(store Store) error {
	c.DefaultStore = &store
	if err := c.Save(); err != nil {
		return err
	}
	log.Debug().Str("storeNum", store.StoreNum).Msg("Updated default store")
	return nil
}

// userConfigPath returns the full path to the user's config file.
func userConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", configDirName, configFileName), nil
}
