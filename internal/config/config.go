package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config describes all runtime settings for the table client.
//
// Load once in main, validate, pass further by value.
type Config struct {
	Engine string // local|remote

	Log struct {
		Mode string // dev|prod
	}

	Server struct {
		URL string
		Key string
	}

	Player struct {
		DeviceID string
		Name     string
	}

	Signer struct {
		Seed string // hex-encoded ed25519 seed; empty generates an ephemeral key
	}

	Poll struct {
		Interval time.Duration
	}

	Tiers struct {
		File    string // optional JSON stake schedule
		Default string // tier id selected at startup
	}
}

// LoadFromEnv reads the FELT_* environment and fills in defaults. A missing
// device id gets a fresh UUID, which device auth will register as a new
// account.
func LoadFromEnv() (Config, error) {
	var c Config

	c.Engine = envString("FELT_ENGINE", "local")
	c.Log.Mode = envString("FELT_LOG", "dev")

	c.Server.URL = envString("FELT_SERVER_URL", "http://127.0.0.1:7350")
	c.Server.Key = envString("FELT_SERVER_KEY", "defaultkey")

	c.Player.DeviceID = envString("FELT_DEVICE_ID", "")
	if c.Player.DeviceID == "" {
		c.Player.DeviceID = uuid.NewString()
	}
	c.Player.Name = envString("FELT_NAME", "")

	c.Signer.Seed = envString("FELT_SIGNER_SEED", "")

	c.Poll.Interval = envDuration("FELT_POLL_INTERVAL", 5*time.Second)

	c.Tiers.File = envString("FELT_TIERS_FILE", "")
	c.Tiers.Default = envString("FELT_BET_TIER", "")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Engine != "local" && c.Engine != "remote" {
		return fmt.Errorf("unsupported FELT_ENGINE=%q (want local|remote)", c.Engine)
	}
	if c.Log.Mode != "dev" && c.Log.Mode != "prod" {
		return fmt.Errorf("unsupported FELT_LOG=%q (want dev|prod)", c.Log.Mode)
	}
	if c.Engine == "remote" {
		if c.Server.URL == "" {
			return errors.New("FELT_SERVER_URL is empty")
		}
		if c.Server.Key == "" {
			return errors.New("FELT_SERVER_KEY is empty")
		}
	}
	if c.Poll.Interval <= 0 {
		return errors.New("FELT_POLL_INTERVAL must be positive")
	}
	if _, err := c.SeedBytes(); err != nil {
		return err
	}
	return nil
}

// SeedBytes decodes the configured signing seed. Empty config yields nil,
// telling the caller to generate an ephemeral key.
func (c Config) SeedBytes() ([]byte, error) {
	if c.Signer.Seed == "" {
		return nil, nil
	}
	seed, err := hex.DecodeString(c.Signer.Seed)
	if err != nil {
		return nil, fmt.Errorf("FELT_SIGNER_SEED is not hex: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("FELT_SIGNER_SEED is %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	return seed, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

// BetTier is one entry of the stake schedule: the chips committed when a
// round starts under that tier.
type BetTier struct {
	ID    string `json:"id"`
	Stake uint64 `json:"stake"`
}

// TierTable is the optional JSON stake schedule.
type TierTable struct {
	DefaultTier string    `json:"default_tier"`
	Tiers       []BetTier `json:"tiers"`
}

var (
	tiers    *TierTable
	loadOnce sync.Once
	loadErr  error
)

// LoadBetTiers loads the stake schedule from the given path. The first call
// wins; repeated calls return the first result.
func LoadBetTiers(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read tier file: %w", err)
			return
		}

		var t TierTable
		if err := json.Unmarshal(data, &t); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal tier file: %w", err)
			return
		}
		tiers = &t
	})
	return loadErr
}

// BaseBet returns the stake for a given tier ID, or the default if not found.
func BaseBet(tierID string) uint64 {
	if tiers == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = tiers.DefaultTier
	}

	for _, tier := range tiers.Tiers {
		if tier.ID == target {
			return tier.Stake
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range tiers.Tiers {
		if tier.ID == tiers.DefaultTier {
			return tier.Stake
		}
	}

	return 100
}
