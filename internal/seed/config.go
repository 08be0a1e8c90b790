package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Config struct {
	Count            int
	BatchSize        int
	Seed             int64
	IncludeCanonical bool
	Truncate         bool
}

func DefaultConfig() Config {
	return Config{
		Count:            200,
		BatchSize:        50,
		Seed:             time.Now().UTC().UnixNano(),
		IncludeCanonical: true,
		Truncate:         false,
	}
}

func LoadConfigFromEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	cfg := DefaultConfig()
	if err := applyInt(lookup, "DATAWHISPERER_SEED_COUNT", &cfg.Count); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "DATAWHISPERER_SEED_BATCH_SIZE", &cfg.BatchSize); err != nil {
		return Config{}, err
	}
	if err := applyInt64(lookup, "DATAWHISPERER_SEED_RANDOM_SEED", &cfg.Seed); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "DATAWHISPERER_SEED_INCLUDE_CANONICAL", &cfg.IncludeCanonical); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "DATAWHISPERER_SEED_TRUNCATE", &cfg.Truncate); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("seed count must be >= 0")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("seed batch size must be > 0")
	}
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}

func applyInt64(lookup LookupFunc, key string, dst *int64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = v
	return nil
}
