package checker

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds checker configuration.
type Config struct {
	// Enabled selects whether the checker logic is instantiated at all.
	// When false the mismatch flags are tied to the no-violation value.
	Enabled bool `json:"enabled"`

	// IdleBound is the number of consecutive idle-yet-ready cycles
	// after which unresolved outstanding counts are treated as
	// violations. Default: 4 cycles.
	IdleBound uint64 `json:"idle_bound"`
}

// DefaultConfig returns the default checker configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		IdleBound: 4,
	}
}

// LoadConfig loads checker configuration from a JSON file. Fields not
// present in the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.IdleBound == 0 {
		return fmt.Errorf("idle_bound must be at least 1")
	}
	return nil
}
