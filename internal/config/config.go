package config

import (
	"os"
	"strconv"

	"gochance/internal"
	"gochance/internal/errors"
	"gochance/internal/validation"
)

// Config represents the complete application configuration
type Config struct {
	Sampler    SamplerConfig
	Simulation SimulationConfig
	LogLevel   internal.LogLevel
}

// SamplerConfig holds seeding and tolerance settings
type SamplerConfig struct {
	// Seed is used when HasSeed is true
	Seed    int64
	HasSeed bool

	// SeedString takes precedence over Seed when set
	SeedString string
	Epsilon    float64 `validate:"gt=0,lte=0.1"`
}

// SimulationConfig holds defaults for the simulate command
type SimulationConfig struct {
	Workers int     `validate:"gte=1,lte=256"`
	Draws   int     `validate:"gt=0"`
	Alpha   float64 `validate:"gt=0,lt=1"`
}

// Load reads configuration from environment variables and validates it.
// A variable that is set but cannot be parsed is an error, never a default.
func Load() (*Config, error) {
	samplerConfig, err := loadSamplerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sampler configuration")
	}

	simulationConfig, err := loadSimulationConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load simulation configuration")
	}

	config := &Config{
		Sampler:    *samplerConfig,
		Simulation: *simulationConfig,
		LogLevel:   internal.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}

	if err := validation.Struct(config); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "configuration validation failed"))
	}

	return config, nil
}

func loadSamplerConfig() (*SamplerConfig, error) {
	epsilon, err := getEnvFloatOrDefault("SAMPLER_EPSILON", 1e-6)
	if err != nil {
		return nil, err
	}

	config := &SamplerConfig{
		SeedString: os.Getenv("SAMPLER_SEED_STRING"),
		Epsilon:    epsilon,
	}

	if raw := os.Getenv("SAMPLER_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("SAMPLER_SEED must be a 64-bit integer, got " + strconv.Quote(raw))
		}
		config.Seed = seed
		config.HasSeed = true
	}

	return config, nil
}

func loadSimulationConfig() (*SimulationConfig, error) {
	workers, err := getEnvIntOrDefault("SIM_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	draws, err := getEnvIntOrDefault("SIM_DRAWS", 100000)
	if err != nil {
		return nil, err
	}
	alpha, err := getEnvFloatOrDefault("SIM_ALPHA", 0.001)
	if err != nil {
		return nil, err
	}

	return &SimulationConfig{Workers: workers, Draws: draws, Alpha: alpha}, nil
}

// Helper functions for environment variable parsing

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer, got " + strconv.Quote(value))
	}
	return intValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number, got " + strconv.Quote(value))
	}
	return floatValue, nil
}
