// Package config loads the DA subsystem's configuration surface: store
// locations, erasure parameters, sampling targets, rate-limit tiers, and
// the retrieval listen address, from a YAML file with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/animica/da/daerrors"
)

// Config is the fully resolved configuration surface.
type Config struct {
	// HTTP
	Host string
	Port int

	// Storage
	StorageDir   string
	GCRetention  int
	MaxBlobBytes int64
	PostMaxBytes int64

	// Namespace / erasure
	NamespaceBits int
	K             int
	N             int
	ShareBytes    int

	// Sampling
	PFailTarget      float64
	MinSamples       int
	MaxSamples       int
	SamplerTimeoutMS int

	// Chain / receipts
	ChainID string

	// Rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// EnvPrefix is the prefix applied to every environment override, matching
// the original ANIMICA_DA_* variable names.
const EnvPrefix = "ANIMICA_DA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8648)

	v.SetDefault("storage_dir", "./data/da")
	v.SetDefault("gc_retention", 2048)
	v.SetDefault("max_blob", 8<<20)
	v.SetDefault("post_max", 9<<20)

	v.SetDefault("ns_bytes", 4)
	v.SetDefault("k", 64)
	v.SetDefault("n", 128)
	v.SetDefault("share_size", 4096)

	v.SetDefault("p_fail", 1e-12)
	v.SetDefault("min_samples", 60)
	v.SetDefault("max_samples", 256)
	v.SetDefault("sampler_timeout_ms", 1500)

	v.SetDefault("chain_id", "animica-devnet")

	v.SetDefault("rate_limit_per_second", 20.0)
	v.SetDefault("rate_limit_burst", 40)
}

// Load reads configPath (if non-empty and present) as YAML, layers
// environment variables prefixed with ANIMICA_DA_ on top, and returns the
// resolved Config. A missing configPath is not an error; defaults plus
// environment overrides still apply.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("%w: reading config %s: %v", daerrors.ErrValidation, configPath, err)
			}
		}
	}

	cfg := Config{
		Host:               v.GetString("host"),
		Port:               v.GetInt("port"),
		StorageDir:         v.GetString("storage_dir"),
		GCRetention:        v.GetInt("gc_retention"),
		MaxBlobBytes:       v.GetInt64("max_blob"),
		PostMaxBytes:       v.GetInt64("post_max"),
		NamespaceBits:      v.GetInt("ns_bytes") * 8,
		K:                  v.GetInt("k"),
		N:                  v.GetInt("n"),
		ShareBytes:         v.GetInt("share_size"),
		PFailTarget:        v.GetFloat64("p_fail"),
		MinSamples:         v.GetInt("min_samples"),
		MaxSamples:         v.GetInt("max_samples"),
		SamplerTimeoutMS:   v.GetInt("sampler_timeout_ms"),
		ChainID:            v.GetString("chain_id"),
		RateLimitPerSecond: v.GetFloat64("rate_limit_per_second"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
	}
	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	if cfg.K < 1 {
		return fmt.Errorf("%w: k must be >= 1, got %d", daerrors.ErrValidation, cfg.K)
	}
	if cfg.N <= cfg.K {
		return fmt.Errorf("%w: n (%d) must exceed k (%d)", daerrors.ErrValidation, cfg.N, cfg.K)
	}
	if cfg.ShareBytes <= 0 {
		return fmt.Errorf("%w: share_size must be > 0, got %d", daerrors.ErrValidation, cfg.ShareBytes)
	}
	if cfg.NamespaceBits < 8 || cfg.NamespaceBits > 32 {
		return fmt.Errorf("%w: namespace bit width %d out of range", daerrors.ErrValidation, cfg.NamespaceBits)
	}
	if cfg.PFailTarget <= 0 || cfg.PFailTarget >= 1 {
		return fmt.Errorf("%w: p_fail must be in (0,1), got %v", daerrors.ErrValidation, cfg.PFailTarget)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", daerrors.ErrValidation, cfg.Port)
	}
	return nil
}
