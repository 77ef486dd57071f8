package service

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// BuildConfig mirrors the build-time configuration flags the original
// exposes as compile definitions: multithread_enabled, thread_labels_enabled,
// max_ecs_components, log_level. Here they are runtime environment
// variables instead, loaded once at process startup.
type BuildConfig struct {
	MultithreadEnabled  bool    `env:"KESTREL_MULTITHREAD_ENABLED,default=true"`
	ThreadLabelsEnabled bool    `env:"KESTREL_THREAD_LABELS_ENABLED,default=false"`
	MaxECSComponents    int     `env:"KESTREL_MAX_ECS_COMPONENTS,default=64"`
	LogLevel            string  `env:"KESTREL_LOG_LEVEL,default=info"`
	MaxFrameRate        float64 `env:"KESTREL_MAX_FRAME_RATE,default=0"`
}

// LoadBuildConfig loads a .env file if present (silently ignored when
// absent) and decodes BuildConfig from the process environment.
func LoadBuildConfig() (BuildConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return BuildConfig{}, fmt.Errorf("loading .env: %w", err)
	}

	var cfg BuildConfig
	if err := envdecode.Decode(&cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return BuildConfig{}, fmt.Errorf("decoding build config: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants the ECS archetype package depends on.
func (c BuildConfig) Validate() error {
	if c.MaxECSComponents < 8 {
		return fmt.Errorf("max ecs components must be >= 8, got %d", c.MaxECSComponents)
	}
	if c.MaxECSComponents&(c.MaxECSComponents-1) != 0 {
		return fmt.Errorf("max ecs components must be a power of two, got %d", c.MaxECSComponents)
	}
	return nil
}
