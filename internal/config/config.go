// Package config loads stride's TOML configuration: server and storage
// settings, Spotify and Ollama connectivity, logging, and the planner's
// cadence table, relaxation steps and phase profiles.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ewilliams-labs/stride/internal/core/planner"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains HTTP and storage settings.
type Server struct {
	Addr          string `toml:"addr"`
	StorageDriver string `toml:"storage_driver"`
	DatabasePath  string `toml:"database_path"`
	// SecureCookies marks session cookies Secure. Enable behind HTTPS.
	SecureCookies bool `toml:"secure_cookies"`
}

// Spotify contains API and OAuth settings.
type Spotify struct {
	ClientID           string `toml:"client_id"`
	ClientSecret       string `toml:"client_secret"`
	RedirectURL        string `toml:"redirect_url"`
	BaseURL            string `toml:"base_url"`
	MaxRetries         int    `toml:"max_retries"`
	RetryBackoffMs     int    `toml:"retry_backoff_ms"`
	MaxSavedTracks     int    `toml:"max_saved_tracks"`
	FeatureConcurrency int    `toml:"feature_concurrency"`
}

// Ollama contains the goal-parsing model settings.
type Ollama struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
}

// Worker sizes the publishing pool.
type Worker struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Cadence is the pace-to-cadence table. Paces are seconds per kilometer.
type Cadence struct {
	MinSPM             float64 `toml:"min_spm"`
	MaxSPM             float64 `toml:"max_spm"`
	FastPaceSeconds    int     `toml:"fast_pace_seconds"`
	SlowPaceSeconds    int     `toml:"slow_pace_seconds"`
	PrimaryHalfWidth   float64 `toml:"primary_half_width"`
	SecondaryHalfWidth float64 `toml:"secondary_half_width"`
}

// Relaxation holds the relaxation ladder step sizes.
type Relaxation struct {
	TempoWidenBPM float64 `toml:"tempo_widen_bpm"`
	EnergyWiden   float64 `toml:"energy_widen"`
}

// Planner selects the fallback policy for distances without a profile.
type Planner struct {
	// FallbackProfile names the profile used for unknown distances. Set to
	// an empty string to reject them instead.
	FallbackProfile string `toml:"fallback_profile"`
}

// Phase is one row of a profile's phase table.
type Phase struct {
	Name      string  `toml:"name" json:"name"`
	Start     float64 `toml:"start" json:"start"`
	End       float64 `toml:"end" json:"end"`
	EnergyMin float64 `toml:"energy_min" json:"energy_min"`
	EnergyMax float64 `toml:"energy_max" json:"energy_max"`
}

// Profile is a named phase table.
type Profile struct {
	Name   string  `toml:"name" json:"name"`
	Phases []Phase `toml:"phases" json:"phases"`
}

// Config encapsulates all configuration values for stride.
type Config struct {
	Server     Server             `toml:"server"`
	Spotify    Spotify            `toml:"spotify"`
	Ollama     Ollama             `toml:"ollama"`
	Worker     Worker             `toml:"worker"`
	Logging    Logging            `toml:"logging"`
	Cadence    Cadence            `toml:"cadence"`
	Relaxation Relaxation         `toml:"relaxation"`
	Planner    Planner            `toml:"planner"`
	Distances  map[string]float64 `toml:"distances"`
	Profiles   []Profile          `toml:"profiles"`
}

// Load parses and validates the configuration at path. A missing file is not
// an error: defaults and environment overrides apply. An empty path uses
// stride.toml in the working directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = defaultConfigFile
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// PlannerConfig converts the planner sections into a planner.Config.
func (c *Config) PlannerConfig() planner.Config {
	profiles := make([]planner.Profile, len(c.Profiles))
	for i, p := range c.Profiles {
		phases := make([]planner.PhaseDef, len(p.Phases))
		for j, ph := range p.Phases {
			phases[j] = planner.PhaseDef{
				Name:      ph.Name,
				Start:     ph.Start,
				End:       ph.End,
				EnergyMin: ph.EnergyMin,
				EnergyMax: ph.EnergyMax,
			}
		}
		profiles[i] = planner.Profile{Name: p.Name, Phases: phases}
	}

	return planner.Config{
		Cadence: planner.CadenceTable{
			MinSPM:             c.Cadence.MinSPM,
			MaxSPM:             c.Cadence.MaxSPM,
			FastPace:           time.Duration(c.Cadence.FastPaceSeconds) * time.Second,
			SlowPace:           time.Duration(c.Cadence.SlowPaceSeconds) * time.Second,
			PrimaryHalfWidth:   c.Cadence.PrimaryHalfWidth,
			SecondaryHalfWidth: c.Cadence.SecondaryHalfWidth,
		},
		Relaxation: planner.Relaxation{
			TempoWiden:  c.Relaxation.TempoWidenBPM,
			EnergyWiden: c.Relaxation.EnergyWiden,
		},
		Profiles:        profiles,
		FallbackProfile: c.Planner.FallbackProfile,
	}
}

// RetryBackoff returns the Spotify retry base backoff.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Spotify.RetryBackoffMs) * time.Millisecond
}
