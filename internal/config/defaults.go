package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/planner"
)

const (
	defaultConfigFile         = "stride.toml"
	defaultAddr               = ":8080"
	defaultStorageDriver      = "sqlite"
	defaultDatabasePath       = "stride.db"
	defaultSpotifyBaseURL     = "https://api.spotify.com/v1"
	defaultRedirectURL        = "http://localhost:8080/callback"
	defaultMaxRetries         = 3
	defaultRetryBackoffMs     = 500
	defaultMaxSavedTracks     = 2000
	defaultFeatureConcurrency = 4
	defaultOllamaHost         = "http://localhost:11434"
	defaultOllamaModel        = "deepseek-r1:8b"
	defaultWorkers            = 2
	defaultQueueSize          = 100
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with repository defaults. Profiles and
// distances are filled in by normalize so a config file can replace them.
func Default() Config {
	cadence := planner.DefaultCadenceTable()
	relax := planner.DefaultRelaxation()
	return Config{
		Server: Server{
			Addr:          defaultAddr,
			StorageDriver: defaultStorageDriver,
			DatabasePath:  defaultDatabasePath,
		},
		Spotify: Spotify{
			RedirectURL:        defaultRedirectURL,
			BaseURL:            defaultSpotifyBaseURL,
			MaxRetries:         defaultMaxRetries,
			RetryBackoffMs:     defaultRetryBackoffMs,
			MaxSavedTracks:     defaultMaxSavedTracks,
			FeatureConcurrency: defaultFeatureConcurrency,
		},
		Ollama: Ollama{
			Host:  defaultOllamaHost,
			Model: defaultOllamaModel,
		},
		Worker: Worker{
			Workers:   defaultWorkers,
			QueueSize: defaultQueueSize,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Cadence: Cadence{
			MinSPM:             cadence.MinSPM,
			MaxSPM:             cadence.MaxSPM,
			FastPaceSeconds:    int(cadence.FastPace.Seconds()),
			SlowPaceSeconds:    int(cadence.SlowPace.Seconds()),
			PrimaryHalfWidth:   cadence.PrimaryHalfWidth,
			SecondaryHalfWidth: cadence.SecondaryHalfWidth,
		},
		Relaxation: Relaxation{
			TempoWidenBPM: relax.TempoWiden,
			EnergyWiden:   relax.EnergyWiden,
		},
		Planner: Planner{
			FallbackProfile: planner.MarathonProfileName,
		},
	}
}

func defaultProfiles() []Profile {
	def := planner.MarathonProfile()
	phases := make([]Phase, len(def.Phases))
	for i, ph := range def.Phases {
		phases[i] = Phase{
			Name:      ph.Name,
			Start:     ph.Start,
			End:       ph.End,
			EnergyMin: ph.EnergyMin,
			EnergyMax: ph.EnergyMax,
		}
	}
	return []Profile{{Name: def.Name, Phases: phases}}
}

func (c *Config) normalize() {
	c.Server.StorageDriver = strings.ToLower(strings.TrimSpace(c.Server.StorageDriver))
	c.Spotify.BaseURL = strings.TrimRight(strings.TrimSpace(c.Spotify.BaseURL), "/")
	c.Ollama.Host = strings.TrimRight(strings.TrimSpace(c.Ollama.Host), "/")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Planner.FallbackProfile = strings.TrimSpace(c.Planner.FallbackProfile)

	if len(c.Profiles) == 0 {
		c.Profiles = defaultProfiles()
	}

	merged := domain.DefaultDistances()
	for name, meters := range c.Distances {
		merged[strings.ToLower(strings.TrimSpace(name))] = meters
	}
	c.Distances = merged
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if raw := os.Getenv(key); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				*dst = parsed
			}
		}
	}

	setString(&c.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Spotify.RedirectURL, "SPOTIFY_REDIRECT_URI")
	setInt(&c.Spotify.MaxRetries, "SPOTIFY_MAX_RETRIES")
	setInt(&c.Spotify.RetryBackoffMs, "SPOTIFY_RETRY_BACKOFF_MS")
	setString(&c.Ollama.Host, "OLLAMA_HOST")
	setString(&c.Server.StorageDriver, "STORAGE_DRIVER")
	setString(&c.Server.DatabasePath, "STRIDE_DB_PATH")
	if raw := strings.TrimSpace(os.Getenv("STRIDE_SECURE_COOKIES")); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			c.Server.SecureCookies = parsed
		}
	}
	setString(&c.Logging.Level, "STRIDE_LOG_LEVEL")
}
