package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSpotify(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDistances(); err != nil {
		return err
	}
	if err := c.PlannerConfig().Validate(); err != nil {
		return fmt.Errorf("planner config: %w", err)
	}
	return nil
}

// RequireSpotifyCredentials reports an error when the OAuth client
// credentials are missing. Only the API server needs them.
func (c *Config) RequireSpotifyCredentials() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return errors.New("spotify.client_id and spotify.client_secret are required. Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET or edit stride.toml")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr must be set")
	}
	if c.Server.StorageDriver != "sqlite" {
		return fmt.Errorf("server.storage_driver %q is not supported", c.Server.StorageDriver)
	}
	if c.Server.DatabasePath == "" {
		return errors.New("server.database_path must be set")
	}
	return nil
}

func (c *Config) validateSpotify() error {
	if c.Spotify.BaseURL == "" {
		return errors.New("spotify.base_url must be set")
	}
	if c.Spotify.MaxRetries < 1 {
		return errors.New("spotify.max_retries must be at least 1")
	}
	if c.Spotify.RetryBackoffMs < 0 {
		return errors.New("spotify.retry_backoff_ms must not be negative")
	}
	if c.Spotify.MaxSavedTracks < 1 {
		return errors.New("spotify.max_saved_tracks must be at least 1")
	}
	if c.Spotify.FeatureConcurrency < 1 {
		return errors.New("spotify.feature_concurrency must be at least 1")
	}
	return nil
}

func (c *Config) validateWorker() error {
	if c.Worker.Workers < 1 {
		return errors.New("worker.workers must be at least 1")
	}
	if c.Worker.QueueSize < 1 {
		return errors.New("worker.queue_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateDistances() error {
	for name, meters := range c.Distances {
		if name == "" {
			return errors.New("distances: names must not be empty")
		}
		if meters <= 0 {
			return fmt.Errorf("distances.%s must be positive", name)
		}
	}
	return nil
}
