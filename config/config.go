package config

import (
	"time"

	"github.com/pkg/errors"
)

// Config represents the complete application configuration
type Config struct {
	Home     string         `mapstructure:"home"`
	Profile  string         `mapstructure:"profile"`
	API      APIConfig      `mapstructure:"api"`
	Player   PlayerConfig   `mapstructure:"player"`
	Output   OutputConfig   `mapstructure:"output"`
	History  HistoryConfig  `mapstructure:"history"`
	Download DownloadConfig `mapstructure:"download"`
	UI       UIConfig       `mapstructure:"ui"`
}

// APIConfig contains remote endpoint settings
type APIConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Variant         string `mapstructure:"variant"`          // signed or cookie
	Timeout         int    `mapstructure:"timeout"`          // in seconds
	DownloadTimeout int    `mapstructure:"download_timeout"` // in seconds
}

// PlayerConfig contains mpv process and IPC settings
type PlayerConfig struct {
	Binary          string `mapstructure:"binary"`
	Socket          string `mapstructure:"socket"`
	IPCTimeout      int    `mapstructure:"ipc_timeout"` // in seconds
	ReadyDelayMS    int    `mapstructure:"ready_delay_ms"`
	ReadyIntervalMS int    `mapstructure:"ready_interval_ms"`
	ReadyAttempts   int    `mapstructure:"ready_attempts"`
}

// OutputConfig contains rendering settings
type OutputConfig struct {
	Mode    string `mapstructure:"mode"` // json, plain, human or empty for auto
	Pretty  bool   `mapstructure:"pretty"`
	Quiet   bool   `mapstructure:"quiet"`
	NoColor bool   `mapstructure:"no_color"`
}

// HistoryConfig contains local play history settings
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DownloadConfig contains track download settings
type DownloadConfig struct {
	Dir string `mapstructure:"dir"`
	Tag bool   `mapstructure:"tag"`
}

// UIConfig contains settings for the watch view
type UIConfig struct {
	RefreshMS        int     `mapstructure:"refresh_ms"`
	ProgressBarWidth int     `mapstructure:"progress_bar_width"`
	SeekStep         float64 `mapstructure:"seek_step"`
	VolumeStep       float64 `mapstructure:"volume_step"`
}

// GetTimeout returns the request timeout as a time.Duration
func (a *APIConfig) GetTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// GetDownloadTimeout returns the download timeout as a time.Duration
func (a *APIConfig) GetDownloadTimeout() time.Duration {
	return time.Duration(a.DownloadTimeout) * time.Second
}

// GetIPCTimeout returns the per-command IPC timeout
func (p *PlayerConfig) GetIPCTimeout() time.Duration {
	return time.Duration(p.IPCTimeout) * time.Second
}

// GetReadyDelay returns the wait before the first readiness probe
func (p *PlayerConfig) GetReadyDelay() time.Duration {
	return time.Duration(p.ReadyDelayMS) * time.Millisecond
}

// GetReadyInterval returns the wait between readiness probes
func (p *PlayerConfig) GetReadyInterval() time.Duration {
	return time.Duration(p.ReadyIntervalMS) * time.Millisecond
}

// GetRefresh returns the watch view refresh interval
func (u *UIConfig) GetRefresh() time.Duration {
	return time.Duration(u.RefreshMS) * time.Millisecond
}

// Validate checks values that would otherwise fail deep inside a command
func (c *Config) Validate() error {
	switch c.API.Variant {
	case "signed", "cookie":
	default:
		return errors.Errorf("invalid api.variant %q (signed/cookie)", c.API.Variant)
	}
	switch c.Output.Mode {
	case "", "json", "plain", "human":
	default:
		return errors.Errorf("invalid output.mode %q (json/plain/human)", c.Output.Mode)
	}
	if c.API.Timeout <= 0 {
		return errors.Errorf("api.timeout must be positive, got %d", c.API.Timeout)
	}
	if c.API.DownloadTimeout <= 0 {
		return errors.Errorf("api.download_timeout must be positive, got %d", c.API.DownloadTimeout)
	}
	if c.Player.IPCTimeout <= 0 {
		return errors.Errorf("player.ipc_timeout must be positive, got %d", c.Player.IPCTimeout)
	}
	if c.Player.ReadyAttempts <= 0 {
		return errors.Errorf("player.ready_attempts must be positive, got %d", c.Player.ReadyAttempts)
	}
	if c.Player.Binary == "" {
		return errors.New("player.binary must not be empty")
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values.
// Home, Player.Socket, History.Path and Download.Dir are filled in by Load.
func DefaultConfig() *Config {
	return &Config{
		Profile: "default",
		API: APIConfig{
			Endpoint:        "https://u.y.qq.com/cgi-bin/musicu.fcg",
			Variant:         "signed",
			Timeout:         30,
			DownloadTimeout: 120,
		},
		Player: PlayerConfig{
			Binary:          "mpv",
			IPCTimeout:      3,
			ReadyDelayMS:    300,
			ReadyIntervalMS: 200,
			ReadyAttempts:   10,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Download: DownloadConfig{
			Tag: true,
		},
		UI: UIConfig{
			RefreshMS:        500,
			ProgressBarWidth: 30,
			SeekStep:         5,
			VolumeStep:       5,
		},
	}
}
