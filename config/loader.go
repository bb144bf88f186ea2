package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QQM_API_VARIANT
const EnvPrefix = "QQM"

// LoadOptions controls where Load looks for settings
type LoadOptions struct {
	// File is an explicit config file; when set it must exist
	File string
	// EnvFile is loaded into the process environment first, defaults to .env
	EnvFile string
	// Flags are bound over file and environment values
	Flags *pflag.FlagSet
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"profile":  "profile",
	"timeout":  "api.timeout",
	"pretty":   "output.pretty",
	"quiet":    "output.quiet",
	"no-color": "output.no_color",
}

// Load reads config.toml, the environment and flags, in increasing precedence
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error loading %s: %v", envFile, err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	if home := os.Getenv(EnvPrefix + "_HOME"); home != "" {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("$HOME/.config/qqm")
	v.AddConfigPath(".")
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	} else {
		log.Debugf("Using config file %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("home", "")
	v.SetDefault("profile", d.Profile)
	v.SetDefault("api.endpoint", d.API.Endpoint)
	v.SetDefault("api.variant", d.API.Variant)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.download_timeout", d.API.DownloadTimeout)
	v.SetDefault("player.binary", d.Player.Binary)
	v.SetDefault("player.socket", "")
	v.SetDefault("player.ipc_timeout", d.Player.IPCTimeout)
	v.SetDefault("player.ready_delay_ms", d.Player.ReadyDelayMS)
	v.SetDefault("player.ready_interval_ms", d.Player.ReadyIntervalMS)
	v.SetDefault("player.ready_attempts", d.Player.ReadyAttempts)
	v.SetDefault("output.mode", "")
	v.SetDefault("output.pretty", d.Output.Pretty)
	v.SetDefault("output.quiet", d.Output.Quiet)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", "")
	v.SetDefault("download.dir", "")
	v.SetDefault("download.tag", d.Download.Tag)
	v.SetDefault("ui.refresh_ms", d.UI.RefreshMS)
	v.SetDefault("ui.progress_bar_width", d.UI.ProgressBarWidth)
	v.SetDefault("ui.seek_step", d.UI.SeekStep)
	v.SetDefault("ui.volume_step", d.UI.VolumeStep)
}

func (c *Config) fillPaths() error {
	if c.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to locate home directory")
		}
		c.Home = filepath.Join(home, ".config", "qqm")
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Home, "history.db")
	}
	if c.Download.Dir == "" {
		c.Download.Dir = os.TempDir()
	}
	return nil
}
