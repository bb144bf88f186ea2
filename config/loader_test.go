package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("QQM_HOME", dir)
	for _, key := range []string{"QQM_API_VARIANT", "QQM_API_TIMEOUT", "QQM_PLAYER_BINARY", "QQM_HISTORY_ENABLED", "QQM_PROFILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Variant != "signed" || cfg.API.Timeout != 30 || cfg.API.DownloadTimeout != 120 {
		t.Errorf("api defaults = %+v", cfg.API)
	}
	if cfg.Player.Binary != "mpv" || cfg.Player.ReadyAttempts != 10 || cfg.Player.GetIPCTimeout().Seconds() != 3 {
		t.Errorf("player defaults = %+v", cfg.Player)
	}
	if cfg.Home != dir {
		t.Errorf("Home = %q, want %q", cfg.Home, dir)
	}
	if cfg.History.Path != filepath.Join(dir, "history.db") || !cfg.History.Enabled {
		t.Errorf("history = %+v", cfg.History)
	}
	if cfg.Download.Dir == "" || !cfg.Download.Tag {
		t.Errorf("download = %+v", cfg.Download)
	}
	if cfg.Profile != "default" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
}

func TestLoadPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		variant string
		timeout int
		binary  string
		history bool
	}{
		{
			name:    "file",
			file:    "[api]\nvariant = \"cookie\"\ntimeout = 12\n[player]\nbinary = \"/opt/mpv\"\n",
			variant: "cookie", timeout: 12, binary: "/opt/mpv", history: true,
		},
		{
			name:    "env over file",
			file:    "[api]\nvariant = \"cookie\"\n",
			env:     map[string]string{"QQM_API_VARIANT": "signed", "QQM_HISTORY_ENABLED": "false"},
			variant: "signed", timeout: 30, binary: "mpv", history: false,
		},
		{
			name:    "flag over env",
			env:     map[string]string{"QQM_API_TIMEOUT": "45"},
			args:    []string{"--timeout", "5"},
			variant: "signed", timeout: 5, binary: "mpv", history: true,
		},
		{
			name:    "env without flag",
			env:     map[string]string{"QQM_API_TIMEOUT": "45", "QQM_PLAYER_BINARY": "mpv.com"},
			variant: "signed", timeout: 45, binary: "mpv.com", history: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tt.file), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := pflag.NewFlagSet("qqm", pflag.ContinueOnError)
			flags.Int("timeout", 30, "")
			flags.String("profile", "default", "")
			if err := flags.Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env"), Flags: flags})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.API.Variant != tt.variant {
				t.Errorf("variant = %q, want %q", cfg.API.Variant, tt.variant)
			}
			if cfg.API.Timeout != tt.timeout {
				t.Errorf("timeout = %d, want %d", cfg.API.Timeout, tt.timeout)
			}
			if cfg.Player.Binary != tt.binary {
				t.Errorf("binary = %q, want %q", cfg.Player.Binary, tt.binary)
			}
			if cfg.History.Enabled != tt.history {
				t.Errorf("history.enabled = %v, want %v", cfg.History.Enabled, tt.history)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("QQM_API_VARIANT=cookie\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("QQM_API_VARIANT") })

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.Variant != "cookie" {
		t.Errorf("variant = %q, want cookie", cfg.API.Variant)
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{File: filepath.Join(dir, "nope.toml"), EnvFile: filepath.Join(dir, "missing.env")})
	if err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"cookie variant", func(c *Config) { c.API.Variant = "cookie" }, false},
		{"bad variant", func(c *Config) { c.API.Variant = "oauth" }, true},
		{"bad mode", func(c *Config) { c.Output.Mode = "yaml" }, true},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, true},
		{"zero attempts", func(c *Config) { c.Player.ReadyAttempts = 0 }, true},
		{"empty binary", func(c *Config) { c.Player.Binary = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
