// Package config loads settings from defaults, TOML files, the environment
// and root flags, in that order of increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultAPIURL         = "http://localhost:3001/api"
	DefaultTheme          = "classic"
	DefaultNoticeSeconds  = 3
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultRequestTimeout = "30s"

	appDirName         = ".studywithme"
	userConfigName     = "config.toml"
	projectConfigName  = ".studywithme.toml"
	credentialsName    = "credentials.json"
	dataDirName        = "data"
	xdgConfigSubdir    = "studywithme"
	envHome            = "STUDYWITHME_HOME"
	envPrefix          = "STUDYWITHME_"
	envNoColorStandard = "NO_COLOR"
)

// Config is the resolved application configuration.
type Config struct {
	DataDir         string `toml:"data_dir"`
	CredentialsFile string `toml:"credentials_file"`
	APIURL          string `toml:"api_url"`
	Theme           string `toml:"theme"`
	NoColor         bool   `toml:"no_color"`
	NoticeSeconds   int    `toml:"notice_seconds"`
	RequestTimeout  string `toml:"request_timeout"`
	LogLevel        string `toml:"log_level"`
	LogFormat       string `toml:"log_format"`
	LogFile         string `toml:"log_file"`

	// ConfigFile is the user config file that was read, if any.
	ConfigFile string `toml:"-"`
}

func setDefaults(cfg *Config) {
	home := appHome()
	cfg.DataDir = filepath.Join(home, dataDirName)
	cfg.CredentialsFile = filepath.Join(home, credentialsName)
	cfg.APIURL = DefaultAPIURL
	cfg.Theme = DefaultTheme
	cfg.NoticeSeconds = DefaultNoticeSeconds
	cfg.RequestTimeout = DefaultRequestTimeout
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Default returns the configuration with nothing but defaults applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// NoticeDuration is how long a notification stays on screen.
func (c *Config) NoticeDuration() time.Duration {
	return time.Duration(c.NoticeSeconds) * time.Second
}

// Timeout is the parsed request timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}
	return d
}

func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.CredentialsFile = expandPath(cfg.CredentialsFile)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")

	switch strings.ToLower(cfg.Theme) {
	case "classic", "neon", "mono":
		cfg.Theme = strings.ToLower(cfg.Theme)
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", cfg.Theme)
	}
	if cfg.NoticeSeconds <= 0 {
		cfg.NoticeSeconds = DefaultNoticeSeconds
	}
	if d, err := time.ParseDuration(cfg.RequestTimeout); err != nil || d < 0 {
		return fmt.Errorf("invalid request_timeout %q", cfg.RequestTimeout)
	}
	if cfg.APIURL == "" {
		return fmt.Errorf("api_url is empty")
	}
	return nil
}

// appHome is the per-user state directory.
func appHome() string {
	if v := os.Getenv(envHome); v != "" {
		return expandPath(v)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, appDirName)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
