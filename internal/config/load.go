package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// flagValues holds root flags until the files and env have been applied.
type flagValues struct {
	configFile string
	dataDir    string
	apiURL     string
	theme      string
	logLevel   string
	logFile    string
	noColor    bool
	set        map[string]bool
}

// registerFlags binds the root flags to fs.
func registerFlags(fs *flag.FlagSet) *flagValues {
	fv := &flagValues{set: map[string]bool{}}
	fs.StringVar(&fv.configFile, "config", "", "path to a config file (replaces the user config)")
	fs.StringVar(&fv.dataDir, "data-dir", "", "directory holding the todo and profile data")
	fs.StringVar(&fv.apiURL, "api-url", "", "remote API base URL")
	fs.StringVar(&fv.theme, "theme", "", "color theme: classic, neon or mono")
	fs.StringVar(&fv.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.StringVar(&fv.logFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&fv.noColor, "no-color", false, "disable colors")
	return fv
}

// Load resolves configuration:
// 1. Defaults
// 2. User config file (-config, $XDG_CONFIG_HOME/studywithme/config.toml or ~/.studywithme/config.toml)
// 3. Project config file (.studywithme.toml in the current directory)
// 4. Environment variables (STUDYWITHME_*, NO_COLOR)
// 5. Root flags
// The remaining positional arguments are left in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("studywithme", flag.ContinueOnError)
	}
	fv := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { fv.set[f.Name] = true })

	cfg := &Config{}
	setDefaults(cfg)

	userFile := fv.configFile
	if userFile == "" {
		userFile = findUserConfigFile()
	} else if _, err := os.Stat(userFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", userFile, err)
	}
	if userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
		cfg.ConfigFile = userFile
	}

	if projectFile := findProjectConfigFile(); projectFile != "" {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	applyFlags(cfg, fv)

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func findUserConfigFile() string {
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, xdgConfigSubdir, userConfigName))
	}
	candidates = append(candidates, filepath.Join(appHome(), userConfigName))
	return firstExisting(candidates)
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return firstExisting([]string{filepath.Join(wd, projectConfigName)})
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(envPrefix + "CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv(envPrefix + "API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(envPrefix + "THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(envPrefix + "REQUEST_TIMEOUT"); v != "" {
		cfg.RequestTimeout = v
	}
	if v := os.Getenv(envPrefix + "NOTICE_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sNOTICE_SECONDS: %w", envPrefix, err)
		}
		cfg.NoticeSeconds = n
	}
	if _, ok := os.LookupEnv(envNoColorStandard); ok {
		cfg.NoColor = true
	}
	if v := os.Getenv(envPrefix + "NO_COLOR"); v != "" {
		cfg.NoColor = boolFromString(v)
	}
	return nil
}

func applyFlags(cfg *Config, fv *flagValues) {
	if fv.set["data-dir"] {
		cfg.DataDir = fv.dataDir
	}
	if fv.set["api-url"] {
		cfg.APIURL = fv.apiURL
	}
	if fv.set["theme"] {
		cfg.Theme = fv.theme
	}
	if fv.set["log-level"] {
		cfg.LogLevel = fv.logLevel
	}
	if fv.set["log-file"] {
		cfg.LogFile = fv.logFile
	}
	if fv.set["no-color"] {
		cfg.NoColor = fv.noColor
	}
}
