package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const CONFIG_FILENAME = ".toc-updater.toml"

// settings read from a config file.
// pointer fields are `nil` when not set in the file.
type Config struct {
	Flavor       *string  `toml:"flavor"`
	Beta         *bool    `toml:"beta"`
	PTR          *bool    `toml:"ptr"`
	Exclude      []string `toml:"exclude"`
	Timeout      *string  `toml:"timeout"`
	VersionsFile *string  `toml:"versions_file"`
	UseGitignore *bool    `toml:"use_gitignore"`
}

// the settings a run uses, after defaults, config file and flags have been applied.
type Settings struct {
	Directory    string
	Flavor       Variant
	Beta         bool
	PTR          bool
	Exclude      []string
	Timeout      time.Duration
	VersionsFile string
	UseGitignore bool
}

func default_settings() Settings {
	return Settings{
		Directory:    ".",
		Flavor:       Retail,
		Timeout:      10 * time.Second,
		UseGitignore: true,
	}
}

// reads the config file at `path`.
// when `required` is false a missing file is not an error and an empty config is returned.
func load_config(path string, required bool) (Config, error) {
	cfg := Config{}
	if !path_exists(path) {
		if required {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		slog.Debug("no config file found", "path", path)
		return cfg, nil
	}

	slog.Debug("loading config", "path", path)
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config file '%s': %w", path, err)
	}
	return cfg, nil
}

// the config file used when none is given, ".toc-updater.toml" in the target directory.
func default_config_path(directory string) string {
	return filepath.Join(directory, CONFIG_FILENAME)
}

// overrides `settings` with whatever is set in `cfg`.
// relative paths in `cfg` are relative to the directory of the config file at `cfg_path`.
func apply_config(settings Settings, cfg Config, cfg_path string) (Settings, error) {
	if cfg.Flavor != nil {
		flavor, err := parse_flavor(*cfg.Flavor)
		if err != nil {
			return settings, fmt.Errorf("config 'flavor': %w", err)
		}
		settings.Flavor = flavor
	}
	if cfg.Beta != nil {
		settings.Beta = *cfg.Beta
	}
	if cfg.PTR != nil {
		settings.PTR = *cfg.PTR
	}
	if len(cfg.Exclude) > 0 {
		settings.Exclude = append(settings.Exclude, cfg.Exclude...)
	}
	if cfg.Timeout != nil {
		timeout, err := time.ParseDuration(*cfg.Timeout)
		if err != nil {
			return settings, fmt.Errorf("config 'timeout': %w", err)
		}
		settings.Timeout = timeout
	}
	if cfg.VersionsFile != nil {
		versions_file := *cfg.VersionsFile
		if !filepath.IsAbs(versions_file) {
			versions_file = filepath.Join(filepath.Dir(cfg_path), versions_file)
		}
		settings.VersionsFile = versions_file
	}
	if cfg.UseGitignore != nil {
		settings.UseGitignore = *cfg.UseGitignore
	}
	return settings, nil
}
