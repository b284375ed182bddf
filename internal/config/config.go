// Package config loads the optional starport.yaml or starport.toml project
// file and resolves it against defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/starport/pkg/starport"
)

// File names searched in the project root, in order.
const (
	YAMLFile = "starport.yaml"
	TOMLFile = "starport.toml"
)

// Config represents the optional project configuration file.
type Config struct {
	App     AppConfig        `yaml:"app" toml:"app"`
	Flight  starport.Options `yaml:"flight" toml:"flight"`
	Surface SurfaceConfig    `yaml:"surface" toml:"surface"`
	Debug   DebugConfig      `yaml:"debug" toml:"debug"`
	Log     LogConfig        `yaml:"log" toml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
}

// SurfaceConfig is the logical size of the headless surface.
type SurfaceConfig struct {
	Width  float64 `yaml:"width,omitempty" toml:"width,omitempty" validate:"omitempty,gt=0,lte=10000"`
	Height float64 `yaml:"height,omitempty" toml:"height,omitempty" validate:"omitempty,gt=0,lte=10000"`
}

// DebugConfig controls the debug HTTP server.
type DebugConfig struct {
	Addr string `yaml:"addr,omitempty" toml:"addr,omitempty" validate:"omitempty,hostname_port"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty" toml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	AppName    string
	// Source is the file the configuration was read from, empty when none.
	Source    string
	Flight    starport.Options
	Width     float64
	Height    float64
	DebugAddr string
	LogLevel  zerolog.Level
}

const (
	defaultWidth  = 480
	defaultHeight = 192
)

// LoadOptional reads starport.yaml or starport.toml from dir if present. It
// returns an empty Config and no source when neither exists, and an error
// when both do.
func LoadOptional(dir string) (*Config, string, error) {
	yamlPath := filepath.Join(dir, YAMLFile)
	tomlPath := filepath.Join(dir, TOMLFile)
	yamlData, yamlErr := readOptional(yamlPath)
	tomlData, tomlErr := readOptional(tomlPath)
	if err := errors.Join(yamlErr, tomlErr); err != nil {
		return nil, "", err
	}

	var cfg Config
	switch {
	case yamlData != nil && tomlData != nil:
		return nil, "", fmt.Errorf("both %s and %s exist in %s, keep one", YAMLFile, TOMLFile, dir)
	case yamlData != nil:
		if err := yaml.Unmarshal(yamlData, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", YAMLFile, err)
		}
		return &cfg, yamlPath, nil
	case tomlData != nil:
		if _, err := toml.Decode(string(tomlData), &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", TOMLFile, err)
		}
		return &cfg, tomlPath, nil
	}
	return &cfg, "", nil
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Resolve loads the configuration file in dir (if present), validates it and
// fills in defaults. A go.mod in dir is optional; when present its module
// path names the app by default.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, source, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(source), err)
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	level := zerolog.InfoLevel
	if cfg.Log.Level != "" {
		if level, err = zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	resolved := &Resolved{
		Root:       dir,
		ModulePath: modulePath,
		AppName:    appName,
		Source:     source,
		Flight:     starport.DefaultOptions().Merge(cfg.Flight),
		Width:      cfg.Surface.Width,
		Height:     cfg.Surface.Height,
		DebugAddr:  cfg.Debug.Addr,
		LogLevel:   level,
	}
	if resolved.Width == 0 {
		resolved.Width = defaultWidth
	}
	if resolved.Height == 0 {
		resolved.Height = defaultHeight
	}
	return resolved, nil
}

// Validate checks struct tags, including the flight easing.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := starport.RegisterValidations(v); err != nil {
		return err
	}
	return v.Struct(cfg)
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", err
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modName, _, ok := module.SplitPathVersion(modulePath); ok && modName != "" {
		parts := strings.Split(modName, "/")
		base = parts[len(parts)-1]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "starport-demo"
	}
	return base
}
