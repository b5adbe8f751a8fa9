// Package config loads csvboard settings from a TOML file and CSVBOARD_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/csvboard/internal/ui"
)

const (
	EnvPrefix = "CSVBOARD"
	EnvConfig = "CSVBOARD_CONFIG"
)

// Config holds application configuration.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	UI      UIConfig      `mapstructure:"ui"`
	Todo    TodoConfig    `mapstructure:"todo"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DataConfig lists the CSV sources the admin view loads.
type DataConfig struct {
	Sources  []string      `mapstructure:"sources"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Watch    bool          `mapstructure:"watch"`
	PriceCol string        `mapstructure:"price_column"`
}

// LayoutConfig holds the narrow/wide threshold, in terminal columns.
type LayoutConfig struct {
	Breakpoint int `mapstructure:"breakpoint"`
}

type UIConfig struct {
	Theme     string `mapstructure:"theme"`
	StartPath string `mapstructure:"start_path"`
}

type TodoConfig struct {
	File string `mapstructure:"file"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultDir is where the config file is looked for when no path is given.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "csvboard")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "csvboard")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.sources", []string{"data/items.csv"})
	v.SetDefault("data.timeout", 30*time.Second)
	v.SetDefault("data.watch", true)
	v.SetDefault("data.price_column", "PRICE")
	v.SetDefault("layout.breakpoint", 100)
	v.SetDefault("ui.theme", "classic")
	v.SetDefault("ui.start_path", "/")
	v.SetDefault("todo.file", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", filepath.Join(os.TempDir(), "csvboard.log"))
}

// Load reads configuration. path wins over CSVBOARD_CONFIG, which wins over
// DefaultDir()/config.toml. A missing default file is not an error; a
// missing explicit file is. Env vars override file values, e.g.
// CSVBOARD_DATA_TIMEOUT=5s.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	explicit := path
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	if c.Layout.Breakpoint <= 0 {
		return fmt.Errorf("layout.breakpoint must be positive, got %d", c.Layout.Breakpoint)
	}
	if c.Data.Timeout < 0 {
		return fmt.Errorf("data.timeout must not be negative")
	}
	if !slices.Contains(ui.Themes(), strings.ToLower(c.UI.Theme)) {
		return fmt.Errorf("ui.theme: unknown theme %q (want one of %s)", c.UI.Theme, strings.Join(ui.Themes(), ", "))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

type exampleFile struct {
	Data struct {
		Sources     []string `toml:"sources"`
		Timeout     string   `toml:"timeout"`
		Watch       bool     `toml:"watch"`
		PriceColumn string   `toml:"price_column"`
	} `toml:"data"`
	Layout struct {
		Breakpoint int `toml:"breakpoint"`
	} `toml:"layout"`
	UI struct {
		Theme     string `toml:"theme"`
		StartPath string `toml:"start_path"`
	} `toml:"ui"`
	Todo struct {
		File string `toml:"file"`
	} `toml:"todo"`
	Logging struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logging"`
}

// WriteExample writes c as a TOML config file at path, creating parent
// directories. An existing file is left alone unless force is set.
func WriteExample(path string, c Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}
	var ex exampleFile
	ex.Data.Sources = c.Data.Sources
	ex.Data.Timeout = c.Data.Timeout.String()
	ex.Data.Watch = c.Data.Watch
	ex.Data.PriceColumn = c.Data.PriceCol
	ex.Layout.Breakpoint = c.Layout.Breakpoint
	ex.UI.Theme = c.UI.Theme
	ex.UI.StartPath = c.UI.StartPath
	ex.Todo.File = c.Todo.File
	ex.Logging.Level = c.Logging.Level
	ex.Logging.File = c.Logging.File

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(ex); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
