package frontend

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

var ErrBadConfig = errors.New("invalid configuration")

const (
	DriverRaw = "raw"
	DriverTea = "tea"
)

// Config holds application configuration.
type Config struct {
	UI  UIConfig
	Log LogConfig
}

// UIConfig selects the terminal driver and customises keys and colours.
// Keys maps an action name ("page-down") to the keys that trigger it;
// Theme maps a colour name ("accent") to "#rrggbb".
type UIConfig struct {
	Driver string
	Keys   map[string][]string
	Theme  map[string]string
}

type LogConfig struct {
	Path  string
	Level string
}

// LoadConfig reads configuration from file and env. The file is path if
// given, else $EBELT_CONFIG, else ~/.config/ebelt/config.toml when it
// exists. Env var overrides use prefix EBELT_.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("ui.driver", DriverRaw)
	v.SetDefault("log.path", filepath.Join(os.TempDir(), "ebelt.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("EBELT_CONFIG")
	}

	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ebelt"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("EBELT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c *Config) validate() error {
	c.UI.Driver = strings.ToLower(strings.TrimSpace(c.UI.Driver))

	switch c.UI.Driver {
	case DriverRaw, DriverTea:
	default:
		return fmt.Errorf("%w: ui.driver must be %q or %q, got %q", ErrBadConfig, DriverRaw, DriverTea, c.UI.Driver)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrBadConfig, err)
	}

	return nil
}
