package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig
	UI     UIConfig
	Store  StoreConfig
	Log    LogConfig
}

// ServerConfig points at the chat backend
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// UIConfig holds the terminal UI settings
type UIConfig struct {
	TypingSpeed  time.Duration `mapstructure:"typing_speed"`
	SidebarWidth int           `mapstructure:"sidebar_width"`
}

// StoreConfig holds the preference store settings
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the logger settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://127.0.0.1:5000")
	v.SetDefault("ui.typing_speed", 20*time.Millisecond)
	v.SetDefault("ui.sidebar_width", 32)
	v.SetDefault("store.path", "jarvis-chat.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "jarvis-chat.log")
}

// Load loads the configuration from CONFIG_PATH, or ./config.yaml when it
// exists. Every key can be overridden with a JARVIS_ prefixed variable,
// e.g. JARVIS_SERVER_BASE_URL.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("jarvis")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Server.BaseURL = strings.TrimRight(config.Server.BaseURL, "/")

	return &config, nil
}
