package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ConfigName is the config file name without extension.
const ConfigName = ".pods"

// Config carries connection and cache settings.
type Config interface {
	BasePath() string
	Server() string
	APIKey() string
	UserID() int32
	DebugLog() string
}

// Settings is the plain Config implementation.
type Settings struct {
	Cache    string `json:"cache" yaml:"cache" mapstructure:"cache"`
	URL      string `json:"server" yaml:"server" mapstructure:"server"`
	Key      string `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	User     int32  `json:"user_id" yaml:"user_id" mapstructure:"user_id"`
	DebugOut string `json:"debug_log" yaml:"debug_log" mapstructure:"debug_log"`
}

func (s *Settings) BasePath() string { return s.Cache }
func (s *Settings) Server() string   { return s.URL }
func (s *Settings) APIKey() string   { return s.Key }
func (s *Settings) UserID() int32    { return s.User }
func (s *Settings) DebugLog() string { return s.DebugOut }

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("cache", "~/.pods")
	v.SetDefault("server", "http://localhost:8040")
	v.SetDefault("user_id", 1)
	v.SetConfigName(ConfigName) // .yaml is implicit
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PODS")
	v.AutomaticEnv()

	if override := os.Getenv("PODS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// LoadConfig reads .pods.yaml from PODS_CONFIG_PATH, the working directory
// or the home directory. PODS_* environment variables win over the file.
func LoadConfig() (Config, error) {
	v := newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	cache, err := homedir.Expand(v.GetString("cache"))
	if err != nil {
		return nil, fmt.Errorf("store: expand cache path: %w", err)
	}
	user, err := strconv.ParseInt(v.GetString("user_id"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("store: user_id: %w", err)
	}
	return &Settings{
		Cache:    cache,
		URL:      v.GetString("server"),
		Key:      v.GetString("api_key"),
		User:     int32(user),
		DebugOut: v.GetString("debug_log"),
	}, nil
}

// ConfigPath returns where SaveConfig writes when dir is empty: the
// PODS_CONFIG_PATH directory if set, otherwise the home directory.
func ConfigPath(dir string) (string, error) {
	if dir == "" {
		dir = os.Getenv("PODS_CONFIG_PATH")
	}
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("store: home dir: %w", err)
		}
		dir = home
	}
	return filepath.Join(dir, ConfigName+".yaml"), nil
}

// SaveConfig writes s as yaml to path, creating parent directories.
func SaveConfig(path string, s *Settings) error {
	if s == nil {
		return errors.New("store: nil settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store: ensure config dir: %w", err)
	}
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("server", s.URL)
	v.Set("api_key", s.Key)
	v.Set("user_id", s.User)
	if s.Cache != "" {
		v.Set("cache", s.Cache)
	}
	if s.DebugOut != "" {
		v.Set("debug_log", s.DebugOut)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("store: write config: %w", err)
	}
	return nil
}
