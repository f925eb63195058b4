package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIURL        string `mapstructure:"api_url" yaml:"api_url"`
	DatasetSource string `mapstructure:"dataset_source" yaml:"dataset_source"`
	ModelType     string `mapstructure:"model_type" yaml:"model_type"`
	// SampleSeed fixes the per-city sample choice; 0 picks randomly on every load.
	SampleSeed     uint64 `mapstructure:"sample_seed" yaml:"sample_seed"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Prediction history
	HistoryEnabled bool   `mapstructure:"history_enabled" yaml:"history_enabled"`
	HistoryPath    string `mapstructure:"history_path" yaml:"history_path"`
}

// Dir returns ~/.aqicast.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".aqicast"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.aqicast/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("AQICAST")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api_url", "http://localhost:5000/api")
	v.SetDefault("dataset_source", "oversampled_cities.csv")
	v.SetDefault("model_type", "")
	v.SetDefault("sample_seed", 0)
	v.SetDefault("http_timeout_sec", 30)
	v.SetDefault("history_enabled", true)
	v.SetDefault("history_path", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve history_path default: ~/.aqicast/history.db
	if c.HistoryPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.HistoryPath = filepath.Join(dir, "history.db")
	}
	return &c, nil
}
