package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	Provider struct {
		Endpoint            string `mapstructure:"endpoint"`
		Username            string `mapstructure:"username"`
		AccessKey           string `mapstructure:"access_key"`
		FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds"`
	} `mapstructure:"provider"`

	Specs struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"specs"`

	Runner struct {
		Command    string   `mapstructure:"command"`
		Args       []string `mapstructure:"args"`
		ConfigPath string   `mapstructure:"config_path"`
		EnvVar     string   `mapstructure:"env_var"`
		BuildLabel string   `mapstructure:"build_label"`
		DryRun     bool     `mapstructure:"dry_run"`
	} `mapstructure:"runner"`

	Metrics struct {
		GatewayURL string `mapstructure:"gateway_url"`
		Job        string `mapstructure:"job"`
	} `mapstructure:"metrics"`
}

func Load() Config {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	_ = v.ReadInConfig() // optional; env can fully configure

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("unable to decode config: %w", err))
	}
	validate(&cfg)
	return cfg
}

func validate(c *Config) {
	if c.Provider.Endpoint == "" { c.Provider.Endpoint = "https://api.browserstack.com" }
	if c.Provider.Username == "" { c.Provider.Username = os.Getenv("BROWSERSTACK_USERNAME") }
	if c.Provider.AccessKey == "" { c.Provider.AccessKey = os.Getenv("BROWSERSTACK_ACCESS_KEY") }
	if c.Provider.FetchTimeoutSeconds <= 0 { c.Provider.FetchTimeoutSeconds = 30 }
	if c.Specs.Path == "" { c.Specs.Path = "browsers.json" }
	if c.Runner.EnvVar == "" { c.Runner.EnvVar = "MATRIX_BROWSERS_FILE" }
	if c.Metrics.Job == "" { c.Metrics.Job = "browser-matrix" }
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Provider.FetchTimeoutSeconds) * time.Second
}
