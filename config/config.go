package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the report generator
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Report    ReportConfig    `mapstructure:"report"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"` // per upstream call
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains LLM backend configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai or azure
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Deployment  string        `mapstructure:"deployment"`  // azure deployment name
	APIVersion  string        `mapstructure:"api_version"` // azure api version
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Provider) == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if l.Provider == "azure" && strings.TrimSpace(l.Deployment) == "" {
		return fmt.Errorf("llm.deployment is required for the azure provider")
	}
	return nil
}

// SearchConfig contains web search backend configuration
type SearchConfig struct {
	Provider   string        `mapstructure:"provider"` // bing, serper or brave
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"` // bing search url override
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (s SearchConfig) Validate() error {
	if strings.TrimSpace(s.Provider) == "" {
		return fmt.Errorf("search.provider is required")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return fmt.Errorf("search.api_key is required")
	}
	return nil
}

// ReportConfig controls pipeline behaviour
type ReportConfig struct {
	// SectionWorkers bounds parallel section research. 1 means strictly
	// sequential processing.
	SectionWorkers int `mapstructure:"section_workers"`
	// ContinueOnError keeps researching remaining sections when one fails,
	// marking the failed section instead of aborting the stage.
	ContinueOnError bool `mapstructure:"continue_on_error"`
	// SummaryTemperature is the sampling temperature for summarization and
	// final compilation calls.
	SummaryTemperature float64 `mapstructure:"summary_temperature"`
	// SummaryMaxTokens is the output ceiling for summarization and final
	// compilation calls.
	SummaryMaxTokens int `mapstructure:"summary_max_tokens"`
}

// Normalize applies defaults for unset report values.
func (r ReportConfig) Normalize() ReportConfig {
	if r.SectionWorkers <= 0 {
		r.SectionWorkers = 1
	}
	if r.SummaryTemperature <= 0 {
		r.SummaryTemperature = 0.3
	}
	if r.SummaryMaxTokens <= 0 {
		r.SummaryMaxTokens = 10000
	}
	return r
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	LogFile string `mapstructure:"log_file"`
}

// LoadConfig loads config from file, with REPORTGEN_* env overrides
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.default_timeout", "60s")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.api_version", "2024-06-01")
	v.SetDefault("llm.timeout", "90s")
	v.SetDefault("search.provider", "bing")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.timeout", "15s")
	v.SetDefault("report.section_workers", 1)
	v.SetDefault("report.summary_temperature", 0.3)
	v.SetDefault("report.summary_max_tokens", 10000)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		v.AddConfigPath(exeDir)
		v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("REPORTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// config file is optional when env vars carry the credentials
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Report = cfg.Report.Normalize()

	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
