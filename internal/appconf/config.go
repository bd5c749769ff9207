// Package appconf holds the service configuration and its loading rules:
// YAML file first, then SALESDASH_* environment variables, then defaults.
package appconf

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no path is given and the file exists.
const DefaultConfigPath = "salesdash.yaml"

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// EnvFlagToEnvironment maps a flag value to an Environment; unknown values are Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

func (e *Environment) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*e = EnvFlagToEnvironment(s)
	return nil
}

// Config holds all the configuration settings for the Application.
type Config struct {
	Port           int         `yaml:"port"`
	Env            Environment `yaml:"env"`
	SourceRoot     string      `yaml:"source_root"`
	SummaryURL     string      `yaml:"summary_url"`
	DailyURL       string      `yaml:"daily_url"`
	// GoalsPath replaces the built-in goal table. A fallback set in that file wins over
	// FallbackGoal; otherwise FallbackGoal applies.
	GoalsPath      string      `yaml:"goals_path"`
	PrimaryMetric  string      `yaml:"primary_metric"`
	FallbackGoal   float64     `yaml:"fallback_goal"`
	RateLimit      int         `yaml:"rate_limit"`
	ExportDir      string      `yaml:"export_dir"`
	ExportSchedule string      `yaml:"export_schedule"`
	AdminKeys      []string    `yaml:"admin_keys"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:          4000,
		Env:           Development,
		SummaryURL:    "data/april_may_summary.csv",
		DailyURL:      "data/may_daily.csv",
		PrimaryMetric: "Quotes",
		FallbackGoal:  150,
		RateLimit:     100,
		ExportDir:     "./exports",
	}
}

// Load reads path (or DefaultConfigPath when path is empty and the file exists),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.SourceRoot, "SALESDASH_SOURCE_ROOT")
	envOverride(&cfg.SummaryURL, "SALESDASH_SUMMARY_URL")
	envOverride(&cfg.DailyURL, "SALESDASH_DAILY_URL")
	envOverride(&cfg.GoalsPath, "SALESDASH_GOALS_PATH")
	envOverride(&cfg.PrimaryMetric, "SALESDASH_PRIMARY_METRIC")
	envOverride(&cfg.ExportDir, "SALESDASH_EXPORT_DIR")
	envOverride(&cfg.ExportSchedule, "SALESDASH_EXPORT_SCHEDULE")

	if v := os.Getenv("SALESDASH_ENV"); v != "" {
		cfg.Env = EnvFlagToEnvironment(v)
	}
	if err := envOverrideInt(&cfg.Port, "SALESDASH_PORT"); err != nil {
		return err
	}
	if err := envOverrideInt(&cfg.RateLimit, "SALESDASH_RATE_LIMIT"); err != nil {
		return err
	}
	if v := os.Getenv("SALESDASH_FALLBACK_GOAL"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SALESDASH_FALLBACK_GOAL: %w", err)
		}
		cfg.FallbackGoal = f
	}
	if keys := os.Getenv("SALESDASH_ADMIN_KEYS"); keys != "" {
		cfg.AdminKeys = SplitKeys(keys)
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (cfg Config) Validate() error {
	var problems []string
	if cfg.Port <= 0 || cfg.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", cfg.Port))
	}
	if cfg.SummaryURL == "" {
		problems = append(problems, "summary_url is required")
	}
	if cfg.DailyURL == "" {
		problems = append(problems, "daily_url is required")
	}
	if cfg.PrimaryMetric == "" {
		problems = append(problems, "primary_metric is required")
	}
	if !(cfg.FallbackGoal > 0) {
		problems = append(problems, "fallback_goal must be positive")
	}
	if cfg.RateLimit < 0 {
		problems = append(problems, "rate_limit must not be negative")
	}
	if cfg.ExportSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ExportSchedule); err != nil {
			problems = append(problems, fmt.Sprintf("export_schedule: %v", err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SplitKeys splits a comma separated key list, dropping blanks.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
