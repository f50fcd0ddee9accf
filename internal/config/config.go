// Package config resolves cf-search settings from an optional TOML file
// and the environment. Environment variables always win over file values,
// so the container interface stays a plain set of env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid marks configuration errors that must abort the run before any
// instance is processed.
var ErrInvalid = errors.New("invalid configuration")

// Kind identifies the library manager behind an instance.
type Kind string

const (
	KindRadarr Kind = "radarr"
	KindSonarr Kind = "sonarr"
)

// Instance is one configured library-manager endpoint.
type Instance struct {
	Kind   Kind   `toml:"kind"`
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`

	// Limit caps upgrades per run for this instance.
	// Zero disables selection, negative means unlimited.
	Limit int `toml:"limit"`

	// Key is the stable instance identity ("radarr0", "sonarr1", ...)
	// used for history entries and logging. Assigned during load.
	Key string `toml:"-"`
}

// Config is the resolved, immutable configuration for one run.
type Config struct {
	MaxUpgrades  int        `toml:"max_upgrades"`
	DryRun       bool       `toml:"dry_run"`
	Debug        bool       `toml:"debug"`
	DelaySeconds int        `toml:"delay_between_instances"`
	CooldownDays int        `toml:"history_cooldown_days"`
	DataDir      string     `toml:"data_dir"`
	LogLevel     string     `toml:"log_level"`
	Instances    []Instance `toml:"instance"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		MaxUpgrades:  20,
		DelaySeconds: 10,
		CooldownDays: 30,
		DataDir:      "/config",
		LogLevel:     "info",
	}
}

// Delay is the pacing interval between instances.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Cooldown is the minimum age before an already-searched item may be
// searched again.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownDays) * 24 * time.Hour
}

// Load resolves the configuration: defaults, then the TOML file at path
// (if path is non-empty), then environment variables. Instances declared
// in the environment are appended after file instances.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		content := substituteEnvVars(string(data))
		if _, err := toml.Decode(content, &cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalid, path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match
	})
}

func applyEnv(cfg *Config) error {
	if err := envInt("MAX_UPGRADES", &cfg.MaxUpgrades); err != nil {
		return err
	}
	if err := envBool("DRY_RUN", &cfg.DryRun); err != nil {
		return err
	}
	if err := envBool("DEBUG_MODE", &cfg.Debug); err != nil {
		return err
	}
	if err := envInt("DELAY_BETWEEN_INSTANCES", &cfg.DelaySeconds); err != nil {
		return err
	}
	if err := envInt("HISTORY_COOLDOWN_DAYS", &cfg.CooldownDays); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}

	for _, kind := range []Kind{KindRadarr, KindSonarr} {
		instances, err := discoverInstances(kind)
		if err != nil {
			return err
		}
		cfg.Instances = append(cfg.Instances, instances...)
	}
	return nil
}

// discoverInstances walks RADARR0_*, RADARR1_*, ... until the first index
// missing a URL or API key, matching how the container is configured.
func discoverInstances(kind Kind) ([]Instance, error) {
	var instances []Instance
	for i := 0; ; i++ {
		prefix := strings.ToUpper(string(kind)) + strconv.Itoa(i)
		url, urlOK := os.LookupEnv(prefix + "_URL")
		apiKey, keyOK := os.LookupEnv(prefix + "_API_KEY")
		if !urlOK || !keyOK {
			return instances, nil
		}

		limit := -1 // unset means unlimited
		if v, ok := os.LookupEnv(prefix + "_NUM_TO_UPGRADE"); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s_NUM_TO_UPGRADE=%q is not an integer", ErrInvalid, prefix, v)
			}
			limit = n
		}

		instances = append(instances, Instance{
			Kind:   kind,
			URL:    url,
			APIKey: apiKey,
			Limit:  limit,
		})
	}
}

func envInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, name, v)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalid, name, v)
	}
	*dst = b
	return nil
}

// finalize validates instances, clamps nonsensical values, and assigns
// per-kind ordinal keys.
func finalize(cfg *Config) error {
	if cfg.DelaySeconds < 0 {
		cfg.DelaySeconds = 0
	}
	if cfg.CooldownDays < 0 {
		cfg.CooldownDays = 0
	}

	counts := map[Kind]int{}
	for i := range cfg.Instances {
		inst := &cfg.Instances[i]
		switch inst.Kind {
		case KindRadarr, KindSonarr:
		default:
			return fmt.Errorf("%w: instance %d has unknown kind %q", ErrInvalid, i, inst.Kind)
		}
		if inst.URL == "" {
			return fmt.Errorf("%w: instance %d has no url", ErrInvalid, i)
		}
		if inst.APIKey == "" {
			return fmt.Errorf("%w: instance %d has no api key", ErrInvalid, i)
		}
		inst.Key = string(inst.Kind) + strconv.Itoa(counts[inst.Kind])
		counts[inst.Kind]++
	}
	return nil
}
