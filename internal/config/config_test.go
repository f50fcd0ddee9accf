package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.MaxUpgrades)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 10*time.Second, cfg.Delay())
	assert.Equal(t, 30*24*time.Hour, cfg.Cooldown())
	assert.Equal(t, "/config", cfg.DataDir)
	assert.Empty(t, cfg.Instances)
}

func TestLoad_EnvInstanceDiscovery(t *testing.T) {
	t.Setenv("RADARR0_URL", "http://radarr:7878")
	t.Setenv("RADARR0_API_KEY", "key0")
	t.Setenv("RADARR0_NUM_TO_UPGRADE", "5")
	t.Setenv("RADARR1_URL", "http://radarr2:7878")
	t.Setenv("RADARR1_API_KEY", "key1")
	t.Setenv("SONARR0_URL", "http://sonarr:8989")
	t.Setenv("SONARR0_API_KEY", "skey")
	t.Setenv("SONARR0_NUM_TO_UPGRADE", "0")
	// RADARR3 must be ignored: discovery stops at the first gap.
	t.Setenv("RADARR3_URL", "http://orphan:7878")
	t.Setenv("RADARR3_API_KEY", "orphan")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Instances, 3)

	assert.Equal(t, "radarr0", cfg.Instances[0].Key)
	assert.Equal(t, KindRadarr, cfg.Instances[0].Kind)
	assert.Equal(t, "http://radarr:7878", cfg.Instances[0].URL)
	assert.Equal(t, 5, cfg.Instances[0].Limit)

	assert.Equal(t, "radarr1", cfg.Instances[1].Key)
	assert.Equal(t, -1, cfg.Instances[1].Limit, "missing cap should mean unlimited")

	assert.Equal(t, "sonarr0", cfg.Instances[2].Key)
	assert.Equal(t, 0, cfg.Instances[2].Limit, "zero cap kept, not dropped")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAX_UPGRADES", "-1")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("DELAY_BETWEEN_INSTANCES", "0")
	t.Setenv("HISTORY_COOLDOWN_DAYS", "7")
	t.Setenv("DATA_DIR", "/tmp/cf")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, -1, cfg.MaxUpgrades)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Debug)
	assert.Equal(t, time.Duration(0), cfg.Delay())
	assert.Equal(t, 7*24*time.Hour, cfg.Cooldown())
	assert.Equal(t, "/tmp/cf", cfg.DataDir)
}

func TestLoad_MalformedNumbersAreFatal(t *testing.T) {
	t.Setenv("MAX_UPGRADES", "many")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MalformedInstanceCapIsFatal(t *testing.T) {
	t.Setenv("RADARR0_URL", "http://radarr:7878")
	t.Setenv("RADARR0_API_KEY", "key")
	t.Setenv("RADARR0_NUM_TO_UPGRADE", "lots")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MalformedBoolIsFatal(t *testing.T) {
	t.Setenv("DRY_RUN", "maybe")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_NegativeDelayAndCooldownClamped(t *testing.T) {
	t.Setenv("DELAY_BETWEEN_INSTANCES", "-5")
	t.Setenv("HISTORY_COOLDOWN_DAYS", "-1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Delay())
	assert.Equal(t, time.Duration(0), cfg.Cooldown())
}

func TestLoad_TOMLFile(t *testing.T) {
	t.Setenv("CF_TEST_API_KEY", "secret-from-env")

	path := filepath.Join(t.TempDir(), "cf-search.toml")
	content := `
max_upgrades = 3
dry_run = true
history_cooldown_days = 14

[[instance]]
kind = "radarr"
url = "http://radarr:7878"
api_key = "${CF_TEST_API_KEY}"
limit = 2

[[instance]]
kind = "sonarr"
url = "http://sonarr:8989"
api_key = "plain"
limit = -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxUpgrades)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 14, cfg.CooldownDays)

	require.Len(t, cfg.Instances, 2)
	assert.Equal(t, "secret-from-env", cfg.Instances[0].APIKey, "env var should be substituted")
	assert.Equal(t, "radarr0", cfg.Instances[0].Key)
	assert.Equal(t, "sonarr0", cfg.Instances[1].Key)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	t.Setenv("MAX_UPGRADES", "99")

	path := filepath.Join(t.TempDir(), "cf-search.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_upgrades = 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MaxUpgrades)
}

func TestLoad_FileInstanceValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cf-search.toml")
	content := `
[[instance]]
kind = "lidarr"
url = "http://lidarr:8686"
api_key = "key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
