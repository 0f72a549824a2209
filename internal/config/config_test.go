package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const testConfigToml = `
[development]
environment = "development"
host = "localhost"
port = 9000
log_level = "trace"
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "gymstats"
redis_host = "localhost"
redis_port = "6379"
catalog_source = "builtin"
stats_cache_ttl = "30m"
default_weeks = 16
rate_limit_per_min = 120
mcp_enabled = true

[dockerdev]
port = 9001
postgres_host = "postgres"
catalog_source = "file"
catalog_path = "/etc/gymstats/catalog.toml"

[production]
port = 0
catalog_source = "cloud"
default_weeks = -1
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, testConfigToml)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "gymstats", cfg.PostgresDBName)
	assert.Equal(t, CatalogSourceBuiltin, cfg.CatalogSource)
	assert.Equal(t, 30*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 16, cfg.DefaultWeeks)
	assert.True(t, cfg.MCPEnabled)

	cfg, err = Load("ddev", path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "postgres", cfg.PostgresHost)
	assert.Equal(t, "/etc/gymstats/catalog.toml", cfg.CatalogPath)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, testConfigToml)

	_, err := Load("production", path)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Len(t, multierr.Errors(err), 3)

	_, err = Load("staging", path)
	assert.ErrorContains(t, err, "unknown env: staging")

	_, err = Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load("dev", writeConfig(t, "[development\nport = 1"))
	assert.ErrorContains(t, err, "decode config file")
}

func TestToml_Get_MissingSection(t *testing.T) {
	tml := &Toml{Development: &Config{Port: 1}}
	_, err := tml.Get("prod")
	assert.ErrorContains(t, err, "no config section")

	cfg, err := tml.Get("DEVELOPMENT")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Port)
}

func TestConfig_Validate_FileSourceNeedsPath(t *testing.T) {
	err := (&Config{Port: 80, CatalogSource: CatalogSourceFile}).Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "catalog_path is empty")

	assert.NoError(t, (&Config{Port: 80, CatalogSource: CatalogSourceDB}).Validate())
}
