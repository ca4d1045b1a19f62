package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, time.Hour, cfg.TokenDuration())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Web.CorsOrigins)
	assert.Equal(t, 365, cfg.OprLog.KeepDays)
}

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "catalogadmin.yml")
	content := `
web:
  port: 8080
  secret: file-secret
  token_ttl: 600
database:
  type: sqlite
  name: catalog.db
logger:
  mode: production
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o600))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "file-secret", cfg.Web.Secret)
	assert.Equal(t, 10*time.Minute, cfg.TokenDuration())
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "catalog.db", cfg.Database.Name)
	assert.Equal(t, "production", cfg.Logger.Mode)
	// untouched sections keep their defaults
	assert.Equal(t, DefaultAppConfig.Admin.Email, cfg.Admin.Email)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web: [unterminated"), 0o600))

	_, err := LoadConfig(cfile)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "4000")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("CATALOG_DB_TYPE", "sqlite")
	t.Setenv("CATALOG_WEB_METRICS", "true")
	t.Setenv("CATALOG_WEB_CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CATALOG_DB_MAX_CONN", "not-a-number")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Web.Port)
	assert.Equal(t, "env-secret", cfg.Web.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.True(t, cfg.Web.Metrics)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Web.CorsOrigins)
	assert.Equal(t, DefaultAppConfig.Database.MaxConn, cfg.Database.MaxConn)
}

func TestLoadConfigPrefixedEnvWins(t *testing.T) {
	t.Setenv("CATALOG_WEB_PORT", "5000")
	t.Setenv("APP_PORT", "4000")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Web.Port)
}

func TestLoadConfigDoesNotMutateDefaults(t *testing.T) {
	t.Setenv("CATALOG_WEB_CORS_ORIGINS", "http://x.example")

	_, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000"}, DefaultAppConfig.Web.CorsOrigins)
}

func TestCheckSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		debug   bool
		weak    bool
		wantErr bool
	}{
		{name: "default secret rejected", secret: DefaultSecret, weak: true, wantErr: true},
		{name: "empty secret rejected", secret: "", weak: true, wantErr: true},
		{name: "sample placeholder rejected", secret: "change-me", weak: true, wantErr: true},
		{name: "default secret allowed in debug", secret: DefaultSecret, debug: true, weak: true},
		{name: "custom secret accepted", secret: "a-real-deployment-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *DefaultAppConfig
			cfg.Web.Secret = tt.secret
			cfg.System.Debug = tt.debug

			assert.Equal(t, tt.weak, cfg.WeakSecret())
			if tt.wantErr {
				assert.Error(t, cfg.CheckSecret())
			} else {
				assert.NoError(t, cfg.CheckSecret())
			}
		})
	}
}

func TestLoadConfigWithoutSecretFailsCheck(t *testing.T) {
	t.Setenv("CATALOG_WEB_SECRET", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CATALOG_SYSTEM_DEBUG", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Error(t, cfg.CheckSecret())

	t.Setenv("JWT_SECRET", "env-secret")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.NoError(t, cfg.CheckSecret())
}
