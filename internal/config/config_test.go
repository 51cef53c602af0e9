package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("shorturl")
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.App.Port)
	assert.Equal(t, "http://localhost:8001", cfg.App.BaseURL)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/shorturl.db", cfg.Storage.SQLitePath)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODO_APP_PORT", "9090")
	t.Setenv("TODO_APP_ENV", "Development")
	t.Setenv("TODO_STORAGE_DRIVER", "postgres")
	t.Setenv("TODO_DB_HOST", "db.internal")
	t.Setenv("TODO_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("todo")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://postgres:@db.internal:5432/todo?sslmode=disable", cfg.DB.DSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_BaseURLTrailingSlash(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHORTURL_APP_BASE_URL", "https://sho.rt/")

	cfg, err := Load("shorturl")
	require.NoError(t, err)
	assert.Equal(t, "https://sho.rt", cfg.App.BaseURL)
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("unknown")
	assert.Error(t, err)

	t.Setenv("SHORTURL_STORAGE_DRIVER", "mongo")
	_, err = Load("shorturl")
	assert.Error(t, err)
}
