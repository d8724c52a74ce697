package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("HTTP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	assert.Contains(t, cfg.DB.SQLitePath, "gimnasio.db")
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PASSWORD", "p@ss:word")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestConnectionString_PrefiereURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u@h/db", Host: "otro"}
	assert.Equal(t, "postgres://u@h/db", c.ConnectionString())
}

func TestGetInt_TextoInvalidoUsaDefault(t *testing.T) {
	t.Setenv("HTTP_PORT", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}
