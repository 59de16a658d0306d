package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test; t.Setenv restores them.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_RequiresSecretKey(t *testing.T) {
	unsetenv(t, "SECRET_KEY")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	unsetenv(t, "PORT", "DB_DRIVER", "DATABASE_URL", "DB_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "database.db", cfg.Database.URL)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.NotContains(t, cfg.String(), "s3cret")
}

func TestLoad_RejectsEmptySecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SECRET_KEY", "x")
	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDatabase_NoSecretNeeded(t *testing.T) {
	unsetenv(t, "SECRET_KEY", "DB_TIMEOUT")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://localhost/users")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Driver)
	assert.Equal(t, "postgres://localhost/users", cfg.URL)
}
