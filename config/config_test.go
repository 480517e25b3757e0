package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSecretKey(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")
		_, err := GetSecretKey()
		assert.Error(t, err)
	})

	t.Run("legacy default rejected", func(t *testing.T) {
		t.Setenv("SECRET_KEY", LegacyDefaultSecret)
		_, err := GetSecretKey()
		assert.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "short-secret")
		_, err := GetSecretKey()
		assert.Error(t, err)
	})

	t.Run("strong secret accepted", func(t *testing.T) {
		strong := strings.Repeat("k", MinSecretLength)
		t.Setenv("SECRET_KEY", strong)
		got, err := GetSecretKey()
		require.NoError(t, err)
		assert.Equal(t, strong, got)
	})
}

func TestGetPort(t *testing.T) {
	t.Setenv("CARPRICE_PORT", "")
	port, err := GetPort()
	require.NoError(t, err)
	assert.Equal(t, 5000, port)

	t.Setenv("CARPRICE_PORT", "8081")
	port, err = GetPort()
	require.NoError(t, err)
	assert.Equal(t, 8081, port)

	t.Setenv("CARPRICE_PORT", "not_int")
	_, err = GetPort()
	assert.Error(t, err)

	t.Setenv("CARPRICE_PORT", "70000")
	_, err = GetPort()
	assert.Error(t, err)
}

func TestGetSessionMaxAge(t *testing.T) {
	t.Setenv("SESSION_MAX_AGE_MINUTES", "")
	minutes, err := GetSessionMaxAge()
	require.NoError(t, err)
	assert.Equal(t, 60, minutes)

	t.Setenv("SESSION_MAX_AGE_MINUTES", "0")
	_, err = GetSessionMaxAge()
	assert.Error(t, err)
}

func TestGetSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	store, err := GetSessionStore()
	require.NoError(t, err)
	assert.Equal(t, "cookie", store)

	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_URL", "")
	_, err = GetSessionStore()
	assert.Error(t, err, "redis store without REDIS_URL")

	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	store, err = GetSessionStore()
	require.NoError(t, err)
	assert.Equal(t, "redis", store)

	t.Setenv("SESSION_STORE", "memcached")
	_, err = GetSessionStore()
	assert.Error(t, err)
}

func TestGetLoginRateLimit(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "")
	limit, err := GetLoginRateLimit()
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	t.Setenv("LOGIN_RATE_LIMIT", "-1")
	_, err = GetLoginRateLimit()
	assert.Error(t, err)
}

func TestParseDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType DatabaseType
		wantDSN  string
		wantErr  bool
	}{
		{"postgres", "postgres://app:pw@db:5432/carprice?sslmode=disable", DatabaseTypePostgreSQL, "postgres://app:pw@db:5432/carprice?sslmode=disable", false},
		{"postgresql scheme", "postgresql://app@db/carprice", DatabaseTypePostgreSQL, "postgresql://app@db/carprice", false},
		{"sqlite scheme", "sqlite:///tmp/cars.db", DatabaseTypeSQLite, "/tmp/cars.db", false},
		{"bare path", "data/cars.db", DatabaseTypeSQLite, "data/cars.db", false},
		{"mongo unsupported", "mongodb://localhost:27017/cars", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDatabaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cfg.Type)
			if cfg.IsPostgreSQL() {
				assert.Equal(t, tt.wantDSN, cfg.GetDSN())
			} else {
				assert.Equal(t, tt.wantDSN, cfg.SQLite.Path)
				assert.True(t, strings.HasPrefix(cfg.GetDSN(), tt.wantDSN+"?"))
			}
		})
	}
}

func TestGetDatabaseConfigDefault(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CARPRICE_DB_FOLDER", "/var/lib/carprice")

	cfg, err := GetDatabaseConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsSQLite())
	assert.Equal(t, filepath.Join("/var/lib/carprice", GetName()+".db"), cfg.SQLite.Path)
}

func TestGetDatabaseConfigRejectsHostlessPostgres(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres:///carprice")
	_, err := GetDatabaseConfig()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CARPRICE_TEST_FROM_FILE=loaded\n"), 0o600))
	t.Setenv("CARPRICE_TEST_FROM_FILE", "")
	os.Unsetenv("CARPRICE_TEST_FROM_FILE")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("CARPRICE_TEST_FROM_FILE"))

	assert.Error(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestNameAndVersionEmbedded(t *testing.T) {
	assert.Equal(t, "carprice", GetName())
	assert.NotEmpty(t, GetVersion())
}
