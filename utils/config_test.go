package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB", "file:test.db")
	t.Setenv("GIN_PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.GinPort)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigUnknownDriver(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "postgres")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestMongoNeedsNoDSN(t *testing.T) {
	t.Setenv("SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DB", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "fashion_studio", cfg.MongoDB)
}
