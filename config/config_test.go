package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("PORT", "8000")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("IMAGEKIT_PUBLIC_KEY", "public")
	t.Setenv("IMAGEKIT_PRIVATE_KEY", "private")
	t.Setenv("IMAGEKIT_URLENDPOINT_KEY", "https://ik.imagekit.io/demo")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"DB_NAME", "UPLOAD_TIMEOUT_MS", "REDIS_ADDR", "CORS_ORIGINS", "BCRYPT_COST", "MAX_UPLOAD_MB", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr())
	assert.Equal(t, "foodReels", cfg.DBName)
	assert.Equal(t, 60*time.Second, cfg.UploadTimeout)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, int64(100<<20), cfg.MaxUploadSize)
	assert.False(t, cfg.CookieSecure)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("UPLOAD_TIMEOUT_MS", "1500")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.UploadTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadMissingPort(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"PORT", "JWT_SECRET"}, missing.Keys)
}

func TestLoadRejectsBadNumber(t *testing.T) {
	setRequired(t)
	t.Setenv("UPLOAD_TIMEOUT_MS", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "UPLOAD_TIMEOUT_MS")
}

func TestLoadRejectsBcryptCostOutOfRange(t *testing.T) {
	for _, cost := range []string{"3", "32"} {
		setRequired(t)
		t.Setenv("BCRYPT_COST", cost)

		_, err := Load()
		assert.ErrorContains(t, err, "BCRYPT_COST", cost)
	}
}
