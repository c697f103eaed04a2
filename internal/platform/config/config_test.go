package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.NotEqual(t, cfg.JWTSecret, cfg.RefreshTokenSecret)
	assert.False(t, cfg.DirectRegistrationEnabled)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRY_DURATION", "5m")
	t.Setenv("REFRESH_TOKEN_EXPIRY_DURATION", "not-a-duration")
	t.Setenv("AUTH_DIRECT_REGISTRATION", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 5*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenExpiryDuration, "invalid durations fall back")
	assert.True(t, cfg.DirectRegistrationEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_ProductionRequiresSecrets(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("IS_PRODUCTION", "true")

	_, err := LoadConfig()
	assert.Error(t, err)

	viper.Reset()
	t.Setenv("JWT_SECRET", "prod-access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "prod-refresh-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
}
