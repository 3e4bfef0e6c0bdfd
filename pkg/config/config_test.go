package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", EnvDevelopment)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Days, cfg.Schedule.Days)
	assert.Equal(t, MaxPriority, cfg.Schedule.PriorityMax)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "horariosFIUM2025", cfg.Auth.Audience)
	assert.Equal(t, "horarios_session", cfg.Session.CookieName)
	assert.True(t, cfg.Auth.RequireAudience)
}

func TestLoadScheduleOverrides(t *testing.T) {
	t.Setenv("SCHEDULE_DAYS", "vie, lun")
	t.Setenv("SCHEDULE_PRIORITY_MAX", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"vie", "lun"}, cfg.Schedule.Days)
	assert.Equal(t, MaxPriority, cfg.Schedule.PriorityMax)
}

func TestValidateRejectsUnknownDay(t *testing.T) {
	cfg := &Config{Schedule: ScheduleConfig{Days: []string{"lun", "sab"}}}
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresSecretsInProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction, Auth: AuthConfig{TokenSecret: "portal"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadProductionRejectsDevSecrets(t *testing.T) {
	t.Setenv("ENV", EnvProduction)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_TOKEN_SECRET")

	t.Setenv("AUTH_TOKEN_SECRET", "portal-secret")
	t.Setenv("SESSION_SECRET", devSessionSecret)
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("ADMIN_TOKEN_SECRET", "admin-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "portal-secret", cfg.Auth.TokenSecret)
}

func TestIsValidDay(t *testing.T) {
	assert.True(t, IsValidDay("mie"))
	assert.False(t, IsValidDay("dom"))
}
