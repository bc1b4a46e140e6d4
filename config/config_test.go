package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LLM_TIMEOUT", "LLM_VISION_MODEL", "NOTIFY_LUNCH_CRON", "PHOTO_BUCKET", "SNS_FCM_ARN", "REKOGNITION_PRECHECK"} {
		t.Setenv(k, "")
	}
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("EMERGENT_LLM_KEY", "legacy-key")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "legacy-key", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o", cfg.LLM.VisionModel)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "30 12 * * *", cfg.Notify.LunchCron)
	assert.False(t, cfg.AWS.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "food")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "foodsnap")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("NOTIFY_ENABLED", "true")
	t.Setenv("PHOTO_BUCKET", "meal-photos")

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "host=db user=food password=secret dbname=foodsnap port=6543 sslmode=disable", cfg.DB.DSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Notify.Enabled)
	assert.True(t, cfg.AWS.Enabled())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"mongo without url", map[string]string{"STORE_DRIVER": "mongo", "MONGO_URL": "", "DB_NAME": "x"}},
		{"postgres without host", map[string]string{"STORE_DRIVER": "postgres", "DB_HOST": "", "DB_USER": "u", "DB_NAME": "x"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "redis"}},
		{"bad timeout", map[string]string{"STORE_DRIVER": "memory", "LLM_TIMEOUT": "soon"}},
		{"bad bool", map[string]string{"STORE_DRIVER": "memory", "NOTIFY_ENABLED": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(zap.NewNop())
			assert.Error(t, err)
		})
	}
}
