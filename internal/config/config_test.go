package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StorageDriver)
	assert.Equal(t, "0 20 * * *", cfg.SummaryCron)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.Development())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"APP_ENV":                     "production",
		"STORAGE_DRIVER":              "Postgres",
		"DATABASE_URL":                "postgres://kls@localhost/kls",
		"CORS_ORIGINS":                "https://a.example, https://b.example,",
		"SUMMARY_CRON":                "off",
		"SNAPSHOT_COMPRESS_THRESHOLD": "0",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.Development())
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.SummaryCron)
	assert.Zero(t, cfg.CompressThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_BadThreshold(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{"SNAPSHOT_COMPRESS_THRESHOLD": "ten"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"postgres without url", map[string]string{"STORAGE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"mongo without url", map[string]string{"STORAGE_DRIVER": "mongo"}, "MONGO_URL"},
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "unknown STORAGE_DRIVER"},
		{"bad cron", map[string]string{"SUMMARY_CRON": "every evening"}, "SUMMARY_CRON"},
		{"negative threshold", map[string]string{"SNAPSHOT_COMPRESS_THRESHOLD": "-1"}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FromEnv(envOf(tt.env))
			require.NoError(t, err)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
