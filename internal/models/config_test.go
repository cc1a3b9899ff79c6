package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "Asia/Taipei", cfg.Ordering.Timezone)
	assert.Equal(t, 9, cfg.Ordering.CutoffHour)
	assert.Equal(t, "webdiner.orders", cfg.Kafka.OrdersTopic())
	assert.True(t, cfg.Debug.FixedTime.IsZero())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webdiner.yaml")
	content := `
http:
  addr: ":9090"
  cors_origins: "http://a.example, http://b.example"
  request_timeout: 2s
ordering:
  cutoff_hour: 10
kafka:
  enabled: true
  broker_list: "k1:9092, k2:9092"
debug:
  fixed_time: "2024-06-10T08:30:00+08:00"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFrom(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Len(t, cfg.HTTP.CORSOrigins, 2)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 10, cfg.Ordering.CutoffHour)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers())
	assert.Equal(t, time.Date(2024, 6, 10, 0, 30, 0, 0, time.UTC), cfg.Debug.FixedTime.UTC())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("WEBDINER_ORDERING_CUTOFF_HOUR", "11")
	t.Setenv("WEBDINER_LOG_FORMAT", "json")

	cfg, err := LoadConfigFrom(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Ordering.CutoffHour)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestConfigValidate(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New(), "")
	require.NoError(t, err)

	bad := *cfg
	bad.Ordering.CutoffHour = 25
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Export.Destination = "s3"
	assert.Error(t, bad.Validate(), "s3 without bucket")

	bad = *cfg
	bad.Ordering.Timezone = "Nowhere/Special"
	assert.Error(t, bad.Validate())
}
