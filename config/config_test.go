package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"age-api/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "GIN_MODE", "LOG_LEVEL", "CORS_ORIGINS", "MODEL_PATH", "CASCADE_PATH",
		"DETECT_SCALE_FACTOR", "DETECT_MIN_NEIGHBORS", "DETECT_MIN_SIZE",
		"MAX_UPLOAD_MB", "MAX_IMAGE_PIXELS", "CACHE_TTL", "PERSIST_TIMEOUT", "DATABASE_URL", "REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, log.InfoLevel, cfg.LogLevel)
	require.Equal(t, "debug", cfg.GinMode)
	require.Equal(t, []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"}, cfg.CORSOrigins)
	require.Equal(t, "./models/best_age_model_opt_224.onnx", cfg.ModelPath)
	require.Equal(t, entity.DefaultSettings(), cfg.Settings)
	require.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	require.Equal(t, time.Hour, cfg.CacheTTL)
	require.Equal(t, 2*time.Second, cfg.PersistTimeout)
	require.Empty(t, cfg.DatabaseURL)
	require.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("DETECT_SCALE_FACTOR", "1.1")
	t.Setenv("DETECT_MIN_NEIGHBORS", "3")
	t.Setenv("DETECT_MIN_SIZE", "40")
	t.Setenv("MAX_UPLOAD_MB", "2")
	t.Setenv("MAX_IMAGE_PIXELS", "1000000")
	t.Setenv("CACHE_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, log.DebugLevel, cfg.LogLevel)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	require.Equal(t, 1.1, cfg.Settings.ScaleFactor)
	require.Equal(t, 3, cfg.Settings.MinNeighbors)
	require.Equal(t, 40, cfg.Settings.MinFaceSize)
	require.Equal(t, 224, cfg.Settings.InputSize)
	require.Equal(t, int64(2<<20), cfg.MaxUploadBytes)
	require.Equal(t, 1000000, cfg.Settings.MaxPixels)
	require.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DETECT_SCALE_FACTOR", "1.0")
	t.Setenv("DETECT_MIN_SIZE", "abc")
	t.Setenv("PERSIST_TIMEOUT", "-1s")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "DETECT_SCALE_FACTOR")
	require.Contains(t, err.Error(), "DETECT_MIN_SIZE")
	require.Contains(t, err.Error(), "PERSIST_TIMEOUT")
}
