package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"age-api/internal/domain/entity"
)

type Config struct {
	HTTPAddr    string
	GinMode     string
	LogLevel    log.Level
	CORSOrigins []string

	ModelPath      string
	ONNXRuntimeLib string
	CascadePath    string
	Settings       entity.Settings
	MaxUploadBytes int64
	UploadDir      string
	DatabaseURL    string
	RedisAddr      string
	CacheTTL       time.Duration
	PersistTimeout time.Duration
	TelegramToken  string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	var errs []string
	fail := func(key string, err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", key, err))
	}

	cfg := &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000,http://localhost:8000")),
		ModelPath:      getEnv("MODEL_PATH", "./models/best_age_model_opt_224.onnx"),
		ONNXRuntimeLib: os.Getenv("ONNXRUNTIME_LIB"),
		CascadePath:    getEnv("CASCADE_PATH", "./models/haarcascade_frontalface_default.xml"),
		Settings:       entity.DefaultSettings(),
		UploadDir:      getEnv("UPLOAD_DIR", "data/uploads"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	level, err := log.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		fail("LOG_LEVEL", err)
	}
	cfg.LogLevel = level

	if v, err := getFloat("DETECT_SCALE_FACTOR", cfg.Settings.ScaleFactor); err != nil {
		fail("DETECT_SCALE_FACTOR", err)
	} else if v <= 1 {
		fail("DETECT_SCALE_FACTOR", fmt.Errorf("must be greater than 1, got %v", v))
	} else {
		cfg.Settings.ScaleFactor = v
	}

	if v, err := getInt("DETECT_MIN_NEIGHBORS", cfg.Settings.MinNeighbors); err != nil || v < 0 {
		fail("DETECT_MIN_NEIGHBORS", orInvalid(err, v))
	} else {
		cfg.Settings.MinNeighbors = v
	}

	if v, err := getInt("DETECT_MIN_SIZE", cfg.Settings.MinFaceSize); err != nil || v < 1 {
		fail("DETECT_MIN_SIZE", orInvalid(err, v))
	} else {
		cfg.Settings.MinFaceSize = v
	}

	if v, err := getInt("MAX_IMAGE_PIXELS", cfg.Settings.MaxPixels); err != nil || v < 1 {
		fail("MAX_IMAGE_PIXELS", orInvalid(err, v))
	} else {
		cfg.Settings.MaxPixels = v
	}

	if v, err := getInt("MAX_UPLOAD_MB", 10); err != nil || v < 1 {
		fail("MAX_UPLOAD_MB", orInvalid(err, v))
	} else {
		cfg.MaxUploadBytes = int64(v) << 20
	}

	if cfg.CacheTTL, err = getDuration("CACHE_TTL", time.Hour); err != nil {
		fail("CACHE_TTL", err)
	}
	if cfg.PersistTimeout, err = getDuration("PERSIST_TIMEOUT", 2*time.Second); err != nil {
		fail("PERSIST_TIMEOUT", err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func orInvalid(err error, v int) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("out of range: %d", v)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
