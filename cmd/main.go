package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"age-api/config"
	"age-api/internal/api/httpapi"
	"age-api/internal/api/telegram"
	"age-api/internal/container"
	"age-api/internal/domain/port"
	"age-api/internal/infrastructure/estimator"
	"age-api/internal/infrastructure/storage"
	"age-api/internal/infrastructure/vision"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Модели загружаются один раз; без них сервис не стартует
	locator, err := vision.NewCascadeLocator(cfg.CascadePath, cfg.Settings)
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}
	defer locator.Close()

	ageModel, err := estimator.LoadONNX(cfg.ModelPath, cfg.ONNXRuntimeLib, cfg.Settings.InputSize)
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}
	defer ageModel.Close()
	log.Info("[Startup] Models loaded")

	images, err := storage.NewFileImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}

	deps := container.Deps{
		Locator:        locator,
		Estimator:      ageModel,
		Settings:       cfg.Settings,
		Users:          storage.NewMemoryUserRepository(),
		Images:         images,
		BcryptCost:     bcrypt.DefaultCost,
		PersistTimeout: cfg.PersistTimeout,
	}

	records, accounts, closeStores := openStores(ctx, cfg.DatabaseURL)
	defer closeStores()
	deps.Records = records
	deps.Accounts = accounts

	if cfg.RedisAddr != "" {
		cache := storage.NewRedisResultCache(storage.NewRedisPool(cfg.RedisAddr, 10, cfg.PersistTimeout), cfg.CacheTTL)
		defer cache.Close()

		if err := cache.Ping(ctx); err != nil {
			log.WithError(err).Warn("[Startup] Redis unreachable, result cache disabled")
		} else {
			deps.Cache = cache
			log.Info("[Startup] Result cache in Redis")
		}
	}

	c, err := container.New(deps)
	if err != nil {
		log.Fatalf("[Startup] %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(
			httpapi.NewHandler(c.RecordingService, cfg.MaxUploadBytes),
			httpapi.NewAuthHandler(c.AuthService),
			cfg.CORSOrigins,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("[Startup] Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, c.UserService, c.RecordingService, c.Decoder, locator)
		if err != nil {
			log.WithError(err).Error("[Startup] Telegram bot disabled")
		} else {
			go func() {
				log.Info("[Bot] Bot is running...")
				if err := bot.Run(ctx); err != nil {
					log.WithError(err).Error("[Bot] Bot stopped")
				}
			}()
		}
	}

	<-ctx.Done()
	log.Info("[Shutdown] Stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("[Shutdown] HTTP server shutdown failed")
	}
}

// openStores выбирает хранилище истории и учётных записей: Postgres, если он
// задан и доступен, иначе память. Недоступная база не мешает старту сервиса.
func openStores(ctx context.Context, dsn string) (port.PredictionRepository, port.AccountRepository, func()) {
	memory := func() (port.PredictionRepository, port.AccountRepository, func()) {
		return storage.NewMemoryPredictionRepository(), storage.NewMemoryAccountRepository(), func() {}
	}

	if dsn == "" {
		log.Info("[Startup] DATABASE_URL not set, history and accounts kept in memory")
		return memory()
	}

	db, err := openPostgres(ctx, dsn)
	if err != nil {
		log.WithError(err).Warn("[Startup] Postgres unavailable, history and accounts kept in memory")
		return memory()
	}

	log.Info("[Startup] History and accounts in Postgres")
	return storage.NewPostgresPredictionRepository(db),
		storage.NewPostgresAccountRepository(db),
		func() { _ = db.Close() }
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := storage.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := storage.NewPostgresPredictionRepository(db).EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create predictions schema: %w", err)
	}
	if err := storage.NewPostgresAccountRepository(db).EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create users schema: %w", err)
	}
	return db, nil
}
