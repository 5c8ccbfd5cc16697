package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	log "github.com/sirupsen/logrus"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// Predictor то, что RecordingService нужно от конвейера
type Predictor interface {
	PredictFromBytes(ctx context.Context, data []byte) entity.PredictionResult
}

// RecordingService оборачивает конвейер кэшем и сохранением истории.
// Сбои хранилищ только логируются и не влияют на ответ.
type RecordingService struct {
	predictor Predictor
	images    port.ImageStore
	records   port.PredictionRepository
	cache     port.ResultCache // может быть nil
	timeout   time.Duration
}

// NewRecordingService создаёт сервис; cache может быть nil.
func NewRecordingService(predictor Predictor, images port.ImageStore, records port.PredictionRepository, cache port.ResultCache, timeout time.Duration) *RecordingService {
	return &RecordingService{
		predictor: predictor,
		images:    images,
		records:   records,
		cache:     cache,
		timeout:   timeout,
	}
}

// PredictAndRecord предсказывает возраст и, при успехе, сохраняет фото и запись.
// Возвращает путь к сохранённому фото, entity.UnsavedImagePath при сбое
// сохранения и пустую строку для неуспешного предсказания.
func (s *RecordingService) PredictAndRecord(ctx context.Context, userID int64, filename string, data []byte) (entity.PredictionResult, string) {
	key := imageKey(data)

	result, cached := s.lookup(ctx, key)
	if !cached {
		result = s.predictor.PredictFromBytes(ctx, data)
	}
	if !result.Success {
		return result, ""
	}
	if !cached {
		s.remember(ctx, key, result)
	}

	return result, s.persist(ctx, userID, filename, data, result)
}

// History возвращает последние предсказания пользователя.
func (s *RecordingService) History(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.records.ListByUser(ctx, userID, limit)
}

func (s *RecordingService) lookup(ctx context.Context, key string) (entity.PredictionResult, bool) {
	if s.cache == nil {
		return entity.PredictionResult{}, false
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.cache.Get(cctx, key)
	if err != nil {
		log.WithError(err).Warn("[Cache] Lookup failed")
		return entity.PredictionResult{}, false
	}
	if res == nil {
		return entity.PredictionResult{}, false
	}
	log.WithField("key", key[:12]).Debug("[Cache] Hit")
	return *res, true
}

func (s *RecordingService) remember(ctx context.Context, key string, result entity.PredictionResult) {
	if s.cache == nil {
		return
	}
	cctx, cancel := s.bounded(ctx)
	defer cancel()

	if err := s.cache.Set(cctx, key, result); err != nil {
		log.WithError(err).Warn("[Cache] Store failed")
	}
}

func (s *RecordingService) persist(ctx context.Context, userID int64, filename string, data []byte, result entity.PredictionResult) string {
	pctx, cancel := s.bounded(ctx)
	defer cancel()

	path, err := s.images.Save(pctx, filename, data)
	if err != nil {
		log.WithError(&entity.PersistenceError{Op: "save image", Err: err}).Error("[Storage] Upload not saved")
		path = entity.UnsavedImagePath
	}

	record := &entity.PredictionRecord{
		UserID:       userID,
		ImagePath:    path,
		PredictedAge: result.PredictedAge,
		Confidence:   result.Confidence,
	}
	if err := s.records.Save(pctx, record); err != nil {
		log.WithError(&entity.PersistenceError{Op: "save prediction", Err: err}).Error("[Storage] Prediction not recorded")
	}
	return path
}

func (s *RecordingService) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func imageKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
