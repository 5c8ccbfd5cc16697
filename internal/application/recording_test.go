package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"age-api/internal/domain/entity"
	"age-api/internal/infrastructure/storage"
)

type stubPredictor struct {
	result entity.PredictionResult
	calls  int
}

func (p *stubPredictor) PredictFromBytes(ctx context.Context, data []byte) entity.PredictionResult {
	p.calls++
	return p.result
}

type stubImageStore struct {
	path string
	err  error
}

func (s *stubImageStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	return s.path, s.err
}

type failingRepo struct{}

func (failingRepo) Save(ctx context.Context, record *entity.PredictionRecord) error {
	return errors.New("database is down")
}

func (failingRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error) {
	return nil, errors.New("database is down")
}

type mapCache struct {
	mu   sync.Mutex
	data map[string]entity.PredictionResult
}

func (c *mapCache) Get(ctx context.Context, key string) (*entity.PredictionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res, ok := c.data[key]; ok {
		return &res, nil
	}
	return nil, nil
}

func (c *mapCache) Set(ctx context.Context, key string, result entity.PredictionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = result
	return nil
}

var okResult = entity.PredictionResult{
	Success:      true,
	PredictedAge: 31.5,
	Confidence:   0.73,
	FaceBox:      entity.FaceBox{X: 1, Y: 2, Width: 80, Height: 80},
}

func TestRecordingService_RecordsSuccessfulPrediction(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	svc := NewRecordingService(&stubPredictor{result: okResult}, &stubImageStore{path: "data/uploads/a.jpg"}, repo, nil, time.Second)
	ctx := context.Background()

	res, path := svc.PredictAndRecord(ctx, 7, "face.jpg", []byte("img"))
	require.Equal(t, okResult, res)
	require.Equal(t, "data/uploads/a.jpg", path)

	history, err := svc.History(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 31.5, history[0].PredictedAge)
	require.Equal(t, 0.73, history[0].Confidence)
	require.Equal(t, "data/uploads/a.jpg", history[0].ImagePath)
}

func TestRecordingService_PersistenceFailureKeepsResult(t *testing.T) {
	svc := NewRecordingService(&stubPredictor{result: okResult}, &stubImageStore{err: errors.New("disk full")}, failingRepo{}, nil, time.Second)

	res, path := svc.PredictAndRecord(context.Background(), 7, "face.jpg", []byte("img"))
	require.True(t, res.Success)
	require.Equal(t, okResult, res)
	require.Equal(t, entity.UnsavedImagePath, path)
}

func TestRecordingService_FailedPredictionNotRecorded(t *testing.T) {
	repo := storage.NewMemoryPredictionRepository()
	failed := entity.Failed(entity.NewNoFaceError())
	svc := NewRecordingService(&stubPredictor{result: failed}, &stubImageStore{path: "x"}, repo, nil, time.Second)

	res, path := svc.PredictAndRecord(context.Background(), 7, "face.jpg", []byte("img"))
	require.False(t, res.Success)
	require.Empty(t, path)

	history, err := svc.History(context.Background(), 7, 10)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRecordingService_UsesCache(t *testing.T) {
	pred := &stubPredictor{result: okResult}
	cache := &mapCache{data: map[string]entity.PredictionResult{}}
	svc := NewRecordingService(pred, &stubImageStore{path: "p"}, storage.NewMemoryPredictionRepository(), cache, time.Second)
	ctx := context.Background()

	first, _ := svc.PredictAndRecord(ctx, 1, "a.jpg", []byte("same bytes"))
	second, _ := svc.PredictAndRecord(ctx, 1, "b.jpg", []byte("same bytes"))
	require.Equal(t, first, second)
	require.Equal(t, 1, pred.calls)

	_, _ = svc.PredictAndRecord(ctx, 1, "c.jpg", []byte("other bytes"))
	require.Equal(t, 2, pred.calls)
}

func TestImageKey(t *testing.T) {
	require.Equal(t, imageKey([]byte("a")), imageKey([]byte("a")))
	require.NotEqual(t, imageKey([]byte("a")), imageKey([]byte("b")))
	require.Len(t, imageKey(nil), 64)
}
