package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// MemoryPredictionRepository история предсказаний в памяти процесса
type MemoryPredictionRepository struct {
	mu      sync.RWMutex
	nextID  int64
	records []entity.PredictionRecord
}

// NewMemoryPredictionRepository создаёт пустую историю
func NewMemoryPredictionRepository() *MemoryPredictionRepository {
	return &MemoryPredictionRepository{nextID: 1}
}

// Save добавляет запись и проставляет ID и время
func (r *MemoryPredictionRepository) Save(ctx context.Context, record *entity.PredictionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = r.nextID
	r.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.records = append(r.records, *record)

	return nil
}

// ListByUser возвращает до limit последних записей пользователя
func (r *MemoryPredictionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.PredictionRecord, 0)
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ port.PredictionRepository = (*MemoryPredictionRepository)(nil)
