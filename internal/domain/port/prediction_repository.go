package port

import (
	"context"

	"age-api/internal/domain/entity"
)

// PredictionRepository история предсказаний
type PredictionRepository interface {
	// Save сохраняет запись и проставляет ей ID и CreatedAt
	Save(ctx context.Context, record *entity.PredictionRecord) error

	// ListByUser возвращает последние записи пользователя, новые первыми
	ListByUser(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error)
}

// ImageStore хранилище загруженных фото
type ImageStore interface {
	// Save записывает фото и возвращает путь к нему
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// ResultCache кэш результатов по хэшу изображения
type ResultCache interface {
	Get(ctx context.Context, key string) (*entity.PredictionResult, error) // nil, nil если записи нет
	Set(ctx context.Context, key string, result entity.PredictionResult) error
}
