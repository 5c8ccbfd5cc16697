package port

import (
	"context"

	"age-api/internal/domain/entity"
)

// AgeEstimator интерфейс регрессионной модели возраста
type AgeEstimator interface {
	// Estimate выполняет один прямой проход и возвращает нормированный score
	Estimate(ctx context.Context, tensor entity.FaceTensor) (float32, error)

	// Close освобождает сессию модели
	Close() error
}
