package port

import (
	"context"

	"age-api/internal/domain/entity"
)

// FaceLocator интерфейс детектора лиц
type FaceLocator interface {
	// Locate возвращает найденные лица; пустой список не является ошибкой
	Locate(ctx context.Context, img *entity.Image) ([]entity.FaceBox, error)

	// Close освобождает загруженную модель
	Close() error
}

// FaceHighlighter рисует рамку лица и подпись поверх изображения
type FaceHighlighter interface {
	// Highlight возвращает JPEG с отмеченным лицом
	Highlight(img *entity.Image, box entity.FaceBox, label string) ([]byte, error)
}
