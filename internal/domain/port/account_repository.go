package port

import (
	"context"

	"age-api/internal/domain/entity"
)

// AccountRepository хранилище учётных записей
type AccountRepository interface {
	// Create сохраняет запись и проставляет ID и CreatedAt.
	// Возвращает entity.ErrUsernameTaken, если имя занято.
	Create(ctx context.Context, account *entity.Account) error

	// FindByUsername возвращает nil, nil, если такого имени нет
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
}
