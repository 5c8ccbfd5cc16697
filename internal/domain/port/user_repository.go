package port

import (
	"context"

	"age-api/internal/domain/entity"
)

// UserRepository хранит состояние диалога пользователей бота
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error

	// Claim атомарно переводит пользователя в StateProcessing.
	// Возвращает false, если обработка для него уже идёт.
	Claim(ctx context.Context, userID, chatID int64) (bool, error)
}
