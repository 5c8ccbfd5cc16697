package app

import (
	"context"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// UserService ведёт состояние диалога пользователя
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AwaitPhoto переводит пользователя в ожидание фото
func (s *UserService) AwaitPhoto(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

// StartProcessing занимает пользователя под обработку фото; false, если он уже занят
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (bool, error) {
	return s.repo.Claim(ctx, userID, chatID)
}

// Reset возвращает пользователя в исходное состояние
func (s *UserService) Reset(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateIdle)
}
