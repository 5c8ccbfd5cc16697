package app

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 6
	maxPasswordLen = 72 // больше bcrypt не учитывает
)

// AuthService регистрация и вход по имени и паролю
type AuthService struct {
	accounts  port.AccountRepository
	cost      int
	dummyHash []byte
}

// NewAuthService создаёт сервис; cost стоимость bcrypt.
func NewAuthService(accounts port.AccountRepository, cost int) (*AuthService, error) {
	// хэш для сравнения, когда пользователя нет: вход по неизвестному
	// имени занимает столько же времени, сколько по известному
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy123"), cost)
	if err != nil {
		return nil, err
	}
	return &AuthService{accounts: accounts, cost: cost, dummyHash: dummy}, nil
}

// Signup создаёт учётную запись. Ошибки: entity.ErrInvalidSignup, entity.ErrUsernameTaken.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*entity.Account, error) {
	username = strings.TrimSpace(username)
	if !validUsername(username) || len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return nil, entity.ErrInvalidSignup
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{Username: username, PasswordHash: hash}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	log.WithField("user_id", account.ID).Info("[Auth] Account created")
	return account, nil
}

// Login проверяет пароль. Неизвестное имя и неверный пароль неотличимы: entity.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*entity.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if account != nil {
		hash = account.PasswordHash
	}
	err = bcrypt.CompareHashAndPassword(hash, []byte(password))
	if account == nil || err != nil {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.WithError(err).Warn("[Auth] Stored hash unusable")
		}
		return nil, entity.ErrInvalidCredentials
	}
	return account, nil
}

func validUsername(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < minUsernameLen || n > maxUsernameLen {
		return false
	}
	return !strings.ContainsAny(name, " \t\r\n")
}
