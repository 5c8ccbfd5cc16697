package entity

import (
	"errors"
	"time"
)

var (
	// ErrUsernameTaken имя уже занято
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidSignup имя или пароль не проходят проверку
	ErrInvalidSignup = errors.New("invalid signup details")
	// ErrInvalidCredentials неверное имя или пароль при входе
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account учётная запись клиента HTTP API. Её ID используется как user_id истории.
type Account struct {
	ID           int64
	Username     string
	PasswordHash []byte // bcrypt
	CreatedAt    time.Time
}
