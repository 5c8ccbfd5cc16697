package storage

import (
	"context"
	"sync"
	"time"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// MemoryAccountRepository учётные записи в памяти процесса
type MemoryAccountRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byUsername map[string]entity.Account
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{nextID: 1, byUsername: make(map[string]entity.Account)}
}

func (r *MemoryAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[account.Username]; exists {
		return entity.ErrUsernameTaken
	}
	account.ID = r.nextID
	r.nextID++
	account.CreatedAt = time.Now().UTC()
	r.byUsername[account.Username] = *account
	return nil
}

func (r *MemoryAccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

var _ port.AccountRepository = (*MemoryAccountRepository)(nil)
