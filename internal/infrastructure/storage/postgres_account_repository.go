package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const accountsSchema = `
create table if not exists users (
	id            bigserial primary key,
	username      text not null unique,
	password_hash bytea not null,
	created_at    timestamptz not null default now()
);`

// pgUniqueViolation код ошибки Postgres для нарушения уникальности
const pgUniqueViolation = "23505"

// PostgresAccountRepository учётные записи в таблице users
type PostgresAccountRepository struct{ DB *sql.DB }

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// EnsureSchema создаёт таблицу users, если её нет.
func (r *PostgresAccountRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, accountsSchema)
	return err
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	const q = `
insert into users(username, password_hash)
values ($1,$2)
returning id, created_at`
	err := r.DB.QueryRowContext(ctx, q, account.Username, account.PasswordHash).
		Scan(&account.ID, &account.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return entity.ErrUsernameTaken
	}
	return err
}

func (r *PostgresAccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	const q = `
select id, username, password_hash, created_at
from users
where username = $1`
	var a entity.Account
	err := r.DB.QueryRowContext(ctx, q, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var _ port.AccountRepository = (*PostgresAccountRepository)(nil)
