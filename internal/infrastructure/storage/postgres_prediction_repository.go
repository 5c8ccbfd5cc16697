package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const predictionsSchema = `
create table if not exists predictions (
	id            bigserial primary key,
	user_id       bigint not null,
	image_path    text not null,
	predicted_age double precision not null,
	confidence    double precision not null,
	created_at    timestamptz not null default now()
);
create index if not exists predictions_user_created_idx on predictions (user_id, created_at desc);`

// PostgresPredictionRepository история предсказаний в Postgres
type PostgresPredictionRepository struct{ DB *sql.DB }

// OpenPostgres открывает пул через драйвер pgx и проверяет соединение.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresPredictionRepository(db *sql.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{DB: db}
}

// EnsureSchema создаёт таблицу predictions, если её нет.
func (r *PostgresPredictionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, predictionsSchema)
	return err
}

// Save вставляет запись и заполняет ID и CreatedAt из базы.
func (r *PostgresPredictionRepository) Save(ctx context.Context, record *entity.PredictionRecord) error {
	const q = `
insert into predictions(user_id, image_path, predicted_age, confidence)
values ($1,$2,$3,$4)
returning id, created_at`
	return r.DB.QueryRowContext(ctx, q,
		record.UserID, record.ImagePath, record.PredictedAge, record.Confidence,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListByUser достаёт последние записи пользователя.
func (r *PostgresPredictionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error) {
	const q = `
select id, user_id, image_path, predicted_age, confidence, created_at
from predictions
where user_id = $1
order by created_at desc, id desc
limit $2`
	rows, err := r.DB.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.PredictionRecord, 0, limit)
	for rows.Next() {
		var rec entity.PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ImagePath, &rec.PredictedAge, &rec.Confidence, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var _ port.PredictionRepository = (*PostgresPredictionRepository)(nil)
