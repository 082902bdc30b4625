package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/model"
)

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicate)
}

// EnsureNames inserts any missing subject names and reports how many were added.
func (r *SubjectRepository) EnsureNames(ctx context.Context, names []string) (int, error) {
	batch := &pgx.Batch{}
	for _, n := range names {
		batch.Queue(`INSERT INTO subjects (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, n)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	added := 0
	for range names {
		tag, err := br.Exec()
		if err != nil {
			return added, err
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}

func (r *SubjectRepository) GetAll(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Subject, error) {
		var s model.Subject
		err := row.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
		return s, err
	})
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE subjects SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING created_at, updated_at`,
		s.Name, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
	return mapError(err, ErrDuplicate)
}

func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return mapError(err, ErrDuplicate)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
