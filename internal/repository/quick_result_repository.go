package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/model"
)

// QuickResultRepository stores legacy three-subject results.
type QuickResultRepository struct {
	pool *pgxpool.Pool
}

// NewQuickResultRepository creates a new QuickResultRepository.
func NewQuickResultRepository(pool *pgxpool.Pool) *QuickResultRepository {
	return &QuickResultRepository{pool: pool}
}

// Create inserts a quick result.
func (r *QuickResultRepository) Create(ctx context.Context, q *model.QuickResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quick_results (name, subject1, subject2, subject3, total, grade)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		q.Name, q.Subject1, q.Subject2, q.Subject3, q.Total, q.Grade,
	).Scan(&q.ID, &q.CreatedAt)
}

// Search matches an exact ID when term is numeric, otherwise a name substring.
// An empty term returns the most recent results.
func (r *QuickResultRepository) Search(ctx context.Context, term string, limit int) ([]model.QuickResult, error) {
	query := `SELECT id, name, subject1, subject2, subject3, total, grade, created_at FROM quick_results`
	var args []interface{}
	if id, err := strconv.Atoi(term); err == nil {
		query += ` WHERE id = $1`
		args = append(args, id)
	} else if term != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, term)
	}
	args = append(args, limit)
	query += ` ORDER BY id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.QuickResult, error) {
		var q model.QuickResult
		err := row.Scan(&q.ID, &q.Name, &q.Subject1, &q.Subject2, &q.Subject3, &q.Total, &q.Grade, &q.CreatedAt)
		return q, err
	})
}
