package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/model"
)

// OperatorRepository handles operator accounts.
type OperatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository creates a new OperatorRepository.
func NewOperatorRepository(pool *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

// GetByUsername retrieves an operator by username.
func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (*model.Operator, error) {
	o := &model.Operator{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM operators WHERE username = $1`, username,
	).Scan(&o.ID, &o.Username, &o.PasswordHash, &o.Role, &o.CreatedAt)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return o, nil
}

// GetByID retrieves an operator by ID.
func (r *OperatorRepository) GetByID(ctx context.Context, id int) (*model.Operator, error) {
	o := &model.Operator{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM operators WHERE id = $1`, id,
	).Scan(&o.ID, &o.Username, &o.PasswordHash, &o.Role, &o.CreatedAt)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return o, nil
}

// Upsert creates an operator or resets the password and role of an existing one.
func (r *OperatorRepository) Upsert(ctx context.Context, o *model.Operator) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO operators (username, password_hash, role) VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
		 RETURNING id, created_at`,
		o.Username, o.PasswordHash, o.Role,
	).Scan(&o.ID, &o.CreatedAt)
}
