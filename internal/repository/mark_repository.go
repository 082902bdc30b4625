package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/model"
)

// MarkRepository stores recorded scores.
type MarkRepository struct {
	pool *pgxpool.Pool
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(pool *pgxpool.Pool) *MarkRepository {
	return &MarkRepository{pool: pool}
}

// InsertMany records all marks in one transaction; either every mark is
// stored or none is. IDs and timestamps are filled in place.
func (r *MarkRepository) InsertMany(ctx context.Context, marks []model.Mark) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range marks {
			m := &marks[i]
			err := tx.QueryRow(ctx,
				`INSERT INTO marks (admission_no, exam_subject_id, score)
				 VALUES ($1, $2, $3) RETURNING id, created_at`,
				m.AdmissionNo, m.ExamSubjectID, m.Score,
			).Scan(&m.ID, &m.CreatedAt)
			if err != nil {
				return mapError(err, ErrDuplicate)
			}
		}
		return nil
	})
}

// ListForStudent returns a student's marks, optionally limited to one exam.
func (r *MarkRepository) ListForStudent(ctx context.Context, admissionNo string, examID *int) ([]model.MarkDetail, error) {
	query := `SELECT m.id, m.admission_no, m.exam_subject_id, m.score, m.created_at,
	                 e.exam_name, s.name, es.max_marks
	          FROM marks m
	          JOIN exam_subjects es ON es.id = m.exam_subject_id
	          JOIN exams e ON e.id = es.exam_id
	          JOIN subjects s ON s.id = es.subject_id
	          WHERE m.admission_no = $1`
	args := []interface{}{admissionNo}
	if examID != nil {
		query += ` AND es.exam_id = $2`
		args = append(args, *examID)
	}
	query += ` ORDER BY e.exam_name, s.name, m.created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MarkDetail, error) {
		var d model.MarkDetail
		err := row.Scan(&d.ID, &d.AdmissionNo, &d.ExamSubjectID, &d.Score, &d.CreatedAt,
			&d.ExamName, &d.SubjectName, &d.MaxMarks)
		return d, err
	})
}
