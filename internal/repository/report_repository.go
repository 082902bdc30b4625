package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
)

// ReportRepository loads the data a class report is computed from.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// LoadInput reads the class roster, the exam's subject configuration for
// the class and the marks recorded against it from a single snapshot.
func (r *ReportRepository) LoadInput(ctx context.Context, exam *model.Exam, className string) (report.Input, error) {
	in := report.Input{ClassName: className, ExamName: exam.Name}

	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.pool, opts, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+studentColumns+` FROM students WHERE class_name = $1 ORDER BY admission_no`, className)
		if err != nil {
			return err
		}
		if in.Roster, err = pgx.CollectRows(rows, scanStudent); err != nil {
			return err
		}

		if in.Subjects, err = examSubjects(ctx, tx, exam.ID, className); err != nil {
			return err
		}

		rows, err = tx.Query(ctx,
			`SELECT m.id, m.admission_no, m.exam_subject_id, m.score, m.created_at
			 FROM marks m
			 JOIN exam_subjects es ON es.id = m.exam_subject_id
			 WHERE es.exam_id = $1 AND es.class_name = $2
			 ORDER BY m.id`, exam.ID, className)
		if err != nil {
			return err
		}
		in.Marks, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Mark, error) {
			var m model.Mark
			err := row.Scan(&m.ID, &m.AdmissionNo, &m.ExamSubjectID, &m.Score, &m.CreatedAt)
			return m, err
		})
		return err
	})
	return in, err
}
