package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/model"
)

const examColumns = `id, exam_name, exam_type, academic_year, max_marks, created_at`

// ExamRepository handles exams and their per-class subject configuration.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (exam_name, exam_type, academic_year, max_marks)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		e.Name, e.Type, e.AcademicYear, e.MaxMarks,
	).Scan(&e.ID, &e.CreatedAt)
	return mapError(err, ErrDuplicate)
}

// List returns every exam, newest first.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+examColumns+` FROM exams ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanExam)
}

// GetByName retrieves an exam by its unique name.
func (r *ExamRepository) GetByName(ctx context.Context, name string) (*model.Exam, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+examColumns+` FROM exams WHERE exam_name = $1`, name)
	if err != nil {
		return nil, err
	}
	e, err := pgx.CollectExactlyOneRow(rows, scanExam)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return &e, nil
}

// GetByID retrieves an exam by ID.
func (r *ExamRepository) GetByID(ctx context.Context, id int) (*model.Exam, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	e, err := pgx.CollectExactlyOneRow(rows, scanExam)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return &e, nil
}

// Delete removes an exam and its subject configuration. Exams with
// recorded marks cannot be deleted.
func (r *ExamRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return mapError(err, ErrDuplicate)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SubjectsForClass returns the subjects configured for an exam and class.
func (r *ExamRepository) SubjectsForClass(ctx context.Context, examID int, className string) ([]model.ExamSubject, error) {
	return examSubjects(ctx, r.pool, examID, className)
}

// GetExamSubject retrieves one exam subject by ID.
func (r *ExamRepository) GetExamSubject(ctx context.Context, id int) (*model.ExamSubject, error) {
	es := &model.ExamSubject{}
	err := r.pool.QueryRow(ctx,
		`SELECT es.id, es.exam_id, es.class_name, es.subject_id, s.name, es.max_marks
		 FROM exam_subjects es JOIN subjects s ON s.id = es.subject_id
		 WHERE es.id = $1`, id,
	).Scan(&es.ID, &es.ExamID, &es.ClassName, &es.SubjectID, &es.SubjectName, &es.MaxMarks)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return es, nil
}

// ReplaceSubjects makes the given selection the whole configuration of an
// exam for one class. Subjects that already have marks cannot be dropped.
func (r *ExamRepository) ReplaceSubjects(ctx context.Context, examID int, className string, inputs []model.ExamSubjectInput) ([]model.ExamSubject, error) {
	var out []model.ExamSubject
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		keep := make([]int32, 0, len(inputs))
		for _, in := range inputs {
			keep = append(keep, int32(in.SubjectID))
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM exam_subjects
			 WHERE exam_id = $1 AND class_name = $2 AND NOT (subject_id = ANY($3))`,
			examID, className, keep); err != nil {
			return mapError(err, ErrDuplicate)
		}

		for _, in := range inputs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO exam_subjects (exam_id, class_name, subject_id, max_marks)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (exam_id, class_name, subject_id) DO UPDATE SET max_marks = EXCLUDED.max_marks`,
				examID, className, in.SubjectID, in.MaxMarks); err != nil {
				// A foreign key failure here means the subject does not exist.
				if err = mapError(err, ErrDuplicate); errors.Is(err, ErrInUse) {
					return ErrNotFound
				}
				return err
			}
		}

		var err error
		out, err = examSubjects(ctx, tx, examID, className)
		return err
	})
	return out, err
}

type rowsQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func examSubjects(ctx context.Context, q rowsQuerier, examID int, className string) ([]model.ExamSubject, error) {
	rows, err := q.Query(ctx,
		`SELECT es.id, es.exam_id, es.class_name, es.subject_id, s.name, es.max_marks
		 FROM exam_subjects es JOIN subjects s ON s.id = es.subject_id
		 WHERE es.exam_id = $1 AND es.class_name = $2
		 ORDER BY es.id`, examID, className)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ExamSubject, error) {
		var es model.ExamSubject
		err := row.Scan(&es.ID, &es.ExamID, &es.ClassName, &es.SubjectID, &es.SubjectName, &es.MaxMarks)
		return es, err
	})
}

func scanExam(row pgx.CollectableRow) (model.Exam, error) {
	var e model.Exam
	err := row.Scan(&e.ID, &e.Name, &e.Type, &e.AcademicYear, &e.MaxMarks, &e.CreatedAt)
	return e, err
}
