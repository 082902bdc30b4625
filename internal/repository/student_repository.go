package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stemsi/resultbook/internal/admission"
	"github.com/stemsi/resultbook/internal/database"
	"github.com/stemsi/resultbook/internal/model"
)

// admissionLockNamespace is the first key of the advisory lock taken while
// assigning admission numbers; the admission year is the second.
const admissionLockNamespace int32 = 0x5245

const studentColumns = `id, admission_year, year_serial, admission_no, name, class_name, created_at`

// StudentFilter narrows a student listing.
type StudentFilter struct {
	ClassName string
	// Query matches a name substring or an exact admission number.
	Query  string
	Limit  int
	Offset int
}

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// serialSource reads the current maximum serial through a pool or a transaction.
type serialSource struct {
	q rowQuerier
}

func (s serialSource) MaxYearSerial(ctx context.Context, admissionYear int) (int, error) {
	var top int
	err := s.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(year_serial), 0) FROM students WHERE admission_year = $1`,
		admissionYear,
	).Scan(&top)
	return top, err
}

// MaxYearSerial returns the highest serial assigned in a year, 0 when none.
func (r *StudentRepository) MaxYearSerial(ctx context.Context, admissionYear int) (int, error) {
	return serialSource{q: r.pool}.MaxYearSerial(ctx, admissionYear)
}

// Register assigns the next admission number for the student's year and
// inserts the student. Registrations for one year are serialized by a
// transaction scoped advisory lock, released on commit or rollback.
func (r *StudentRepository) Register(ctx context.Context, s *model.Student) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`,
			admissionLockNamespace, int32(s.AdmissionYear)); err != nil {
			return fmt.Errorf("lock admission year: %w", err)
		}

		serial, no, err := admission.NewGenerator(serialSource{q: tx}).Next(ctx, s.AdmissionYear)
		if err != nil {
			return err
		}
		s.YearSerial = serial
		s.AdmissionNo = no

		err = tx.QueryRow(ctx,
			`INSERT INTO students (admission_year, year_serial, admission_no, name, class_name)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			s.AdmissionYear, s.YearSerial, s.AdmissionNo, s.Name, s.ClassName,
		).Scan(&s.ID, &s.CreatedAt)
		return mapError(err, ErrDuplicateAdmissionNo)
	})
}

// GetByAdmissionNo retrieves a student by admission number.
func (r *StudentRepository) GetByAdmissionNo(ctx context.Context, admissionNo string) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE admission_no = $1`, admissionNo,
	).Scan(&s.ID, &s.AdmissionYear, &s.YearSerial, &s.AdmissionNo, &s.Name, &s.ClassName, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err, ErrDuplicate)
	}
	return s, nil
}

// List retrieves students with pagination and optional filters.
func (r *StudentRepository) List(ctx context.Context, f StudentFilter) ([]model.Student, int, error) {
	where := ` WHERE 1=1`
	var args []interface{}
	if f.ClassName != "" {
		args = append(args, f.ClassName)
		where += ` AND class_name = $` + strconv.Itoa(len(args))
	}
	if f.Query != "" {
		args = append(args, f.Query)
		n := strconv.Itoa(len(args))
		where += ` AND (admission_no = $` + n + ` OR name ILIKE '%' || $` + n + ` || '%')`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + ` FROM students` + where +
		` ORDER BY class_name, name, admission_no LIMIT $` + strconv.Itoa(len(args)+1) +
		` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	students, err := pgx.CollectRows(rows, scanStudent)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Classes returns the distinct class names that have students.
func (r *StudentRepository) Classes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT class_name FROM students ORDER BY class_name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func scanStudent(row pgx.CollectableRow) (model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.AdmissionYear, &s.YearSerial, &s.AdmissionNo, &s.Name, &s.ClassName, &s.CreatedAt)
	return s, err
}
