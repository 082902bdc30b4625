package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/admission"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
)

var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrInvalidAdmissionYear = errors.New("admission year must be non-negative")
	ErrInvalidClassName     = errors.New("invalid class name")
)

// StudentStore persists students. Register assigns the admission number
// atomically with the insert.
type StudentStore interface {
	admission.SerialSource
	Register(ctx context.Context, s *model.Student) error
	GetByAdmissionNo(ctx context.Context, admissionNo string) (*model.Student, error)
	List(ctx context.Context, f repository.StudentFilter) ([]model.Student, int, error)
	Classes(ctx context.Context) ([]string, error)
}

// RosterNotifier is told after the roster of a class changes.
type RosterNotifier interface {
	RosterChanged(ctx context.Context, className string) error
}

// StudentService handles registration and lookup of students.
type StudentService struct {
	store    StudentStore
	gen      *admission.Generator
	notifier RosterNotifier
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService. notifier may be nil.
func NewStudentService(store StudentStore, notifier RosterNotifier, log zerolog.Logger) *StudentService {
	return &StudentService{
		store:    store,
		gen:      admission.NewGenerator(store),
		notifier: notifier,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// Register validates the request and stores a new student with the next
// admission number for their year.
func (s *StudentService) Register(ctx context.Context, req model.RegisterStudentRequest) (*model.Student, error) {
	if req.AdmissionYear == nil || *req.AdmissionYear < 0 {
		return nil, ErrInvalidAdmissionYear
	}
	if !model.IsValidClassName(req.ClassName) {
		return nil, ErrInvalidClassName
	}

	st := &model.Student{
		Name:          strings.TrimSpace(req.Name),
		AdmissionYear: *req.AdmissionYear,
		ClassName:     req.ClassName,
	}
	if err := s.store.Register(ctx, st); err != nil {
		if errors.Is(err, repository.ErrDuplicateAdmissionNo) {
			s.log.Warn().Int("admission_year", st.AdmissionYear).Msg("admission number conflict")
			return nil, err
		}
		return nil, fmt.Errorf("register student: %w", err)
	}

	s.log.Info().
		Str("admission_no", st.AdmissionNo).
		Str("class_name", st.ClassName).
		Msg("student registered")

	if s.notifier != nil {
		if err := s.notifier.RosterChanged(ctx, st.ClassName); err != nil {
			s.log.Warn().Err(err).Msg("roster update not announced")
		}
	}
	return st, nil
}

// PreviewNext returns the admission number the next registration for year
// would receive if nothing else registers first.
func (s *StudentService) PreviewNext(ctx context.Context, year int) (*model.NextAdmissionNumber, error) {
	if year < 0 {
		return nil, ErrInvalidAdmissionYear
	}
	serial, no, err := s.gen.Next(ctx, year)
	if err != nil {
		return nil, err
	}
	return &model.NextAdmissionNumber{AdmissionYear: year, YearSerial: serial, AdmissionNo: no}, nil
}

// Get returns a student by admission number.
func (s *StudentService) Get(ctx context.Context, admissionNo string) (*model.Student, error) {
	st, err := s.store.GetByAdmissionNo(ctx, admissionNo)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStudentNotFound
	}
	return st, err
}

// List returns a page of students and the total match count.
func (s *StudentService) List(ctx context.Context, className, query string, page, perPage int) ([]model.Student, int, error) {
	students, total, err := s.store.List(ctx, repository.StudentFilter{
		ClassName: className,
		Query:     strings.TrimSpace(query),
		Limit:     perPage,
		Offset:    (page - 1) * perPage,
	})
	if err != nil {
		return nil, 0, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, total, nil
}

// Classes returns the class names that have registered students.
func (s *StudentService) Classes(ctx context.Context) ([]string, error) {
	return s.store.Classes(ctx)
}
