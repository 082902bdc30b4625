package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
)

var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrExamExists         = errors.New("exam name already exists")
	ErrExamHasMarks       = errors.New("exam or subject has recorded marks")
	ErrNoSubjectsSelected = errors.New("no subjects selected")
	ErrDuplicateSubject   = errors.New("subject selected more than once")
)

// ExamStore persists exams and their per-class subject configuration.
type ExamStore interface {
	Create(ctx context.Context, e *model.Exam) error
	List(ctx context.Context) ([]model.Exam, error)
	GetByName(ctx context.Context, name string) (*model.Exam, error)
	GetByID(ctx context.Context, id int) (*model.Exam, error)
	Delete(ctx context.Context, id int) error
	SubjectsForClass(ctx context.Context, examID int, className string) ([]model.ExamSubject, error)
	GetExamSubject(ctx context.Context, id int) (*model.ExamSubject, error)
	ReplaceSubjects(ctx context.Context, examID int, className string, inputs []model.ExamSubjectInput) ([]model.ExamSubject, error)
}

// ExamService manages exams and which subjects each class sits.
type ExamService struct {
	store    ExamStore
	notifier ReportNotifier
	log      zerolog.Logger
}

// NewExamService creates a new ExamService. notifier may be nil.
func NewExamService(store ExamStore, notifier ReportNotifier, log zerolog.Logger) *ExamService {
	return &ExamService{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "exam_service").Logger(),
	}
}

// Create stores a new exam.
func (s *ExamService) Create(ctx context.Context, req model.CreateExamRequest) (*model.Exam, error) {
	e := &model.Exam{
		Name:         req.Name,
		Type:         req.Type,
		AcademicYear: req.AcademicYear,
		MaxMarks:     req.MaxMarks,
	}
	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrExamExists
		}
		return nil, fmt.Errorf("create exam: %w", err)
	}
	s.log.Info().Str("exam_name", e.Name).Str("academic_year", e.AcademicYear).Msg("exam created")
	return e, nil
}

// List returns all exams.
func (s *ExamService) List(ctx context.Context) ([]model.Exam, error) {
	exams, err := s.store.List(ctx)
	if exams == nil && err == nil {
		exams = []model.Exam{}
	}
	return exams, err
}

// GetByName resolves an exam by its unique name.
func (s *ExamService) GetByName(ctx context.Context, name string) (*model.Exam, error) {
	e, err := s.store.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExamNotFound
	}
	return e, err
}

// GetByID resolves an exam by ID.
func (s *ExamService) GetByID(ctx context.Context, id int) (*model.Exam, error) {
	e, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrExamNotFound
	}
	return e, err
}

// Delete removes an exam that has no recorded marks.
func (s *ExamService) Delete(ctx context.Context, id int) error {
	err := s.store.Delete(ctx, id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrExamNotFound
	case errors.Is(err, repository.ErrInUse):
		return ErrExamHasMarks
	}
	return err
}

// Subjects returns the subject configuration of an exam for a class.
func (s *ExamService) Subjects(ctx context.Context, examID int, className string) ([]model.ExamSubject, error) {
	if _, err := s.GetByID(ctx, examID); err != nil {
		return nil, err
	}
	subjects, err := s.store.SubjectsForClass(ctx, examID, className)
	if subjects == nil && err == nil {
		subjects = []model.ExamSubject{}
	}
	return subjects, err
}

// ConfigureSubjects replaces the subject configuration of an exam for a class.
func (s *ExamService) ConfigureSubjects(ctx context.Context, examID int, req model.ConfigureExamSubjectsRequest) ([]model.ExamSubject, error) {
	if len(req.Subjects) == 0 {
		return nil, ErrNoSubjectsSelected
	}
	seen := make(map[int]bool, len(req.Subjects))
	for _, in := range req.Subjects {
		if seen[in.SubjectID] {
			return nil, ErrDuplicateSubject
		}
		seen[in.SubjectID] = true
	}
	exam, err := s.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.store.ReplaceSubjects(ctx, examID, req.ClassName, req.Subjects)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInUse):
			return nil, ErrExamHasMarks
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("replace exam subjects: %w", err)
	}
	s.log.Info().
		Int("exam_id", examID).
		Str("class_name", req.ClassName).
		Int("subjects", len(subjects)).
		Msg("exam subjects configured")

	if s.notifier != nil {
		if err := s.notifier.ReportChanged(ctx, exam.Name, req.ClassName); err != nil {
			s.log.Warn().Err(err).Msg("report update not announced")
		}
	}
	return subjects, nil
}

// ExamSubject resolves one configured exam subject.
func (s *ExamService) ExamSubject(ctx context.Context, id int) (*model.ExamSubject, error) {
	es, err := s.store.GetExamSubject(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubjectNotInExam
	}
	return es, err
}
