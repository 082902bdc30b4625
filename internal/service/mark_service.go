package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
)

var (
	ErrSubjectNotInExam = errors.New("subject is not configured for this exam and class")
	ErrScoreOutOfRange  = errors.New("score out of range")
)

// MarkStore persists marks.
type MarkStore interface {
	InsertMany(ctx context.Context, marks []model.Mark) error
	ListForStudent(ctx context.Context, admissionNo string, examID *int) ([]model.MarkDetail, error)
}

// StudentLookup resolves students by admission number.
type StudentLookup interface {
	Get(ctx context.Context, admissionNo string) (*model.Student, error)
}

// MarkExamLookup resolves exams and their configured subjects.
type MarkExamLookup interface {
	ExamLookup
	ExamSubject(ctx context.Context, id int) (*model.ExamSubject, error)
}

// ReportNotifier is told after a write that changes the report of an exam and class.
type ReportNotifier interface {
	ReportChanged(ctx context.Context, examName, className string) error
}

// MarkService validates and records marks.
type MarkService struct {
	students StudentLookup
	exams    MarkExamLookup
	marks    MarkStore
	notifier ReportNotifier
	log      zerolog.Logger
}

// NewMarkService creates a new MarkService. notifier may be nil.
func NewMarkService(students StudentLookup, exams MarkExamLookup, marks MarkStore, notifier ReportNotifier, log zerolog.Logger) *MarkService {
	return &MarkService{
		students: students,
		exams:    exams,
		marks:    marks,
		notifier: notifier,
		log:      log.With().Str("component", "mark_service").Logger(),
	}
}

// Record validates every score against its exam subject and stores them
// together. Nothing is stored if any score is rejected.
func (s *MarkService) Record(ctx context.Context, req model.RecordMarksRequest) ([]model.Mark, error) {
	st, err := s.students.Get(ctx, req.AdmissionNo)
	if err != nil {
		return nil, err
	}
	exam, err := s.exams.GetByName(ctx, req.ExamName)
	if err != nil {
		return nil, err
	}

	marks := make([]model.Mark, 0, len(req.Scores))
	for _, in := range req.Scores {
		es, err := s.exams.ExamSubject(ctx, in.ExamSubjectID)
		if err != nil {
			return nil, err
		}
		if es.ExamID != exam.ID || es.ClassName != st.ClassName {
			return nil, ErrSubjectNotInExam
		}
		if in.Score == nil || *in.Score < 0 || *in.Score > es.MaxMarks {
			return nil, fmt.Errorf("%w: %s allows 0 to %d", ErrScoreOutOfRange, es.SubjectName, es.MaxMarks)
		}
		marks = append(marks, model.Mark{
			AdmissionNo:   st.AdmissionNo,
			ExamSubjectID: es.ID,
			Score:         *in.Score,
		})
	}

	if err := s.marks.InsertMany(ctx, marks); err != nil {
		return nil, fmt.Errorf("insert marks: %w", err)
	}

	s.log.Info().
		Str("admission_no", st.AdmissionNo).
		Str("exam_name", exam.Name).
		Int("count", len(marks)).
		Msg("marks recorded")

	if s.notifier != nil {
		if err := s.notifier.ReportChanged(ctx, exam.Name, st.ClassName); err != nil {
			s.log.Warn().Err(err).Msg("report update not announced")
		}
	}
	return marks, nil
}

// List returns a student's recorded marks, optionally for one exam.
func (s *MarkService) List(ctx context.Context, admissionNo, examName string) ([]model.MarkDetail, error) {
	if _, err := s.students.Get(ctx, admissionNo); err != nil {
		return nil, err
	}
	var examID *int
	if examName != "" {
		exam, err := s.exams.GetByName(ctx, examName)
		if err != nil {
			return nil, err
		}
		examID = &exam.ID
	}
	marks, err := s.marks.ListForStudent(ctx, admissionNo, examID)
	if marks == nil && err == nil {
		marks = []model.MarkDetail{}
	}
	return marks, err
}
