package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
)

var (
	ErrExportNotFound = errors.New("export job not found")
	ErrExportNotReady = errors.New("export job not finished")
	ErrNoData         = errors.New("report has no data")
)

// ExportJobStore keeps export job state and the queue the worker drains.
type ExportJobStore interface {
	Save(ctx context.Context, job *model.ExportJob) error
	Get(ctx context.Context, id string) (*model.ExportJob, error)
	Enqueue(ctx context.Context, id string) error
}

// ReportBuilder builds a class report.
type ReportBuilder interface {
	Build(ctx context.Context, q model.ReportQuery) (*model.Report, error)
}

// ExportService queues report exports and renders them to EXPORT_DIR.
type ExportService struct {
	jobs    ExportJobStore
	reports ReportBuilder
	exams   ExamLookup
	dir     string
	now     func() time.Time
	log     zerolog.Logger
}

// NewExportService creates a new ExportService writing workbooks into dir.
func NewExportService(jobs ExportJobStore, reports ReportBuilder, exams ExamLookup, dir string, log zerolog.Logger) *ExportService {
	return &ExportService{
		jobs:    jobs,
		reports: reports,
		exams:   exams,
		dir:     dir,
		now:     time.Now,
		log:     log.With().Str("component", "export_service").Logger(),
	}
}

// Enqueue records a new export job and hands it to the worker queue.
func (s *ExportService) Enqueue(ctx context.Context, q model.ReportQuery) (*model.ExportJob, error) {
	if _, err := s.exams.GetByName(ctx, q.ExamName); err != nil {
		return nil, err
	}
	job := &model.ExportJob{
		ID:        uuid.New().String(),
		ClassName: q.ClassName,
		ExamName:  q.ExamName,
		Mode:      q.Mode,
		Status:    model.ExportStatusQueued,
		CreatedAt: s.now().UTC(),
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save export job: %w", err)
	}
	if err := s.jobs.Enqueue(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("enqueue export job: %w", err)
	}
	s.log.Info().Str("job_id", job.ID).Str("exam_name", q.ExamName).Str("class_name", q.ClassName).Msg("export queued")
	return job, nil
}

// Status returns an export job.
func (s *ExportService) Status(ctx context.Context, id string) (*model.ExportJob, error) {
	return s.jobs.Get(ctx, id)
}

// File returns the path of a finished export and its download name.
func (s *ExportService) File(ctx context.Context, id string) (string, string, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	if job.Status != model.ExportStatusDone {
		return "", "", ErrExportNotReady
	}
	return s.path(job.ID), job.FileName, nil
}

// path is where a job's workbook lives on disk. Jobs for the same class and
// exam in the same second share a download name but never a file.
func (s *ExportService) path(jobID string) string {
	return filepath.Join(s.dir, jobID+".xlsx")
}

// Process renders a queued job. Failures are recorded on the job; the
// returned error is only about reading or saving job state.
func (s *ExportService) Process(ctx context.Context, id string) error {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return err
	}
	job.Status = model.ExportStatusRunning
	if err := s.jobs.Save(ctx, job); err != nil {
		return err
	}

	name, runErr := s.render(ctx, job)
	if runErr != nil {
		job.Status = model.ExportStatusFailed
		job.Error = runErr.Error()
		s.log.Warn().Err(runErr).Str("job_id", job.ID).Msg("export failed")
	} else {
		job.Status = model.ExportStatusDone
		job.FileName = name
		s.log.Info().Str("job_id", job.ID).Str("file", name).Msg("export written")
	}
	return s.jobs.Save(ctx, job)
}

func (s *ExportService) render(ctx context.Context, job *model.ExportJob) (string, error) {
	rep, err := s.reports.Build(ctx, model.ReportQuery{
		ClassName: job.ClassName,
		ExamName:  job.ExamName,
		Mode:      job.Mode,
	})
	if err != nil {
		return "", err
	}
	if rep.Empty {
		return "", ErrNoData
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := report.ExportFileName(job.ClassName, job.ExamName, s.now())
	if err := report.SaveWorkbook(s.path(job.ID), rep.Rows); err != nil {
		return "", err
	}
	return name, nil
}
