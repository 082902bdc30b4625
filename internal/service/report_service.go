package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
)

// ExamLookup resolves exams by name.
type ExamLookup interface {
	GetByName(ctx context.Context, name string) (*model.Exam, error)
}

// ReportSource loads the roster, subjects and marks of an exam for a class.
type ReportSource interface {
	LoadInput(ctx context.Context, exam *model.Exam, className string) (report.Input, error)
}

// ReportSettingsProvider returns the grading policy and total max mode in effect.
type ReportSettingsProvider interface {
	ReportSettings(ctx context.Context) (model.ReportSettings, error)
}

// ReportCache stores rendered reports by version.
type ReportCache interface {
	Version(ctx context.Context, examName, className string) (int64, error)
	Get(ctx context.Context, key string) (*model.Report, error)
	Set(ctx context.Context, key string, rep *model.Report) error
}

// ReportService builds ranked class reports.
type ReportService struct {
	exams    ExamLookup
	source   ReportSource
	settings ReportSettingsProvider
	cache    ReportCache
	now      func() time.Time
	log      zerolog.Logger
}

// NewReportService creates a new ReportService. cache may be nil.
func NewReportService(exams ExamLookup, source ReportSource, settings ReportSettingsProvider, cache ReportCache, log zerolog.Logger) *ReportService {
	return &ReportService{
		exams:    exams,
		source:   source,
		settings: settings,
		cache:    cache,
		now:      time.Now,
		log:      log.With().Str("component", "report_service").Logger(),
	}
}

// Build returns the report for an exam and class. An unknown exam is
// ErrExamNotFound; a known exam without data yields an empty report.
func (s *ReportService) Build(ctx context.Context, q model.ReportQuery) (*model.Report, error) {
	exam, err := s.exams.GetByName(ctx, q.ExamName)
	if err != nil {
		return nil, err
	}

	rs, err := s.settings.ReportSettings(ctx)
	if err != nil {
		return nil, err
	}
	mode := rs.TotalMaxMode
	if q.Mode != "" {
		mode = q.Mode
	}

	key := ""
	if s.cache != nil {
		version, err := s.cache.Version(ctx, exam.Name, q.ClassName)
		if err != nil {
			s.log.Warn().Err(err).Msg("report cache version unavailable")
		} else {
			key = config.CacheKey.ReportKey(exam.Name, q.ClassName, string(mode), string(rs.GradingPolicy), version)
			if cached, err := s.cache.Get(ctx, key); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
			} else if cached != nil {
				return cached, nil
			}
		}
	}

	in, err := s.source.LoadInput(ctx, exam, q.ClassName)
	if err != nil {
		return nil, fmt.Errorf("load report input: %w", err)
	}

	agg := report.NewAggregator(rs.GradingPolicy, mode)
	rows := agg.Aggregate(in)
	rep := &model.Report{
		ClassName:   q.ClassName,
		ExamName:    exam.Name,
		Policy:      agg.Policy,
		Mode:        agg.Mode,
		GeneratedAt: s.now().UTC(),
		Empty:       len(rows) == 0,
		Rows:        rows,
	}

	s.log.Debug().
		Str("exam_name", exam.Name).
		Str("class_name", q.ClassName).
		Str("mode", string(mode)).
		Int("rows", len(rows)).
		Msg("report built")

	if key != "" {
		if err := s.cache.Set(ctx, key, rep); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
		}
	}
	return rep, nil
}
