package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/grading"
	"github.com/stemsi/resultbook/internal/model"
)

const quickResultSearchLimit = 50

type QuickResultStore interface {
	Create(ctx context.Context, q *model.QuickResult) error
	Search(ctx context.Context, term string, limit int) ([]model.QuickResult, error)
}

// QuickResultService records results under the fixed three-subject scheme,
// always graded on the raw total.
type QuickResultService struct {
	store QuickResultStore
	log   zerolog.Logger
}

func NewQuickResultService(store QuickResultStore, log zerolog.Logger) *QuickResultService {
	return &QuickResultService{
		store: store,
		log:   log.With().Str("component", "quick_result_service").Logger(),
	}
}

func (s *QuickResultService) Create(ctx context.Context, req model.CreateQuickResultRequest) (*model.QuickResult, error) {
	q := &model.QuickResult{
		Name:     strings.TrimSpace(req.Name),
		Subject1: *req.Subject1,
		Subject2: *req.Subject2,
		Subject3: *req.Subject3,
	}
	q.Total = q.Subject1 + q.Subject2 + q.Subject3
	q.Grade = grading.PolicyRawTotal.Grade(float64(q.Total))

	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	s.log.Info().Int("id", q.ID).Int("total", q.Total).Str("grade", string(q.Grade)).Msg("quick result recorded")
	return q, nil
}

func (s *QuickResultService) Search(ctx context.Context, term string) ([]model.QuickResult, error) {
	results, err := s.store.Search(ctx, strings.TrimSpace(term), quickResultSearchLimit)
	if results == nil && err == nil {
		results = []model.QuickResult{}
	}
	return results, err
}
