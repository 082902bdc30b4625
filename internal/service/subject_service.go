package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrSubjectExists   = errors.New("subject already exists")
	ErrSubjectInUse    = errors.New("subject is configured for an exam")
)

type SubjectStore interface {
	Create(ctx context.Context, s *model.Subject) error
	EnsureNames(ctx context.Context, names []string) (int, error)
	GetAll(ctx context.Context) ([]model.Subject, error)
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id int) error
}

type SubjectService struct {
	store SubjectStore
	log   zerolog.Logger
}

func NewSubjectService(store SubjectStore, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		store: store,
		log:   log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) GetAll(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.store.GetAll(ctx)
	if subjects == nil && err == nil {
		subjects = []model.Subject{}
	}
	return subjects, err
}

func (s *SubjectService) Create(ctx context.Context, sub *model.Subject) error {
	return subjectError(s.store.Create(ctx, sub))
}

func (s *SubjectService) Update(ctx context.Context, sub *model.Subject) error {
	return subjectError(s.store.Update(ctx, sub))
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	return subjectError(s.store.Delete(ctx, id))
}

// SeedStandard inserts the standard subject list, skipping existing names.
func (s *SubjectService) SeedStandard(ctx context.Context) (int, error) {
	added, err := s.store.EnsureNames(ctx, model.StandardSubjects)
	if err != nil {
		return added, err
	}
	s.log.Info().Int("added", added).Msg("standard subjects seeded")
	return added, nil
}

func subjectError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrSubjectNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrSubjectExists
	case errors.Is(err, repository.ErrInUse):
		return ErrSubjectInUse
	}
	return err
}
