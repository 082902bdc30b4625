package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/grading"
	"github.com/stemsi/resultbook/internal/model"
)

var ErrInvalidSetting = errors.New("invalid setting")

type SettingStore interface {
	GetAll(ctx context.Context) ([]model.AppSetting, error)
	UpsertMany(ctx context.Context, settings map[string]string) error
}

// SettingService resolves report settings: stored rows override the
// environment defaults.
type SettingService struct {
	store    SettingStore
	defaults model.ReportSettings
	log      zerolog.Logger
}

func NewSettingService(store SettingStore, cfg *config.Config, log zerolog.Logger) *SettingService {
	s := &SettingService{
		store: store,
		log:   log.With().Str("component", "setting_service").Logger(),
	}

	policy, err := grading.ParsePolicy(cfg.GradingPolicy)
	if err != nil {
		s.log.Warn().Err(err).Msg("falling back to percentage grading")
		policy = grading.PolicyPercentage
	}
	mode, err := model.ParseTotalMaxMode(cfg.ReportTotalMaxMode)
	if err != nil {
		s.log.Warn().Err(err).Msg("falling back to mark driven totals")
		mode = model.TotalMaxMarkDriven
	}
	s.defaults = model.ReportSettings{GradingPolicy: policy, TotalMaxMode: mode}
	return s
}

// GetAll returns the effective settings as a key/value map.
func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	rs, err := s.ReportSettings(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		model.SettingGradingPolicy:      string(rs.GradingPolicy),
		model.SettingReportTotalMaxMode: string(rs.TotalMaxMode),
	}, nil
}

// Update validates and stores settings. Unknown keys or values reject the
// whole update.
func (s *SettingService) Update(ctx context.Context, settings map[string]string) error {
	for key, value := range settings {
		if err := validateSetting(key, value); err != nil {
			return err
		}
	}
	if err := s.store.UpsertMany(ctx, settings); err != nil {
		s.log.Error().Err(err).Msg("failed to update settings")
		return err
	}
	s.log.Info().Interface("settings", settings).Msg("settings updated")
	return nil
}

// ReportSettings returns the grading policy and total max mode in effect.
func (s *SettingService) ReportSettings(ctx context.Context) (model.ReportSettings, error) {
	rs := s.defaults

	stored, err := s.store.GetAll(ctx)
	if err != nil {
		return rs, fmt.Errorf("get settings: %w", err)
	}
	for _, st := range stored {
		switch st.Key {
		case model.SettingGradingPolicy:
			if p, err := grading.ParsePolicy(st.Value); err == nil {
				rs.GradingPolicy = p
			}
		case model.SettingReportTotalMaxMode:
			if m, err := model.ParseTotalMaxMode(st.Value); err == nil {
				rs.TotalMaxMode = m
			}
		}
	}
	return rs, nil
}

func validateSetting(key, value string) error {
	var err error
	switch key {
	case model.SettingGradingPolicy:
		_, err = grading.ParsePolicy(value)
	case model.SettingReportTotalMaxMode:
		_, err = model.ParseTotalMaxMode(value)
	default:
		err = fmt.Errorf("unknown key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return nil
}
