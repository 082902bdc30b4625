package model

import (
	"time"

	"github.com/stemsi/resultbook/internal/grading"
)

// Setting keys stored in app_settings.
const (
	SettingGradingPolicy      = "grading_policy"
	SettingReportTotalMaxMode = "report_total_max_mode"
)

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required,min=1"`
}

// ReportSettings is the effective configuration used to build reports.
type ReportSettings struct {
	GradingPolicy grading.Policy `json:"grading_policy"`
	TotalMaxMode  TotalMaxMode   `json:"report_total_max_mode"`
}
