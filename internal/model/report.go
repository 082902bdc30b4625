package model

import (
	"fmt"
	"time"

	"github.com/stemsi/resultbook/internal/grading"
)

// TotalMaxMode selects how a student's maximum achievable marks are summed.
type TotalMaxMode string

const (
	// TotalMaxMarkDriven sums max marks only for subjects that have a
	// recorded mark; students without marks are left out of the report.
	TotalMaxMarkDriven TotalMaxMode = "mark_driven"

	// TotalMaxSubjectDriven sums max marks of every configured subject
	// for every student on the roster.
	TotalMaxSubjectDriven TotalMaxMode = "subject_driven"
)

// Valid reports whether m is a known mode.
func (m TotalMaxMode) Valid() bool {
	return m == TotalMaxMarkDriven || m == TotalMaxSubjectDriven
}

// ParseTotalMaxMode converts a configuration string into a TotalMaxMode.
func ParseTotalMaxMode(s string) (TotalMaxMode, error) {
	m := TotalMaxMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown total max mode %q", s)
	}
	return m, nil
}

// ReportRow is one student's aggregated result for an exam within a class.
type ReportRow struct {
	Rank            int           `json:"rank"`
	AdmissionNo     string        `json:"admission_no"`
	Name            string        `json:"name"`
	TotalScore      int           `json:"total_score"`
	TotalMax        int           `json:"total_max"`
	Percentage      float64       `json:"percentage"`
	Grade           grading.Grade `json:"grade"`
	MissingSubjects int           `json:"missing_subjects"`
}

// Report is a ranked class report for one exam.
type Report struct {
	ClassName   string         `json:"class_name"`
	ExamName    string         `json:"exam_name"`
	Policy      grading.Policy `json:"policy"`
	Mode        TotalMaxMode   `json:"mode"`
	GeneratedAt time.Time      `json:"generated_at"`
	Empty       bool           `json:"empty"`
	Rows        []ReportRow    `json:"rows"`
}

// ExportStatus is the lifecycle state of a queued report export.
type ExportStatus string

const (
	ExportStatusQueued  ExportStatus = "QUEUED"
	ExportStatusRunning ExportStatus = "RUNNING"
	ExportStatusDone    ExportStatus = "DONE"
	ExportStatusFailed  ExportStatus = "FAILED"
)

// ExportJob tracks a report export handled by the export worker.
type ExportJob struct {
	ID        string       `json:"id"`
	ClassName string       `json:"class_name"`
	ExamName  string       `json:"exam_name"`
	Mode      TotalMaxMode `json:"mode,omitempty"`
	Status    ExportStatus `json:"status"`
	FileName  string       `json:"file_name,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportQuery selects a report. Mode and Policy fall back to settings when empty.
type ReportQuery struct {
	ClassName string       `form:"class_name" json:"class_name" binding:"required,class_name"`
	ExamName  string       `form:"exam_name" json:"exam_name" binding:"required,max=50"`
	Mode      TotalMaxMode `form:"mode" json:"mode" binding:"omitempty,oneof=mark_driven subject_driven"`
}
