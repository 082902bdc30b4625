package model

import (
	"time"

	"github.com/stemsi/resultbook/internal/grading"
)

// QuickResult is a free-form three-subject result that is not tied to a
// registered student.
type QuickResult struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Subject1  int           `json:"subject1"`
	Subject2  int           `json:"subject2"`
	Subject3  int           `json:"subject3"`
	Total     int           `json:"total"`
	Grade     grading.Grade `json:"grade"`
	CreatedAt time.Time     `json:"created_at"`
}

// CreateQuickResultRequest is the payload for entering a quick result.
type CreateQuickResultRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Subject1 *int   `json:"subject1" binding:"required,min=0,max=100"`
	Subject2 *int   `json:"subject2" binding:"required,min=0,max=100"`
	Subject3 *int   `json:"subject3" binding:"required,min=0,max=100"`
}
