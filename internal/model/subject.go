package model

import "time"

// Subject represents an academic subject that can be attached to exams.
type Subject struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StandardSubjects are seeded on a fresh installation.
var StandardSubjects = []string{
	"English",
	"2l",
	"3l",
	"Maths",
	"Science",
	"Social",
	"EVS",
	"Computer",
	"GK",
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateSubjectRequest is the payload for updating a subject.
type UpdateSubjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}
