package model

import "time"

// ExamType distinguishes periodic tests from terminal exams.
type ExamType string

const (
	ExamTypePeriodicTest ExamType = "PT"
	ExamTypeTerminalExam ExamType = "TE"
)

// Exam represents a named exam within an academic year.
type Exam struct {
	ID           int       `json:"id"`
	Name         string    `json:"exam_name"`
	Type         ExamType  `json:"exam_type"`
	AcademicYear string    `json:"academic_year"`
	MaxMarks     int       `json:"max_marks"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateExamRequest is the payload for creating an exam.
type CreateExamRequest struct {
	Name         string   `json:"exam_name" binding:"required,min=1,max=50"`
	Type         ExamType `json:"exam_type" binding:"required,oneof=PT TE"`
	AcademicYear string   `json:"academic_year" binding:"required,academic_year"`
	MaxMarks     int      `json:"max_marks" binding:"required,min=1,max=10000"`
}

// ExamSubject assigns a subject to an exam for one class, with the
// maximum achievable marks for that pairing.
type ExamSubject struct {
	ID          int    `json:"id"`
	ExamID      int    `json:"exam_id"`
	ClassName   string `json:"class_name"`
	SubjectID   int    `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	MaxMarks    int    `json:"max_marks"`
}

// ExamSubjectInput is one selected subject in a configuration request.
type ExamSubjectInput struct {
	SubjectID int `json:"subject_id" binding:"required,min=1"`
	MaxMarks  int `json:"max_marks" binding:"required,min=1,max=10000"`
}

// ConfigureExamSubjectsRequest replaces the subject configuration of an
// exam for one class.
type ConfigureExamSubjectsRequest struct {
	ClassName string             `json:"class_name" binding:"required,class_name"`
	Subjects  []ExamSubjectInput `json:"subjects" binding:"required,dive"`
}
