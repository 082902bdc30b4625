package model

import "time"

// Mark is one recorded score of a student for an exam subject. The same
// student and exam subject may be recorded more than once.
type Mark struct {
	ID            int       `json:"id"`
	AdmissionNo   string    `json:"admission_no"`
	ExamSubjectID int       `json:"exam_subject_id"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarkDetail is a mark joined with its subject configuration.
type MarkDetail struct {
	Mark
	ExamName    string `json:"exam_name"`
	SubjectName string `json:"subject_name"`
	MaxMarks    int    `json:"max_marks"`
}

// ScoreInput is one subject score in a marks entry request.
type ScoreInput struct {
	ExamSubjectID int  `json:"exam_subject_id" binding:"required,min=1"`
	Score         *int `json:"score" binding:"required,min=0"`
}

// RecordMarksRequest is the payload for entering a student's marks.
type RecordMarksRequest struct {
	AdmissionNo string       `json:"admission_no" binding:"required,max=20"`
	ExamName    string       `json:"exam_name" binding:"required,max=50"`
	Scores      []ScoreInput `json:"scores" binding:"required,min=1,dive"`
}
