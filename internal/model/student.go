package model

import "time"

// Student represents a registered student. A student is immutable once
// registered; the admission number is derived from year and serial.
type Student struct {
	ID            int       `json:"id"`
	AdmissionYear int       `json:"admission_year"`
	YearSerial    int       `json:"year_serial"`
	AdmissionNo   string    `json:"admission_no"`
	Name          string    `json:"name"`
	ClassName     string    `json:"class_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// RegisterStudentRequest is the payload for registering a new student.
type RegisterStudentRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	AdmissionYear *int   `json:"admission_year" binding:"required,min=0,max=9999"`
	ClassName     string `json:"class_name" binding:"required,class_name"`
}

// NextAdmissionNumber is the preview returned before registering.
type NextAdmissionNumber struct {
	AdmissionYear int    `json:"admission_year"`
	YearSerial    int    `json:"year_serial"`
	AdmissionNo   string `json:"admission_no"`
}
