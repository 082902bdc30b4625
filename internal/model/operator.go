package model

import "time"

// Role is the access level of an operator.
type Role string

const (
	// RoleSupervisor has full access.
	RoleSupervisor Role = "supervisor"
	// RoleTeacher enters marks and views reports.
	RoleTeacher Role = "teacher"
	// RoleAccount manages students and subjects and views reports.
	RoleAccount Role = "account"
)

// Operator is a staff member who signs in to record results.
type Operator struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for operator authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token       string   `json:"token"`
	Operator    Operator `json:"operator"`
	Permissions []string `json:"permissions"`
}
