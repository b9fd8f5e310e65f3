package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims scoping a token to one session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// StaffClaims identify a support-staff member reviewing escalations
type StaffClaims struct {
	StaffID string `json:"staffId"`
	jwt.RegisteredClaims
}

// StartSessionResponse is returned when a session is created
type StartSessionResponse struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	Status    SessionStatus `json:"status"`
}

// LoginRequest is the staff login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the staff token
type LoginResponse struct {
	Token   string `json:"token"`
	StaffID string `json:"staffId"`
}
