package service

import (
	"errors"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues session-scoped tokens and staff tokens
type AuthService struct {
	staffUsername string
	staffPassword string
	jwtSecret     []byte
	sessionTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.AppConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		staffUsername: cfg.StaffUsername,
		staffPassword: cfg.StaffPassword,
		jwtSecret:     []byte(cfg.JWTSecret),
		sessionTTL:    ttl,
	}
}

// Login validates staff credentials and returns a staff token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.staffUsername || password != s.staffPassword {
		return nil, ErrInvalidCredentials
	}

	staffID := "staff_" + uuid.New().String()[:8]
	claims := &model.StaffClaims{
		StaffID: staffID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(12 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   tokenString,
		StaffID: staffID,
	}, nil
}

// ValidateStaffToken validates a staff JWT and returns claims
func (s *AuthService) ValidateStaffToken(tokenString string) (*model.StaffClaims, error) {
	claims := &model.StaffClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.StaffID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSessionToken creates a token scoped to one session
func (s *AuthService) GenerateSessionToken(sessionID string) (string, error) {
	claims := &model.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateSessionToken validates a session JWT and returns claims
func (s *AuthService) ValidateSessionToken(tokenString string) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
