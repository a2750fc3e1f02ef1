package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/fortunewheel/wheel-backend/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong admin password or a bad token
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies the admin credential and issues session tokens
type AuthService struct {
	password     string
	passwordHash string
	jwtSecret    []byte
	expiresIn    time.Duration
}

// NewAuthService creates a new AuthService. When no dedicated JWT secret is
// configured, tokens are signed with the admin password.
func NewAuthService(cfg *config.Config) *AuthService {
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = cfg.Admin.Password
	}
	return &AuthService{
		password:     cfg.Admin.Password,
		passwordHash: cfg.Admin.PasswordHash,
		jwtSecret:    []byte(secret),
		expiresIn:    time.Duration(cfg.JWT.ExpiresIn) * time.Second,
	}
}

// Login checks the admin password and returns a signed JWT on success
func (s *AuthService) Login(password string) (string, error) {
	if !s.VerifyPassword(password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyPassword checks a candidate against the configured credential. A
// bcrypt hash takes precedence; otherwise the plain password is compared in
// constant time.
func (s *AuthService) VerifyPassword(candidate string) bool {
	if candidate == "" {
		return false
	}
	if s.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.password), []byte(candidate)) == 1
}

// ValidateToken parses and verifies a session token
func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidCredentials
	}
	return nil
}
