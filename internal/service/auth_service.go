package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"screenbot/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid admin secret")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrLoginDisabled      = errors.New("admin login is disabled")
)

const (
	audienceAdmin = "screen-admin"
	audienceChat  = "screen-chat"
)

// AuthService mints and validates admin API tokens and chat tokens
type AuthService struct {
	secret      []byte
	adminID     int64
	adminSecret string
	chatTTL     time.Duration
}

// NewAuthService creates a new auth service. An empty adminSecret disables admin login.
func NewAuthService(secret string, adminID int64, adminSecret string, chatTTL time.Duration) *AuthService {
	return &AuthService{
		secret:      []byte(secret),
		adminID:     adminID,
		adminSecret: adminSecret,
		chatTTL:     chatTTL,
	}
}

// Login exchanges the admin API secret for a token bound to the configured admin
func (s *AuthService) Login(secret string) (*model.LoginResponse, error) {
	if s.adminSecret == "" {
		return nil, ErrLoginDisabled
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) != 1 {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &model.AdminClaims{
		AdminID: s.adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceAdmin},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(12 * time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, AdminID: s.adminID}, nil
}

// ValidateAdminToken validates an admin JWT and returns claims
func (s *AuthService) ValidateAdminToken(tokenString string) (*model.AdminClaims, error) {
	claims := &model.AdminClaims{}
	if err := s.parse(tokenString, claims, audienceAdmin); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateChatToken creates a token that identifies a chat user on the WebSocket transport
func (s *AuthService) GenerateChatToken(candidate model.Candidate) (string, error) {
	now := time.Now()
	claims := &model.ChatClaims{
		UserID:   candidate.UserID,
		Username: candidate.Username,
		FullName: candidate.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{audienceChat},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.chatTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateChatToken validates a chat JWT and returns claims
func (s *AuthService) ValidateChatToken(tokenString string) (*model.ChatClaims, error) {
	claims := &model.ChatClaims{}
	if err := s.parse(tokenString, claims, audienceChat); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) parse(tokenString string, claims jwt.Claims, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithAudience(audience), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
