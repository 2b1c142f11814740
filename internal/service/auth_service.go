package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"formpulse/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles editor authentication
type AuthService struct {
	editorUsername string
	editorPassword string
	jwtSecret      []byte
}

// NewAuthService creates a new auth service
func NewAuthService(username, password, secret string) *AuthService {
	return &AuthService{
		editorUsername: username,
		editorPassword: password,
		jwtSecret:      []byte(secret),
	}
}

// Login validates credentials and returns an editor token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.editorUsername || password != s.editorPassword {
		return nil, ErrInvalidCredentials
	}

	editorID := "editor_" + uuid.New().String()[:8]

	claims := &model.EditorClaims{
		EditorID: editorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    tokenString,
		EditorID: editorID,
	}, nil
}

// ValidateEditorToken validates an editor JWT and returns claims
func (s *AuthService) ValidateEditorToken(tokenString string) (*model.EditorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.EditorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.EditorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
