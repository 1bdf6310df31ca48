package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Service issues and validates the HS256 identity tokens used by both the
// admin and customer route groups.
type Service struct {
	secret    []byte
	expiresIn time.Duration
}

// NewService creates a token Service. expiresInSeconds controls token lifetime.
func NewService(secret string, expiresInSeconds int) *Service {
	return &Service{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresInSeconds) * time.Second,
	}
}

// Generate issues a signed token for the given subject. The role claim gates
// access to the admin vs customer route groups.
func (s *Service) Generate(subjectID, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subjectID,
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(s.expiresIn).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a token string and returns its claims.
func (s *Service) Parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
