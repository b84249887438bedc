package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeAccess is the only token type the API accepts.
const TokenTypeAccess = "access"

type Service interface {
	// GenerateAccessToken signs an operator token for the given subject
	GenerateAccessToken(subject string, ttl time.Duration) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(subject string, ttl time.Duration) (token string, expiresAt int64, err error) {
	if subject == "" {
		return "", 0, fmt.Errorf("token subject is required")
	}
	if ttl <= 0 {
		return "", 0, fmt.Errorf("token ttl must be positive")
	}
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"type": TokenTypeAccess,
		"exp":  expiresAt,
	}

	_, token, err = j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}
	return token, expiresAt, nil
}
