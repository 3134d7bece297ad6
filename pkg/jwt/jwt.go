package jwt

import (
	"errors"
	"time"

	"careportal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify a signed-in portal user for the lifetime of a session.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	TokenID  string `json:"token_id"`
	jwt.RegisteredClaims
}

type Service struct {
	config config.JWTConfig
}

func NewService(cfg config.JWTConfig) *Service {
	return &Service{config: cfg}
}

// GenerateSessionToken returns a signed session token and its unique token id.
// The token id is what the revocation store keys on.
func (s *Service) GenerateSessionToken(userID int64, email, userType string) (string, string, error) {
	tokenID := uuid.New().String()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		UserType: userType,
		TokenID:  tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", "", err
	}

	return signedToken, tokenID, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *Service) SessionExpiry() time.Duration {
	return s.config.SessionExpiry
}
