package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "animewatcher"

var ErrInvalidToken = errors.New("invalid profile token")

// ProfileClaims identify the browser profile a request acts for.
type ProfileClaims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 profile tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), expiry: expiry}
}

// NewProfile allocates a profile id and returns it with its signed token.
func (s *TokenService) NewProfile() (string, string, error) {
	id := uuid.NewString()
	token, err := s.Issue(id)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Issue signs a token for profileID. A zero expiry yields a token that never expires.
func (s *TokenService) Issue(profileID string) (string, error) {
	now := time.Now()
	claims := ProfileClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   tokenIssuer,
			Subject:  profileID,
		},
	}
	if s.expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign profile token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(tokenString string) (*ProfileClaims, error) {
	claims := &ProfileClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ProfileID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
