package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "pettrack"

// TokenType tags a JWT as an access or refresh token. The tag is a
// custom claim checked on every validation, so a refresh token can
// never be replayed as an access token or vice versa.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// TokenPair bundles the two tokens issued on login and refresh.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenService issues and validates signed token pairs.
//
// Tokens are HS256 JWTs carrying the user ID as subject, the token
// type as a custom claim, and an expiry. The same HMAC secret signs
// and verifies.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService. The secret should be at
// least 32 bytes of random data in production; anything under 16
// characters is rejected outright.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// claims is the JWT payload: the registered claims plus the type tag.
type claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// IssuePair creates a fresh access/refresh token pair for the user.
func (s *TokenService) IssuePair(userID string) (*TokenPair, error) {
	access, err := s.issue(userID, TokenAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(userID, TokenRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) issue(userID string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", typ, err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, requiring the given
// type tag. It returns the user ID from the subject claim.
//
// Every failure mode — bad signature, expiry, wrong type, missing
// subject — comes back as a plain error; callers surface all of them
// uniformly as unauthorized.
func (s *TokenService) Validate(tokenStr string, want TokenType) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Type != want {
		return "", fmt.Errorf("auth: token is not a %s token", want)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
