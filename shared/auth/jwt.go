package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a session token is malformed, carries a bad
// signature, or has expired.
var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims are the claims embedded in a session token.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and verifies signed session tokens. The secret and
// the token lifetime are fixed at construction; rotating the secret invalidates
// every outstanding token.
type JWTAuthenticator struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, issuer string, expiresIn time.Duration) JWTAuthenticator {
	return JWTAuthenticator{
		secret:    []byte(secret),
		issuer:    issuer,
		expiresIn: expiresIn,
	}
}

// ExpiresIn returns the configured session token lifetime.
func (a *JWTAuthenticator) ExpiresIn() time.Duration {
	return a.expiresIn
}

// IssueSessionToken generates a signed token embedding the given user ID and
// an expiration set to the configured lifetime.
func (a *JWTAuthenticator) IssueSessionToken(userID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiresIn)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.issuer},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// VerifySessionToken validates a session token and returns the embedded user
// ID. Any structural, signature, or expiry failure is reported as
// ErrInvalidToken.
func (a *JWTAuthenticator) VerifySessionToken(tokenStr string) (string, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.issuer),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
