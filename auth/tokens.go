package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeRefresh is carried in the "type" claim of refresh tokens.
	// Access tokens omit the claim entirely.
	TokenTypeRefresh = "refresh"

	issuer = "plantvision"
)

// ErrInvalidToken is returned for any verification failure. Malformed,
// expired and badly signed tokens are indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the payload of an issued token.
type Claims struct {
	TokenType string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the token was issued as a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// TokenManager issues and verifies signed, time-limited bearer tokens. It is
// constructed once from configuration and injected wherever tokens are needed.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// TokenPair bundles the access and refresh tokens returned on login.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (tm *TokenManager) issue(subject, tokenType string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// IssueAccess creates a short-lived access token for the given subject.
func (tm *TokenManager) IssueAccess(subject string) (string, time.Time, error) {
	return tm.issue(subject, "", tm.accessTTL)
}

// IssueRefresh creates a long-lived refresh token for the given subject.
func (tm *TokenManager) IssueRefresh(subject string) (string, time.Time, error) {
	return tm.issue(subject, TokenTypeRefresh, tm.refreshTTL)
}

// IssuePair creates a fresh access+refresh pair for the given subject.
func (tm *TokenManager) IssuePair(subject string) (*TokenPair, error) {
	access, expiresAt, err := tm.IssueAccess(subject)
	if err != nil {
		return nil, err
	}
	refresh, _, err := tm.IssueRefresh(subject)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeUnverified parses a third-party identity token (Apple/Google sign-in)
// without checking its signature. Vendor key verification is left to a future
// revision; see AuthService.
func DecodeUnverified(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
