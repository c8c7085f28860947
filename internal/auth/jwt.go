// Package auth issues and verifies session tokens and hashes passwords.
//
// SESSION FLOW:
//  1. POST /login verifies the password and calls TokenService.Generate
//  2. The token goes back in the response body and in an HttpOnly "auth" cookie
//  3. RequireAuth validates the token on every protected request and puts the
//     caller's Identity into the request context
//
// Tokens are not stored server-side. Validity is signature + expiry only, so a
// token cannot be revoked before it expires.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sakif/message-board/internal/model"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

const issuer = "message-board"

// ErrInvalidToken is wrapped by every Validate failure.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenService handles JWT creation and validation with an HMAC secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and lifetime.
// A non-positive ttl means DefaultTokenTTL.
// Example secret: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the lifetime of tokens issued by Generate.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload. The numeric user ID travels in "sub" as a
// decimal string; the username gets its own private claim.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Generate signs a token for id that expires after the service TTL.
func (s *TokenService) Generate(id model.Identity) (string, error) {
	return s.GenerateWithDuration(id, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime.
// Tests use a negative duration to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(id model.Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it carries.
//
// The jwt library checks the signature, expiry and issuer. Pinning the valid
// methods to HS256 blocks "alg: none" and algorithm-confusion tokens.
func (s *TokenService) Validate(tokenStr string) (model.Identity, error) {
	if tokenStr == "" {
		return model.Identity{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, fmt.Errorf("%w: expired", ErrInvalidToken)
		}
		return model.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return model.Identity{}, fmt.Errorf("%w: bad claims", ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.Identity{}, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	if c.Username == "" {
		return model.Identity{}, fmt.Errorf("%w: no username", ErrInvalidToken)
	}

	return model.Identity{UserID: userID, Username: c.Username}, nil
}

// Authenticate satisfies Authenticator using the signature and claims alone.
func (s *TokenService) Authenticate(_ context.Context, tokenStr string) (model.Identity, error) {
	return s.Validate(tokenStr)
}
