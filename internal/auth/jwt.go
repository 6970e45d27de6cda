package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"busScheduleManagement/models"
)

// Principal represents the authenticated caller extracted from a verified JWT.
type Principal struct {
	UserID int64
	Role   models.Role
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens carrying
// {userId, role}.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token for the user expiring after the configured TTL.
func (m *TokenManager) Generate(userID int64, role models.Role) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates signature and expiry and extracts the Principal.
// Failures of any kind surface as a generic Unauthorized.
func (m *TokenManager) Parse(tokenStr string) (*Principal, error) {
	if len(m.secret) == 0 {
		return nil, models.UnauthorizedError("token verification is not configured")
	}
	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, models.UnauthorizedError("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, models.UnauthorizedError("invalid or expired token")
	}
	c, _ := tok.Claims.(*tokenClaims)
	if c == nil || c.Subject == "" || c.Role == "" {
		return nil, models.UnauthorizedError("invalid token claims")
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, models.UnauthorizedError("invalid token claims")
	}
	return &Principal{UserID: userID, Role: models.Role(strings.ToLower(c.Role))}, nil
}
