// Package auth implements the admin session gate: a single static identity,
// an exact-match credential check against two configured secrets, and
// stateless signed tokens. The server holds no session state at all.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recipejar/recipejar/internal/apperr"
)

const (
	adminUserID     = "admin"
	adminName       = "Administrator"
	adminRole       = "admin"
	defaultTokenTTL = 24 * time.Hour
)

// Identity is the verified subject of a token.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Gate verifies the administrator credential pair and issues/checks tokens.
type Gate struct {
	adminID       string
	adminPassword string
	secret        []byte
	ttl           time.Duration
	now           func() time.Time
}

func NewGate(adminID, adminPassword, secret string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Gate{
		adminID:       adminID,
		adminPassword: adminPassword,
		secret:        []byte(secret),
		ttl:           ttl,
		now:           time.Now,
	}
}

// Login checks the submitted pair against the configured secrets and, on
// success, returns a signed token plus the admin identity.
func (g *Gate) Login(adminID, adminPassword string) (string, *Identity, error) {
	if adminID == "" || adminPassword == "" {
		return "", nil, apperr.Validation("admin ID and password are required")
	}

	idOK := subtle.ConstantTimeCompare([]byte(adminID), []byte(g.adminID)) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(adminPassword), []byte(g.adminPassword)) == 1
	if !idOK || !pwOK {
		return "", nil, apperr.Unauthorized("invalid admin credentials")
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: adminName,
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminUserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", nil, apperr.From(err)
	}
	return signed, &Identity{ID: adminUserID, Name: adminName, Role: adminRole}, nil
}

// Verify checks a presented token: structurally valid, HS256, unexpired, and
// carrying the admin role. Anything else is an authorization failure.
func (g *Gate) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, apperr.Unauthorized("access token required")
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &claims{},
		func(t *jwt.Token) (interface{}, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthorized("token expired")
		}
		return nil, apperr.Unauthorized("invalid token")
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}
	if c.Role != adminRole {
		return nil, apperr.Forbidden("admin access required")
	}

	return &Identity{ID: c.Subject, Name: c.Name, Role: c.Role}, nil
}
