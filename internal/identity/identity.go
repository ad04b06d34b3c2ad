// Package identity resolves the optional signed-in user from bearer tokens
// and carries it through request contexts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultDisplayName is the last resort of the display-name fallback chain.
const DefaultDisplayName = "friend"

var ErrInvalidToken = errors.New("invalid token")

// User is the signed-in player. A zero ID means anonymous; anonymous players
// can take quizzes but produce no progress or analytics writes.
type User struct {
	ID        string
	Email     string
	FirstName string
}

// SignedIn reports whether the user carries an identity.
func (u User) SignedIn() bool {
	return u.ID != ""
}

// DisplayName resolves a username for progress events: first name, then the
// email local-part, then a generic default. Total over all metadata shapes.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return DefaultDisplayName
}

type contextKey int

const userKey contextKey = iota

// WithUser attaches a user to the context.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext extracts the user from the context. Returns a zero (anonymous)
// user when none was attached.
func FromContext(ctx context.Context) User {
	if u, ok := ctx.Value(userKey).(User); ok {
		return u
	}
	return User{}
}

// tokenClaims mirrors the session provider's JWT payload. The metadata map
// is deliberately permissive; unknown shapes degrade to the fallback chain.
type tokenClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Parser verifies HS256 bearer tokens issued by the session provider.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

// Parse verifies a token and extracts the user it identifies.
func (p *Parser) Parse(tokenString string) (User, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return User{}, ErrInvalidToken
	}

	u := User{
		ID:    claims.Subject,
		Email: claims.Email,
	}
	if first, ok := claims.UserMetadata["first_name"].(string); ok {
		u.FirstName = first
	}
	return u, nil
}
