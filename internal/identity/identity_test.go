package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "first name wins", user: User{FirstName: "Hannah", Email: "h@example.com"}, want: "Hannah"},
		{name: "first name trimmed", user: User{FirstName: "  Hannah  "}, want: "Hannah"},
		{name: "email local part", user: User{Email: "hannah@example.com"}, want: "hannah"},
		{name: "whitespace first name falls through", user: User{FirstName: "   ", Email: "h@example.com"}, want: "h"},
		{name: "email without at sign", user: User{Email: "not-an-email"}, want: DefaultDisplayName},
		{name: "email starting with at sign", user: User{Email: "@example.com"}, want: DefaultDisplayName},
		{name: "nothing set", user: User{}, want: DefaultDisplayName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "hannah@example.com",
		"user_metadata": map[string]any{
			"first_name": "Hannah",
		},
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	u, err := NewParser(testSecret).Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if u.ID != "user-123" || u.Email != "hannah@example.com" || u.FirstName != "Hannah" {
		t.Errorf("Parse() = %+v, want full identity", u)
	}
	if !u.SignedIn() {
		t.Error("parsed user should report signed in")
	}
}

func TestParseMissingMetadata(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "hannah@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	u, err := NewParser(testSecret).Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if u.FirstName != "" {
		t.Errorf("FirstName = %q, want empty without metadata", u.FirstName)
	}
	if u.DisplayName() != "hannah" {
		t.Errorf("DisplayName() = %q, want email local part", u.DisplayName())
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "garbage",
			token: "not.a.token",
		},
		{
			name: "wrong secret",
			token: signToken(t, jwt.MapClaims{
				"sub": "user-123",
				"exp": time.Now().Add(time.Hour).Unix(),
			}, "other-secret"),
		},
		{
			name: "expired",
			token: signToken(t, jwt.MapClaims{
				"sub": "user-123",
				"exp": time.Now().Add(-time.Hour).Unix(),
			}, testSecret),
		},
		{
			name: "no subject",
			token: signToken(t, jwt.MapClaims{
				"email": "hannah@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			}, testSecret),
		},
	}

	parser := NewParser(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithUser(context.Background(), User{ID: "u1", Email: "h@example.com"})

	u := FromContext(ctx)
	if u.ID != "u1" {
		t.Errorf("FromContext() = %+v, want the attached user", u)
	}

	anon := FromContext(context.Background())
	if anon.SignedIn() {
		t.Errorf("FromContext() on bare context = %+v, want anonymous", anon)
	}
}
