package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const permToken = "perm:YWRtaW4=.NDQtMg==.Xy9ZcP0aTqgPfmL1kQ2w"

func signedJWT(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("this-is-a-test-secret-key-32-bytes!"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestInspect(t *testing.T) {
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		token       string
		wantKind    TokenKind
		wantSubject string
		wantExpiry  time.Time
	}{
		{
			name:        "permanent token",
			token:       permToken,
			wantKind:    TokenPermanent,
			wantSubject: "admin",
		},
		{
			name:     "permanent token without segments",
			token:    "perm:abcdef",
			wantKind: TokenPermanent,
		},
		{
			name:     "opaque token",
			token:    "1-2-3-abcdef0123456789",
			wantKind: TokenOpaque,
		},
		{
			name: "jwt",
			token: signedJWT(t, jwt.RegisteredClaims{
				Subject:   "jane",
				ExpiresAt: jwt.NewNumericDate(expiry),
			}),
			wantKind:    TokenJWT,
			wantSubject: "jane",
			wantExpiry:  expiry,
		},
		{
			name:     "jwt without expiry",
			token:    signedJWT(t, jwt.RegisteredClaims{}),
			wantKind: TokenJWT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(tt.token)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if info.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", info.Kind, tt.wantKind)
			}
			if info.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", info.Subject, tt.wantSubject)
			}
			if !info.ExpiresAt.Equal(tt.wantExpiry) {
				t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, tt.wantExpiry)
			}
			if info.Fingerprint != Fingerprint(tt.token) {
				t.Errorf("Fingerprint = %q, want %q", info.Fingerprint, Fingerprint(tt.token))
			}
		})
	}
}

func TestInspect_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"inner space", "perm:abc def"},
		{"trailing newline", "perm:abc\n"},
		{"broken jwt", "eyJhbGciOi.bad.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Inspect(%q) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestTokenInfo_Expired(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"no expiry", time.Time{}, false},
		{"future", now.Add(time.Hour), false},
		{"exactly now", now, true},
		{"past", now.Add(-time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := TokenInfo{ExpiresAt: tt.expires}
			if got := info.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", ""},
		{"short", "****"},
		{"perm:short", "perm:****"},
		{permToken, "perm:****kQ2w"},
		{"abcdefghijklmnop", "****mnop"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := Redact(tt.token)
			if got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.token, got, tt.want)
			}
			if len(tt.token) > 12 && strings.Contains(got, tt.token[:len(tt.token)-4]) {
				t.Errorf("Redact(%q) leaked the token", tt.token)
			}
		})
	}
}

func TestTokenKind_String(t *testing.T) {
	for kind, want := range map[TokenKind]string{
		TokenOpaque:    "opaque",
		TokenPermanent: "permanent",
		TokenJWT:       "jwt",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
