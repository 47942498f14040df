package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
)

// PermanentPrefix starts every YouTrack permanent token.
const PermanentPrefix = "perm:"

// TokenKind classifies a bearer token.
type TokenKind int

// Token kinds.
const (
	TokenOpaque TokenKind = iota
	TokenPermanent
	TokenJWT
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenPermanent:
		return "permanent"
	case TokenJWT:
		return "jwt"
	default:
		return "opaque"
	}
}

// TokenInfo is what can be learned about a token offline.
type TokenInfo struct {
	Kind TokenKind

	// Subject is the login for permanent tokens or the sub claim for JWTs, when present.
	Subject string

	// ExpiresAt is zero for tokens that do not expire.
	ExpiresAt time.Time

	// Fingerprint identifies the token in logs.
	Fingerprint string
}

// Expired reports whether the token has a known expiry at or before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect classifies a token. JWT claims are parsed without verifying the
// signature; the server remains the authority on validity.
func Inspect(token string) (TokenInfo, error) {
	if token == "" {
		return TokenInfo{}, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	if strings.IndexFunc(token, unicode.IsSpace) >= 0 {
		return TokenInfo{}, fmt.Errorf("%w: contains whitespace", ErrInvalidToken)
	}

	info := TokenInfo{Kind: TokenOpaque, Fingerprint: Fingerprint(token)}

	switch {
	case strings.HasPrefix(token, PermanentPrefix):
		info.Kind = TokenPermanent
		info.Subject = permanentLogin(strings.TrimPrefix(token, PermanentPrefix))
	case looksLikeJWT(token):
		claims := &jwt.RegisteredClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return TokenInfo{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
		}
		info.Kind = TokenJWT
		info.Subject = claims.Subject
		if claims.ExpiresAt != nil {
			info.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	return info, nil
}

// looksLikeJWT reports whether token has three segments and a JSON header.
func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2 && strings.HasPrefix(token, "eyJ")
}

// permanentLogin decodes the login segment of "perm:<b64 login>.<b64 name>.<secret>".
func permanentLogin(rest string) string {
	segment, _, ok := strings.Cut(rest, ".")
	if !ok || segment == "" {
		return ""
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if decoded, err := enc.DecodeString(segment); err == nil {
			return string(decoded)
		}
	}
	return ""
}

// Redact masks a token for display, keeping the permanent prefix and the last
// four characters of longer tokens.
func Redact(token string) string {
	if token == "" {
		return ""
	}
	prefix := ""
	rest := token
	if strings.HasPrefix(token, PermanentPrefix) {
		prefix, rest = PermanentPrefix, strings.TrimPrefix(token, PermanentPrefix)
	}
	if len(rest) <= 8 {
		return prefix + "****"
	}
	return prefix + "****" + rest[len(rest)-4:]
}
