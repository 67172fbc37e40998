package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long generated tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Issuer is stamped on every token the directory signs.
const Issuer = "directory"

var (
	ErrMissingToken    = errors.New("authorization header missing")
	ErrMalformedHeader = errors.New("invalid authorization format")
	ErrInvalidToken    = errors.New("invalid token")
)

// Claims identifies the operator behind a protected call.
type Claims struct {
	jwt.RegisteredClaims
}

// Operator is the token subject.
func (c *Claims) Operator() string {
	return c.Subject
}

// GenerateToken signs an HS256 token for operator that expires after ttl.
// A non-positive ttl uses DefaultTokenTTL.
func GenerateToken(operator, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   operator,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verifier checks bearer tokens signed with one secret. It is shared by the
// gRPC interceptor and the HTTP middleware.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify parses an Authorization header value of the form "Bearer <token>".
func (v *Verifier) Verify(header string) (*Claims, error) {
	tokenString, err := bearerToken(header)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	_, err = v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", ErrMalformedHeader
	}
	return tokenString, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// FromContext returns the claims of an authenticated call.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok
}
