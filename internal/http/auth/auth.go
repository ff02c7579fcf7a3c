package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Role decides what a principal may do beyond its own records.
type Role string

const (
	RoleApplicant   Role = "applicant"
	RoleUnderwriter Role = "underwriter"
)

func (r Role) valid() bool {
	return r == RoleApplicant || r == RoleUnderwriter
}

// Principal is the authenticated caller of a request.
type Principal struct {
	Owner uuid.UUID
	Role  Role
}

type contextKey struct{}

type claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role,omitempty"`
}

// Tokens signs and validates HS256 bearer tokens whose subject is the owner id.
type Tokens struct {
	key    []byte
	issuer string
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{key: []byte(secret), issuer: issuer}
}

func (t *Tokens) Issue(owner uuid.UUID, role Role, ttl time.Duration) (string, error) {
	if !role.valid() {
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role: role,
	})

	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Validate returns the principal the token was issued for. Tokens without a
// role claim belong to applicants.
func (t *Tokens) Validate(raw string) (Principal, error) {
	var c claims

	_, err := jwt.ParseWithClaims(raw, &c, func(token *jwt.Token) (any, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	owner, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: subject is not an owner id", ErrInvalidToken)
	}

	if c.Role == "" {
		c.Role = RoleApplicant
	}

	if !c.Role.valid() {
		return Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, c.Role)
	}

	return Principal{Owner: owner, Role: c.Role}, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// principal on the request context.
func Middleware(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			p, err := tokens.Validate(raw)
			if err != nil {
				slog.Warn("unauthorized request", "path", r.URL.Path, "error", err)
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole answers 403 to principals without the given role.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok || p.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// WithOwner stores an applicant principal for owner.
func WithOwner(ctx context.Context, owner uuid.UUID) context.Context {
	return WithPrincipal(ctx, Principal{Owner: owner, Role: RoleApplicant})
}

func OwnerFrom(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFrom(ctx)
	return p.Owner, ok
}

// IsUnderwriter reports whether the caller may act on every owner's records.
func IsUnderwriter(ctx context.Context) bool {
	p, ok := PrincipalFrom(ctx)
	return ok && p.Role == RoleUnderwriter
}

// CanAccess reports whether the caller may read or change a record of owner.
func CanAccess(ctx context.Context, owner uuid.UUID) bool {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return false
	}

	return p.Role == RoleUnderwriter || p.Owner == owner
}
