package localapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quizdeck/quizdeck/internal/rbac"
)

// AuthService issues and validates the dev server's HS256 tokens: short-lived
// access tokens and long-lived refresh tokens, distinguished by a typ claim.
type AuthService struct {
	hmac       []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{hmac: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

type Claims struct {
	Sub   string   `json:"sub"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Typ   string   `json:"typ"` // access | refresh
	jwt.RegisteredClaims
}

func (a *AuthService) issue(sub, email string, roles []string, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:   sub,
		Email: email,
		Roles: roles,
		Typ:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quizdeck-localapi",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) IssueAccess(sub, email string, roles []string) (string, error) {
	return a.issue(sub, email, roles, "access", a.accessTTL)
}

func (a *AuthService) IssueRefresh(sub string) (string, error) {
	return a.issue(sub, "", nil, "refresh", a.refreshTTL)
}

func (a *AuthService) Parse(tokenStr, wantTyp string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, ok := token.Claims.(*Claims)
	if !ok || c.Typ != wantTyp {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// JWTMiddleware validates the bearer token and stores the caller's identity
// and roles in the request context.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "), "access")
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := rbac.WithRoles(r.Context(), c.Roles)
			ctx = withUserID(ctx, c.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
