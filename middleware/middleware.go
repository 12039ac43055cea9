// Package middleware carries the session principal. Identity travels in
// a signed JWT session cookie; handlers read it back out of the request
// context, never from package state.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const SessionCookie = "session"

const sessionTTL = 7 * 24 * time.Hour

// Claims is the session payload: who, in which role, plus the display
// fields the UI shows without another lookup.
type Claims struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller as seen by handlers.
type Principal struct {
	UserID     string
	Role       string
	UserName   string
	UserAvatar string
}

func (p Principal) IsChef() bool { return p.Role == "chef" }

type ctxKey struct{}

// Auth signs and verifies session cookies with an injected secret.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// IssueCookie mints a session cookie for the principal.
func (a *Auth) IssueCookie(p Principal) (*http.Cookie, error) {
	now := time.Now()
	claims := &Claims{
		UserID:     p.UserID,
		Role:       p.Role,
		UserName:   p.UserName,
		UserAvatar: p.UserAvatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(sessionTTL),
	}, nil
}

// ClearedCookie expires the session cookie.
func ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
}

func (a *Auth) parse(r *http.Request) (Principal, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Principal{}, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, false
	}
	return Principal{
		UserID:     claims.UserID,
		Role:       claims.Role,
		UserName:   claims.UserName,
		UserAvatar: claims.UserAvatar,
	}, true
}

// Authenticate rejects requests without a valid session.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, ok := a.parse(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), p)), ps)
	}
}

// RequireChef rejects everyone but a chef-role session.
func (a *Auth) RequireChef(next httprouter.Handle) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, _ := PrincipalFrom(r.Context())
		if !p.IsChef() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r, ps)
	})
}

// OptionalAuth attaches the principal when a valid session is present
// and proceeds anonymously otherwise.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if p, ok := a.parse(r); ok {
			r = r.WithContext(WithPrincipal(r.Context(), p))
		}
		next(w, r, ps)
	}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
