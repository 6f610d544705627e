// Package middle contains middleware for the calculator server: token
// authentication and request body limits.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/token"
)

// Middleware wraps a handler in another that adds to what it does.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool: whether the client sent a valid token.
	AuthLoggedIn AuthKey = iota

	// AuthUser holds the dao.User the token is for, or the handler's default
	// user when there was no valid token.
	AuthUser
)

// User returns the user an AuthHandler put in ctx and whether that user is
// logged in. It returns false if no AuthHandler saw the request.
func User(ctx context.Context) (dao.User, bool) {
	user, ok := ctx.Value(AuthUser).(dao.User)
	if !ok {
		return dao.User{}, false
	}
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	return user, loggedIn
}

// AuthHandler reads the bearer token of a request, looks up the user it was
// issued to, and passes the request on with AuthLoggedIn and AuthUser set in
// its context. When auth is required, a request with a missing or invalid
// token gets an HTTP-401 instead.
type AuthHandler struct {
	db            dao.UserRepository
	secret        []byte
	required      bool
	defaultUser   dao.User
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	user, err := ah.authenticate(req)
	loggedIn := err == nil

	if !loggedIn {
		if ah.required {
			time.Sleep(ah.unauthedDelay)
			result.Unauthorized("", err.Error()).WriteResponse(w, req)
			return
		}
		user = ah.defaultUser
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthUser, user)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func (ah *AuthHandler) authenticate(req *http.Request) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, ah.secret, ah.db)
}

func auth(required bool, db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			required:      required,
			defaultUser:   defaultUser,
			unauthedDelay: unauthDelay,
			next:          next,
		}
	}
}

// RequireAuth returns middleware that rejects requests without a valid token
// with an HTTP-401.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return auth(true, db, secret, unauthDelay, defaultUser)
}

// OptionalAuth returns middleware that passes every request through, using
// defaultUser for clients that are not logged in.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return auth(false, db, secret, unauthDelay, defaultUser)
}

// LimitBody returns middleware that stops reading a request body after n
// bytes. Reading past the limit fails, which the JSON endpoints report as a
// malformed body.
func LimitBody(n int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			req.Body = http.MaxBytesReader(w, req.Body, n)
			next.ServeHTTP(w, req)
		})
	}
}
