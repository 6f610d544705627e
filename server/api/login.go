package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/dekarrin/tunacalc/server/token"
	"github.com/google/uuid"
)

// HTTPCreateLogin returns a HandlerFunc that checks a username and password
// and, if they match, issues a token for that user.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	var creds LoginRequest
	if err := parseJSON(req, &creds); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if err := creds.validate(); err != nil {
		return result.BadRequest(err.Error(), "login: %s", err.Error())
	}

	user, err := api.Backend.Login(req.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, serr.ErrBadCredentials):
		return result.Unauthorized(serr.ErrBadCredentials.Error(), "login as '%s': %s", creds.Username, err.Error())
	case err != nil:
		return result.InternalServerError("login as '%s': %s", creds.Username, err.Error())
	}

	resp, err := api.issueToken(user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' logged in", user.Username)
}

// HTTPDeleteLogin returns a HandlerFunc that revokes every token issued to a
// user. Users may log themselves out; only an admin may log out someone else.
//
// The request context must carry the logged-in user, and the route must have
// a UUID id parameter.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	actor := currentUser(req)

	if !mayActOn(actor, id) {
		return result.Forbidden("user '%s' (role %s) logout of %s: forbidden", actor.Username, actor.Role, api.describeUser(req, id))
	}

	target, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("logout of %s: %s", id, err.Error())
	}

	return result.NoContent("user '%s' logged out %s", actor.Username, subject(actor, target))
}

func (lr LoginRequest) validate() error {
	if lr.Username == "" {
		return errors.New("username: property is empty or missing from request")
	}
	if lr.Password == "" {
		return errors.New("password: property is empty or missing from request")
	}
	return nil
}

// issueToken creates a new signed token for user.
func (api API) issueToken(user dao.User) (LoginResponse, error) {
	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("generate JWT for '%s': %w", user.Username, err)
	}
	return LoginResponse{Token: tok, UserID: user.ID.String()}, nil
}

// mayActOn reports whether actor is allowed to operate on the user with the
// given ID.
func mayActOn(actor dao.User, id uuid.UUID) bool {
	return actor.ID == id || actor.Role == dao.Admin
}

// subject names target relative to actor for log messages.
func subject(actor, target dao.User) string {
	if actor.ID == target.ID {
		return "self"
	}
	return "user '" + target.Username + "'"
}

// describeUser names the user with the given ID for log messages, falling
// back to the bare ID if the user cannot be looked up.
func (api API) describeUser(req *http.Request, id uuid.UUID) string {
	u, err := api.Backend.GetUser(req.Context(), id.String())
	if err != nil {
		return "user " + id.String()
	}
	return "user '" + u.Username + "'"
}
