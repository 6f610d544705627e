package api

import (
	"net/http"

	"github.com/dekarrin/tunacalc/server/result"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token to the
// logged-in user. The request context must carry that user.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := currentUser(req)

	resp, err := api.issueToken(user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}
	return result.Created(resp, "user '%s' got a new token", user.Username)
}
