package api

import (
	"net/http"

	"github.com/dekarrin/tunacalc/internal/version"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
)

// HTTPGetInfo returns a HandlerFunc that describes the server: its version,
// the limits it places on expressions, and the functions loaded into its
// calculator. Logged-in clients are also told who they are logged in as.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	engine := api.Backend.Engine()

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Engine = version.Current
	resp.Limits.MaxExprLength = engine.MaxExprLength
	resp.Limits.MaxDepth = engine.MaxDepth
	resp.Functions = engine.Functions

	caller := "anonymous client"
	if user, loggedIn := middle.User(req.Context()); loggedIn {
		resp.User = user.Username
		caller = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got server info", caller)
}
