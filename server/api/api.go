// Package api provides the HTTP endpoints of the calculator server. Each
// endpoint is a method on API that turns a request into a result.Result; the
// HTTP* methods wrap them into handlers that log and write that result.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/tunacalc/server/calcs"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PathPrefix is where the API is mounted on the server's router.
const PathPrefix = "/api/v1"

// API serves external requests to a calculator server. For access from Go
// code, use [calcs.Service] directly.
type API struct {
	// Backend performs the operations the endpoints are asked for.
	Backend calcs.Service

	// UnauthDelay is how long a response of HTTP-401, HTTP-403, or HTTP-500 is
	// held back, to slow down clients probing for credentials.
	UnauthDelay time.Duration

	// Secret signs the JWTs given to clients.
	Secret []byte
}

// EndpointFunc decides the result of a single API request.
type EndpointFunc func(req *http.Request) result.Result

// currentUser returns the user the auth middleware put in the request context.
func currentUser(req *http.Request) dao.User {
	user, _ := middle.User(req.Context())
	return user
}

// requireIDParam returns the UUID in the id URL parameter. Routes only reach
// an endpoint that calls it when the parameter is a valid UUID, so any other
// value panics.
func requireIDParam(req *http.Request) uuid.UUID {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		panic(fmt.Sprintf("id URL parameter: %s", err.Error()))
	}
	return id
}

// parseJSON decodes the JSON body of req into v. Numbers are kept as
// json.Number so they reach the calculator without going through float64.
// A body that is not valid JSON gives an error matching serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.New("request content-type is not application/json")
	}

	dec := json.NewDecoder(req.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			logResponse(req, "ERROR", http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.Encode(); err != nil {
			r = result.TextErr(http.StatusInternalServerError, "An internal server error occurred", "could not marshal response: %s", err.Error())
		}

		level := "INFO"
		if r.IsErr {
			level = "ERROR"
		}
		logResponse(req, level, r.Status, r.InternalMsg)

		switch r.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError:
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if p := recover(); p != nil {
		r := result.TextErr(http.StatusInternalServerError, "An internal server error occurred", "panic: %v\nSTACK TRACE: %s", p, debug.Stack())
		logResponse(req, "ERROR", r.Status, r.InternalMsg)
		r.WriteResponse(w, req)
	}
}

func logResponse(req *http.Request, level string, status int, msg string) {
	client, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		client = req.RemoteAddr
	}
	log.Printf("%-5.5s %s %s %s: HTTP-%d %s", level, client, req.Method, req.URL.Path, status, msg)
}
