// Package server provides an HTTP REST server that evaluates expressions for
// authenticated users and keeps a history of their evaluations.
//
// Routes, all under /api/v1:
//
//	POST   /login              - accepts user and password and returns a JWT.
//	DELETE /login/{id}         - logs out the user, revoking all their tokens.
//	POST   /tokens             - issues a new token for the logged-in user.
//	POST   /evaluations        - evaluates an expression and records it.
//	GET    /evaluations        - lists the logged-in user's evaluations.
//	GET    /evaluations/{id}   - gets one evaluation.
//	DELETE /evaluations/{id}   - deletes one evaluation.
//	POST   /users              - creates a user (admin only).
//	GET    /users              - gets all users (admin only).
//	GET    /users/{id}         - gets a user.
//	DELETE /users/{id}         - deletes a user and their evaluations.
//	GET    /info               - gets version info on the server and engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/dekarrin/tunacalc"
	"github.com/dekarrin/tunacalc/server/api"
	"github.com/dekarrin/tunacalc/server/calcs"
	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/middle"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
	"github.com/go-chi/chi/v5"
)

// MaxEvaluationBody is the largest request body, in bytes, that the
// evaluations endpoints will read.
const MaxEvaluationBody = 1 << 20

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// TunaCalcServer is an HTTP REST server that evaluates expressions. The
// zero-value of a TunaCalcServer should not be used directly; call New() to
// get one ready for use.
type TunaCalcServer struct {
	router chi.Router
	api    api.API
	db     dao.Store
}

// New creates a new TunaCalcServer from the given config. Unset values in cfg
// take their defaults.
func New(cfg Config) (TunaCalcServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return TunaCalcServer{}, fmt.Errorf("config: %w", err)
	}

	calc := tunacalc.New()
	if cfg.CalcFile != "" {
		if err := calc.LoadFile(cfg.CalcFile); err != nil {
			return TunaCalcServer{}, fmt.Errorf("load calc file: %w", err)
		}
		log.Printf("INFO  Loaded calculator definitions from %s", cfg.CalcFile)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return TunaCalcServer{}, err
	}

	tcs := TunaCalcServer{
		db: db,
		api: api.API{
			Backend: calcs.Service{
				DB:            db,
				Calc:          calc,
				MaxExprLength: cfg.MaxExprLength,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	tcs.router = newRouter(tcs.api)

	return tcs, nil
}

// ServeHTTP routes req to the API.
func (tcs TunaCalcServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tcs.router.ServeHTTP(w, req)
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080. It only returns if the
// listener fails.
func (tcs TunaCalcServer) ServeForever(address string, port int) error {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	return http.ListenAndServe(listenAddress, tcs)
}

// EnsureAdmin creates an admin user with the given username and password if no
// user with that username exists. It returns whether a user was created.
func (tcs TunaCalcServer) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := tcs.api.Backend.CreateUser(ctx, username, password, "", dao.Admin)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases the server's persistence.
func (tcs TunaCalcServer) Close() error {
	return tcs.db.Close()
}

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/login", newLoginRouter(a))
	r.Mount("/tokens", newTokensRouter(a))
	r.Mount("/evaluations", newEvaluationsRouter(a))
	r.Mount("/users", newUsersRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		result.MethodNotAllowed(req).WriteResponse(w, req)
	})

	return r
}

func newLoginRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{})

	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateLogin())
	r.With(reqAuth).Delete("/"+p("id:uuid"), a.HTTPDeleteLogin())
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newTokensRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{})

	r := chi.NewRouter()

	r.With(reqAuth).Post("/", a.HTTPCreateToken())

	return r
}

func newEvaluationsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{})

	r := chi.NewRouter()

	r.Use(reqAuth, middle.LimitBody(MaxEvaluationBody))

	r.Get("/", a.HTTPGetAllEvaluations())
	r.Post("/", a.HTTPCreateEvaluation())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetEvaluation())
		r.Delete("/", a.HTTPDeleteEvaluation())
	})

	return r
}

func newUsersRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{})

	r := chi.NewRouter()

	r.Use(reqAuth)

	r.Get("/", a.HTTPGetAllUsers())
	r.Post("/", a.HTTPCreateUser())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetUser())
		r.Delete("/", a.HTTPDeleteUser())
	})

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Backend.DB.Users(), a.Secret, a.UnauthDelay, dao.User{})

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL
// as the request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	result.Redirection(redirPath).WriteResponse(w, req)
}
