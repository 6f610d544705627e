package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacalc/server/dao"
	"github.com/dekarrin/tunacalc/server/result"
	"github.com/dekarrin/tunacalc/server/serr"
)

// HTTPCreateEvaluation returns a HandlerFunc that evaluates an expression for
// the logged-in user and records the result.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateEvaluation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateEvaluation)
}

func (api API) epCreateEvaluation(req *http.Request) result.Result {
	user := currentUser(req)

	var evalReq EvaluationRequest
	err := parseJSON(req, &evalReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if evalReq.Expression == "" {
		return result.BadRequest("expression: property is empty or missing from request", "empty expression")
	}
	vars, err := evalReq.bindings()
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	ev, err := api.Backend.CreateEvaluation(req.Context(), user.ID, evalReq.Expression, vars)
	if err != nil {
		if errors.Is(err, serr.ErrEvaluation) {
			return result.Unevaluable(err, "user '%s' evaluation of %q: %s", user.Username, evalReq.Expression, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), "user '%s' evaluation of %q: %s", user.Username, evalReq.Expression, err.Error())
		}
		return result.InternalServerError("could not create evaluation: %s", err.Error())
	}

	return result.Created(evaluationToModel(ev), "user '%s' evaluated %q to %s", user.Username, ev.Expression, ev.Result)
}

// HTTPGetAllEvaluations returns a HandlerFunc that lists every evaluation the
// logged-in user has made.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllEvaluations() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllEvaluations)
}

func (api API) epGetAllEvaluations(req *http.Request) result.Result {
	user := currentUser(req)

	evs, err := api.Backend.GetAllEvaluations(req.Context(), user.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]EvaluationModel, len(evs))
	for i := range evs {
		resp[i] = evaluationToModel(evs[i])
	}

	return result.OK(resp, "user '%s' got all evaluations", user.Username)
}

// HTTPGetEvaluation returns a HandlerFunc that gets a single evaluation. Users
// may only retrieve their own evaluations unless they are an admin.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the evaluation and the logged-in user of the client making the
// request.
func (api API) HTTPGetEvaluation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetEvaluation)
}

func (api API) epGetEvaluation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := currentUser(req)

	ev, err := api.Backend.GetEvaluation(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get evaluation: " + err.Error())
	}

	// do not reveal that another user's evaluation exists
	if ev.UserID != user.ID && user.Role != dao.Admin {
		return result.NotFound("user '%s' (role %s) get evaluation %s of another user", user.Username, user.Role, id)
	}

	return result.OK(evaluationToModel(ev), "user '%s' got evaluation %s", user.Username, id)
}

// HTTPDeleteEvaluation returns a HandlerFunc that deletes a single
// evaluation. Users may only delete their own evaluations unless they are an
// admin.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the evaluation and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteEvaluation() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteEvaluation)
}

func (api API) epDeleteEvaluation(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := currentUser(req)

	ev, err := api.Backend.GetEvaluation(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get evaluation: " + err.Error())
	}

	if ev.UserID != user.ID && user.Role != dao.Admin {
		return result.NotFound("user '%s' (role %s) delete evaluation %s of another user", user.Username, user.Role, id)
	}

	_, err = api.Backend.DeleteEvaluation(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete evaluation: " + err.Error())
	}

	return result.NoContent("user '%s' deleted evaluation %s", user.Username, id)
}
