package result

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of every error result. Detail is only set
// for expressions that could not be evaluated.
type ErrorResponse struct {
	Error  string      `json:"error"`
	Status int         `json:"status"`
	Detail *EvalDetail `json:"detail,omitempty"`
}

// internal builds the log message from the optional format and args given to
// a constructor, falling back to def.
func internal(def string, msg []any) string {
	if len(msg) == 0 {
		return def
	}
	format, ok := msg[0].(string)
	if !ok {
		return fmt.Sprint(msg...)
	}
	if len(msg) == 1 {
		return format
	}
	return fmt.Sprintf(format, msg[1:]...)
}

// Response is a successful result with a JSON body. respObj is not read when
// status is http.StatusNoContent.
func Response(status int, respObj any, internalMsg string, v ...any) Result {
	return Result{
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		body:        respObj,
	}
}

// Err is an error result whose JSON body shows userMsg to the client.
func Err(status int, userMsg, internalMsg string, v ...any) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		body:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr is like Err but writes userMsg as plain text. It is for responses
// that must not fail to marshal.
func TextErr(status int, userMsg, internalMsg string, v ...any) Result {
	r := Err(status, userMsg, internalMsg, v...)
	r.body = userMsg
	r.text = true
	return r
}

// Redirection permanently redirects the client to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		redir:       uri,
	}
}

// The constructors below take an optional log message: a format string
// followed by its args.

func OK(respObj any, internalMsg ...any) Result {
	return Response(http.StatusOK, respObj, "%s", internal("OK", internalMsg))
}

func Created(respObj any, internalMsg ...any) Result {
	return Response(http.StatusCreated, respObj, "%s", internal("created", internalMsg))
}

func NoContent(internalMsg ...any) Result {
	return Response(http.StatusNoContent, nil, "%s", internal("no content", internalMsg))
}

func BadRequest(userMsg string, internalMsg ...any) Result {
	return Err(http.StatusBadRequest, userMsg, "%s", internal("bad request", internalMsg))
}

func Conflict(userMsg string, internalMsg ...any) Result {
	return Err(http.StatusConflict, userMsg, "%s", internal("conflict", internalMsg))
}

func NotFound(internalMsg ...any) Result {
	return Err(http.StatusNotFound, "The requested resource was not found", "%s", internal("not found", internalMsg))
}

func Forbidden(internalMsg ...any) Result {
	return Err(http.StatusForbidden, "You don't have permission to do that", "%s", internal("forbidden", internalMsg))
}

func InternalServerError(internalMsg ...any) Result {
	return Err(http.StatusInternalServerError, "An internal server error occurred", "%s", internal("internal server error", internalMsg))
}

// MethodNotAllowed tells the client that req's method is not routed for its
// path.
func MethodNotAllowed(req *http.Request, internalMsg ...any) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, "%s", internal("method not allowed", internalMsg))
}

// Unauthorized is an HTTP-401 with the WWW-Authenticate challenge for the
// server. An empty userMsg gets a generic one.
func Unauthorized(userMsg string, internalMsg ...any) Result {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return Err(http.StatusUnauthorized, userMsg, "%s", internal("unauthorized", internalMsg)).
		WithHeader("WWW-Authenticate", `Basic realm="TunaCalc server", charset="utf-8"`)
}
