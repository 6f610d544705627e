// Package result holds the outcome of an API endpoint and writes it to the
// client. An endpoint builds a Result with one of the constructors in this
// package and the api package logs and writes it.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is a response an endpoint has decided on but not yet written.
// InternalMsg is logged by the server and never sent to the client.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	body  any
	text  bool
	redir string
	hdrs  [][2]string

	encoded []byte
}

// WithHeader returns a copy of r that also sets the header name to val when
// written.
func (r Result) WithHeader(name, val string) Result {
	hdrs := make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(hdrs, r.hdrs)
	r.hdrs = append(hdrs, [2]string{name, val})
	r.encoded = nil
	return r
}

// Encode marshals the body of r ahead of writing it. Calling it before
// WriteResponse lets the caller handle a body that cannot be marshaled instead
// of having WriteResponse panic.
func (r *Result) Encode() error {
	if r.encoded != nil || !r.hasBody() {
		return nil
	}

	if r.text {
		r.encoded = []byte(fmt.Sprint(r.body))
		return nil
	}

	data, err := json.Marshal(r.body)
	if err != nil {
		return err
	}
	r.encoded = data
	return nil
}

func (r Result) hasBody() bool {
	return r.Status != http.StatusNoContent && r.redir == ""
}

// WriteResponse writes r to w. HEAD requests get the headers and status
// without a body. It panics if r was never populated or its body cannot be
// marshaled.
func (r Result) WriteResponse(w http.ResponseWriter, req *http.Request) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.Encode(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	hdr := w.Header()
	if r.text {
		hdr.Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		hdr.Set("Content-Type", "application/json")
	}
	hdr.Set("X-Content-Type-Options", "nosniff")
	if r.redir != "" {
		hdr.Set("Location", r.redir)
	}
	for _, h := range r.hdrs {
		hdr.Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)

	if r.hasBody() && req.Method != http.MethodHead {
		w.Write(r.encoded)
	}
}
