// Package identitytest runs a scripted identity backend over httptest for tests.
package identitytest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// OpToken names calls to the token-exchange endpoint.
const OpToken = "token"

// Call is one request received by the backend.
type Call struct {
	Op     string
	Method string
	Key    string
	Body   map[string]any
}

// Reply is a scripted response. Raw, when set, is written verbatim instead of Body.
type Reply struct {
	Status int
	Body   any
	Raw    string
}

// Backend answers identity and token-exchange requests from per-operation reply queues.
// An operation with an empty queue answers 404 UNEXPECTED_CALL.
type Backend struct {
	server  *httptest.Server
	replies map[string][]Reply
	calls   []Call
	lock    sync.Mutex
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{replies: make(map[string][]Reply)}
	b.server = httptest.NewServer(http.HandlerFunc(b.serveHTTP))
	t.Cleanup(b.server.Close)
	return b
}

// IdentityURL is the accounts root; operations are addressed as IdentityURL()+":"+op.
func (b *Backend) IdentityURL() string {
	return b.server.URL + "/v1/accounts"
}

func (b *Backend) TokenURL() string {
	return b.server.URL + "/v1/token"
}

func (b *Backend) Enqueue(op string, replies ...Reply) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.replies[op] = append(b.replies[op], replies...)
}

// OK queues a 200 reply with body.
func (b *Backend) OK(op string, body any) {
	b.Enqueue(op, Reply{Status: http.StatusOK, Body: body})
}

// Fail queues an error reply in the {"error": {"message", "code"}} shape.
func (b *Backend) Fail(op string, status int, message string) {
	b.Enqueue(op, Reply{Status: status, Body: map[string]any{
		"error": map[string]any{"message": message, "code": status},
	}})
}

// TokenPair returns an issuance body in the identity endpoint's shape.
func TokenPair(idToken, refreshToken, expiresIn string) map[string]any {
	return map[string]any{"idToken": idToken, "refreshToken": refreshToken, "expiresIn": expiresIn}
}

// Calls returns the calls received for op, or all calls when op is empty.
func (b *Backend) Calls(op string) []Call {
	b.lock.Lock()
	defer b.lock.Unlock()
	out := make([]Call, 0, len(b.calls))
	for _, c := range b.calls {
		if op == "" || c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	op := OpToken
	if i := strings.LastIndex(r.URL.Path, ":"); i >= 0 {
		op = r.URL.Path[i+1:]
	}

	call := Call{Op: op, Method: r.Method, Key: r.URL.Query().Get("key")}
	if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}

	b.lock.Lock()
	b.calls = append(b.calls, call)
	queue := b.replies[op]
	var reply Reply
	found := len(queue) > 0
	if found {
		reply = queue[0]
		b.replies[op] = queue[1:]
	}
	b.lock.Unlock()

	if !found {
		reply = Reply{Status: http.StatusNotFound, Body: map[string]any{
			"error": map[string]any{"message": "UNEXPECTED_CALL", "code": http.StatusNotFound},
		}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	if reply.Raw != "" {
		_, _ = io.WriteString(w, reply.Raw)
		return
	}
	_ = json.NewEncoder(w).Encode(reply.Body)
}
