package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"
)

// StubResponse is one scripted reply.
type StubResponse struct {
	Status int
	Body   string
	Header map[string]string

	// Delay holds the reply back, for timeout and cancellation tests.
	Delay time.Duration
}

// JSON returns a scripted reply with the given status and raw JSON body.
func JSON(status int, body string) StubResponse {
	return StubResponse{Status: status, Body: body}
}

// Status returns a scripted reply with no body.
func Status(status int) StubResponse {
	return StubResponse{Status: status}
}

// RecordedRequest is a request captured by StubServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// DecodeBody unmarshals the captured JSON body.
func (r RecordedRequest) DecodeBody(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decode %s %s body: %v", r.Method, r.Path, err)
	}
}

type route struct {
	responses []StubResponse
	handler   http.HandlerFunc
}

// StubServer is an httptest server that plays scripted YouTrack responses.
// Routes are keyed by method and path; query strings are ignored for matching.
type StubServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]*route
	calls    map[string]int
	requests []RecordedRequest
}

// NewStubServer starts a stub server that is closed when the test ends.
func NewStubServer(t *testing.T) *StubServer {
	t.Helper()

	s := &StubServer{
		routes: make(map[string]*route),
		calls:  make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Handle scripts a sequence of responses for a route. Each call consumes the
// next response; the last one repeats once the sequence is exhausted.
func (s *StubServer) Handle(method, path string, responses ...StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(method, path)] = &route{responses: responses}
}

// HandleFunc serves a route with a custom handler.
func (s *StubServer) HandleFunc(method, path string, fn http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(method, path)] = &route{handler: fn}
}

// HandlePaged serves items as a bare JSON array honoring $skip and $top.
func (s *StubServer) HandlePaged(method, path string, items []any) {
	s.HandleFunc(method, path, func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.Atoi(r.URL.Query().Get("$skip"))
		top, err := strconv.Atoi(r.URL.Query().Get("$top"))
		if err != nil || top <= 0 {
			top = len(items)
		}

		start := min(skip, len(items))
		end := min(start+top, len(items))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items[start:end])
	})
}

// Calls returns how many times a route was hit.
func (s *StubServer) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, path)]
}

// TotalCalls returns the number of requests received on any route.
func (s *StubServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of every captured request in arrival order.
func (s *StubServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request for a route.
func (s *StubServer) LastRequest(method, path string) (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return RecordedRequest{}, false
}

func (s *StubServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := routeKey(r.Method, r.URL.Path)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	n := s.calls[key]
	s.calls[key] = n + 1
	rt, ok := s.routes[key]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":"Not Found","error_description":"no stub for %s"}`, key)
		return
	}

	if rt.handler != nil {
		rt.handler(w, r)
		return
	}

	resp := StubResponse{Status: http.StatusOK}
	if len(rt.responses) > 0 {
		resp = rt.responses[min(n, len(rt.responses)-1)]
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	if resp.Body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	for k, v := range resp.Header {
		w.Header().Set(k, v)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp.Body)
}
