package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Params holds query parameters. Values may be string, bool, any integer type,
// []string, or a fmt.Stringer. Empty strings and nil values are skipped.
type Params map[string]any

// Encode renders the parameters as url.Values.
func (p Params) Encode() (url.Values, error) {
	values := make(url.Values, len(p))
	for key, raw := range p {
		switch v := raw.(type) {
		case nil:
		case string:
			if v != "" {
				values.Set(key, v)
			}
		case []string:
			for _, s := range v {
				values.Add(key, s)
			}
		case bool:
			values.Set(key, strconv.FormatBool(v))
		case int:
			values.Set(key, strconv.Itoa(v))
		case int64:
			values.Set(key, strconv.FormatInt(v, 10))
		case int32:
			values.Set(key, strconv.FormatInt(int64(v), 10))
		case uint:
			values.Set(key, strconv.FormatUint(uint64(v), 10))
		case uint64:
			values.Set(key, strconv.FormatUint(v, 10))
		case fmt.Stringer:
			if s := v.String(); s != "" {
				values.Set(key, s)
			}
		default:
			return nil, fmt.Errorf("unsupported value type %T for param %q", raw, key)
		}
	}
	return values, nil
}

// Request describes one logical API call. It is built per call and never reused.
type Request struct {
	Method string
	Path   string
	Query  Params
	Body   any
}

// NewRequest creates a request with an empty parameter set.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Query: Params{}}
}

// With sets a query parameter and returns the request for chaining.
func (r *Request) With(key string, value any) *Request {
	if r.Query == nil {
		r.Query = Params{}
	}
	r.Query[key] = value
	return r
}

// WithBody sets the JSON body and returns the request for chaining.
func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

// Idempotent reports whether the request may be retried automatically.
func (r *Request) Idempotent() bool {
	switch strings.ToUpper(r.Method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

func (r *Request) validate() error {
	if r.Method == "" {
		return InvalidArgument(r.Path, "request method is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return InvalidArgument(r.Path, "request path must start with /")
	}
	return nil
}

// Response is a successful (2xx) response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	// Attempts is the number of HTTP round trips made for this call.
	Attempts int

	// RequestID is the correlation id sent with the call.
	RequestID string
}
