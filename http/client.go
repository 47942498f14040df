package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	nanoid "github.com/matoous/go-nanoid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultMaxRetries is the default number of retries after the first attempt.
const DefaultMaxRetries = 3

// DefaultRetryWait is the default initial wait between retries.
const DefaultRetryWait = 200 * time.Millisecond

// DefaultRetryWaitMax caps the wait between retries.
const DefaultRetryWaitMax = 5 * time.Second

// Configuration errors.
var (
	ErrBaseURLRequired = errors.New("base url is required")
	ErrBaseURLInvalid  = errors.New("base url must be an absolute http(s) url")
	ErrTokenRequired   = errors.New("bearer token is required")
)

// Transport issues authenticated requests against the YouTrack REST API.
// It holds only immutable configuration and is safe for concurrent use.
type Transport struct {
	client    *http.Client
	baseURL   string
	userAgent string
	retry     RetryPolicy
	logger    *slog.Logger
	metrics   *instruments
}

// TransportConfig holds configuration for Transport.
type TransportConfig struct {
	// BaseURL is the service root, e.g. https://example.youtrack.cloud.
	BaseURL string

	// Token is presented as "Authorization: Bearer <token>".
	Token string

	// Client supplies the base round tripper, redirect policy and cookie jar.
	// Its Timeout is used when Timeout is zero.
	Client *http.Client

	// Timeout bounds every HTTP round trip.
	Timeout time.Duration

	// Retry configures backoff for idempotent calls.
	Retry RetryPolicy

	// UserAgent is sent with every request when set.
	UserAgent string

	// Logger receives retry diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewTransport creates a Transport. It performs no I/O.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURLInvalid, cfg.BaseURL)
	}
	if cfg.Token == "" {
		return nil, ErrTokenRequired
	}

	var rt http.RoundTripper = http.DefaultTransport
	timeout := cfg.Timeout
	httpClient := &http.Client{}
	if cfg.Client != nil {
		if cfg.Client.Transport != nil {
			rt = cfg.Client.Transport
		}
		if timeout == 0 {
			timeout = cfg.Client.Timeout
		}
		httpClient.CheckRedirect = cfg.Client.CheckRedirect
		httpClient.Jar = cfg.Client.Jar
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient.Timeout = timeout
	httpClient.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
		Base:   rt,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Transport{
		client:    httpClient,
		baseURL:   base,
		userAgent: cfg.UserAgent,
		retry:     cfg.Retry.withDefaults(),
		logger:    logger,
		metrics:   newInstruments(),
	}, nil
}

// BaseURL returns the normalized service root.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// RetryPolicy returns the effective retry policy.
func (t *Transport) RetryPolicy() RetryPolicy {
	return t.retry
}

// Send executes a request. Idempotent requests are retried on rate limiting,
// server errors and network failures; mutating requests are attempted once.
// Every failure is returned as *APIError.
func (t *Transport) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	target, payload, prepErr := t.prepare(req)
	if prepErr != nil {
		return nil, prepErr
	}

	requestID := newRequestID()
	start := time.Now()

	ctx, span := t.metrics.tracer.Start(ctx, "youtrack "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String("youtrack.request_id", requestID),
		),
	)
	defer span.End()

	var (
		resp     *Response
		attempts int
	)

	policy := t.retry.newBackOff()
	operation := func() error {
		attempts++
		r, apiErr := t.roundTrip(ctx, req.Method, target, req.Path, payload, requestID)
		if apiErr == nil {
			resp = r
			return nil
		}
		if !req.Idempotent() || !apiErr.Retryable || ctx.Err() != nil {
			return backoff.Permanent(apiErr)
		}
		policy.retryAfter = apiErr.RetryAfter
		return apiErr
	}
	notify := func(err error, wait time.Duration) {
		t.metrics.retry(ctx, req.Method)
		t.logger.Debug("retrying youtrack request",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)
	span.SetAttributes(attribute.Int("youtrack.attempts", attempts))
	if err != nil {
		apiErr := t.terminalError(ctx, err, req, requestID, attempts)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, apiErr.Kind.String())
		t.metrics.finish(ctx, req.Method, start, apiErr)
		return nil, apiErr
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	t.metrics.finish(ctx, req.Method, start, nil)
	resp.Attempts = attempts
	return resp, nil
}

// Do sends the request and decodes the JSON response body into out.
// A nil out discards the body.
func (t *Transport) Do(ctx context.Context, req *Request, out any) error {
	resp, err := t.Send(ctx, req)
	if err != nil {
		return err
	}
	return Decode(resp, req.Path, out)
}

// Get performs a GET request and decodes the response into result.
func (t *Transport) Get(ctx context.Context, path string, params Params, result any) error {
	req := NewRequest(http.MethodGet, path)
	req.Query = params
	return t.Do(ctx, req, result)
}

// Post performs a POST request and decodes the response into result.
func (t *Transport) Post(ctx context.Context, path string, params Params, body, result any) error {
	req := NewRequest(http.MethodPost, path).WithBody(body)
	req.Query = params
	return t.Do(ctx, req, result)
}

// Delete performs a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string) error {
	return t.Do(ctx, NewRequest(http.MethodDelete, path), nil)
}

// Decode unmarshals a successful response. An empty or undecodable body is
// reported as KindMalformedResponse rather than defaulted, as is a null body
// where a single entity is expected.
func Decode(resp *Response, endpoint string, out any) error {
	if out == nil {
		return nil
	}
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		apiErr := Malformed(endpoint, nil, "empty response body")
		apiErr.RequestID = resp.RequestID
		return apiErr
	}
	if bytes.Equal(body, []byte("null")) && expectsObject(out) {
		apiErr := Malformed(endpoint, nil, "null response body")
		apiErr.RequestID = resp.RequestID
		return apiErr
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		apiErr := Malformed(endpoint, err, "decode response: %v", err)
		apiErr.RequestID = resp.RequestID
		return apiErr
	}
	return nil
}

// expectsObject reports whether out points to a struct.
func expectsObject(out any) bool {
	v := reflect.ValueOf(out)
	return v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct
}

func (t *Transport) prepare(req *Request) (string, []byte, error) {
	values, err := req.Query.Encode()
	if err != nil {
		return "", nil, InvalidArgument(req.Path, "%v", err)
	}

	target := t.baseURL + req.Path
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}

	if req.Body == nil {
		return target, nil, nil
	}
	payload, err := json.Marshal(req.Body)
	if err != nil {
		return "", nil, InvalidArgument(req.Path, "marshal request body: %v", err)
	}
	return target, payload, nil
}

// roundTrip performs exactly one HTTP exchange.
func (t *Transport) roundTrip(
	ctx context.Context,
	method, target, endpoint string,
	payload []byte,
	requestID string,
) (*Response, *APIError) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, InvalidArgument(endpoint, "create request: %v", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	if requestID != "" {
		httpReq.Header.Set("X-Request-Id", requestID)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		apiErr := unreachable(endpoint, err, ctx.Err() == nil)
		apiErr.RequestID = requestID
		return nil, apiErr
	}
	defer func() { _ = httpResp.Body.Close() }()

	t.metrics.roundTrip(ctx, method, httpResp.StatusCode)

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		apiErr := unreachable(endpoint, fmt.Errorf("read response body: %w", err), ctx.Err() == nil)
		apiErr.RequestID = requestID
		return nil, apiErr
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, parseError(httpResp, data, endpoint, requestID)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

// parseError builds an APIError from a non-2xx response. YouTrack reports
// {error, error_description}; some endpoints use {message} or send no body.
func parseError(resp *http.Response, body []byte, endpoint, requestID string) *APIError {
	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
		Message     string `json:"message"`
	}

	var message string
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.Description != "":
			message = errResp.Description
		case errResp.Message != "":
			message = errResp.Message
		case errResp.Error != "":
			message = errResp.Error
		}
	}

	apiErr := NewStatusError(resp.StatusCode, message, endpoint)
	apiErr.RequestID = resp.Header.Get("X-Request-Id")
	if apiErr.RequestID == "" {
		apiErr.RequestID = requestID
	}
	apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	return apiErr
}

// terminalError normalizes whatever the retry loop returned into an APIError.
func (t *Transport) terminalError(ctx context.Context, err error, req *Request, requestID string, attempts int) *APIError {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// The backoff loop stops with the bare context error when canceled mid-wait.
		apiErr = unreachable(req.Path, err, false)
		apiErr.RequestID = requestID
	}
	apiErr.Attempts = attempts
	if ctx.Err() != nil {
		apiErr.Retryable = false
	}
	// A mutation that got no response may still have been applied.
	if !req.Idempotent() && apiErr.Kind == KindUnreachable {
		apiErr.Retryable = false
	}

	if attempts > 1 && apiErr.Retryable {
		t.logger.Warn("youtrack retry budget exhausted",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("attempts", attempts),
			slog.String("kind", apiErr.Kind.String()),
			slog.String("request_id", apiErr.RequestID))
	}
	return apiErr
}

// newRequestID returns a correlation id shared by all attempts of one call.
func newRequestID() string {
	id, err := nanoid.New()
	if err != nil {
		return ""
	}
	return id
}
