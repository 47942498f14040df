package youtrack

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/randalmurphal/youtrack/auth"
	ythttp "github.com/randalmurphal/youtrack/http"
)

// Client provides access to the YouTrack REST API. All services share one
// Transport. A Client is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
	token      auth.TokenInfo
	transport  *ythttp.Transport

	Issues        *IssuesService
	Projects      *ProjectsService
	Agile         *AgileService
	WorkItems     *WorkItemsService
	Admin         *AdminService
	KnowledgeBase *KnowledgeBaseService
}

// service is embedded by every domain service.
type service struct {
	client *Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. Its transport, redirect policy
// and cookie jar are reused; bearer authentication is layered on top.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for retry diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets the time source used for latency and token expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a new YouTrack client. It validates cfg and performs no I/O.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	token, err := auth.Inspect(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: token: %w", ErrConfigInvalid, err)
	}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
		token:  token,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    cfg.HTTP.MaxIdleConns,
				IdleConnTimeout: cfg.HTTP.IdleConnTimeout,
			},
		}
	}

	c.transport, err = ythttp.NewTransport(ythttp.TransportConfig{
		BaseURL:   cfg.URL,
		Token:     cfg.Token,
		Client:    c.httpClient,
		Timeout:   cfg.HTTP.Timeout,
		Retry:     cfg.retryPolicy(),
		UserAgent: cfg.HTTP.UserAgent,
		Logger:    c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}

	common := service{client: c}
	c.Issues = (*IssuesService)(&common)
	c.Projects = (*ProjectsService)(&common)
	c.Agile = (*AgileService)(&common)
	c.WorkItems = (*WorkItemsService)(&common)
	c.Admin = (*AdminService)(&common)
	c.KnowledgeBase = (*KnowledgeBaseService)(&common)

	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}

// Transport returns the shared transport for calls not covered by a service.
func (c *Client) Transport() *ythttp.Transport {
	return c.transport
}

// Token returns what is known offline about the configured token.
func (c *Client) Token() auth.TokenInfo {
	return c.token
}

// ListOptions bounds a list operation.
type ListOptions struct {
	// PageSize is the number of items requested per page. Defaults to 50.
	PageSize int

	// Limit caps the total number of items returned. Zero means no cap.
	Limit int
}

func (o *ListOptions) pageOptions() ythttp.PageOptions {
	if o == nil {
		return ythttp.PageOptions{}
	}
	return ythttp.PageOptions{PageSize: o.PageSize, Limit: o.Limit}
}

// escape builds an API path from segments, escaping each identifier.
func escape(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}

func (c *Client) get(ctx context.Context, path string, params ythttp.Params, out any) error {
	return c.transport.Get(ctx, path, params, out)
}

func (c *Client) post(ctx context.Context, path string, params ythttp.Params, body, out any) error {
	return c.transport.Post(ctx, path, params, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.transport.Delete(ctx, path)
}

// fetch sends one call for a single entity and requires the decoded entity
// to carry an id. A nil body sends none.
func fetch[T any](ctx context.Context, c *Client, method, path, fields string, body any, id func(*T) string) (*T, error) {
	req := ythttp.NewRequest(method, path).With("fields", fields)
	if body != nil {
		req.WithBody(body)
	}

	var out T
	if err := c.transport.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	if id(&out) == "" {
		return nil, ythttp.Malformed(path, nil, "response entity has no id")
	}
	return &out, nil
}

// create posts body and requires the created entity to carry an id.
func create[T any](ctx context.Context, c *Client, path, fields string, body any, id func(*T) string) (*T, error) {
	return fetch(ctx, c, http.MethodPost, path, fields, body, id)
}

// read gets a single entity by path.
func read[T any](ctx context.Context, c *Client, path, fields string, id func(*T) string) (*T, error) {
	return fetch(ctx, c, http.MethodGet, path, fields, nil, id)
}

// list returns a lazy, restartable sequence over a paginated collection.
// Errors are wrapped with op.
func list[T any](ctx context.Context, c *Client, op, path string, params ythttp.Params, opts *ListOptions) iter.Seq2[T, error] {
	seq := ythttp.Paginate(ctx, ythttp.ListFetcher[T](c.transport, path, params), opts.pageOptions())
	return func(yield func(T, error) bool) {
		for item, err := range seq {
			if err != nil {
				var zero T
				yield(zero, fmt.Errorf("%s: %w", op, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// failed returns a sequence that yields err once.
func failed[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// isReadableID reports whether id looks like "PRJ-123" rather than a database id.
func isReadableID(id string) bool {
	return !databaseID.MatchString(id) && strings.Contains(id, "-")
}

type clientKey struct{}

// ContextWithClient returns a new context with the client attached.
func ContextWithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// ClientFromContext retrieves the client from context, or nil.
func ClientFromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientKey{}).(*Client)
	return c
}
