package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/noah-isme/guardforce-admin/pkg/config"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// TokenSource supplies the bearer token of the active session, or "" when signed out.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client talks to the external guarding REST API. Every call waits on a shared token bucket.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *zap.Logger
}

// apiError is the error body returned by the guarding API.
type apiError struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// New builds a client from the upstream configuration.
func New(cfg config.UpstreamConfig, tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		http:    resty.New(),
		limiter: rate.NewLimiter(limit, burst),
		tokens:  tokens,
		logger:  logger,
	}
	c.http.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)
	c.http.OnBeforeRequest(c.beforeRequest)
	return c
}

func (c *Client) beforeRequest(_ *resty.Client, req *resty.Request) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	return nil
}

// Do issues one request and returns the raw JSON body of a 2xx response.
// Non-2xx outcomes come back as *errors.Error carrying the API's message and field errors.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	apiErr := new(apiError)
	req := c.http.R().SetContext(ctx).SetError(apiErr)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("upstream request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "Unable to reach the server. Please check your connection.")
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		c.logger.Debug("upstream rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, decodeError(resp.StatusCode(), apiErr, resp.Body())
	}
	return resp.Body(), nil
}

// Get is a convenience wrapper around Do.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post is a convenience wrapper around Do.
func (c *Client) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put is a convenience wrapper around Do.
func (c *Client) Put(ctx context.Context, path string, body interface{}) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete is a convenience wrapper around Do.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func decodeError(status int, parsed *apiError, raw []byte) *appErrors.Error {
	if parsed == nil || (parsed.Message == "" && parsed.Error == "" && len(parsed.Errors) == 0) {
		parsed = &apiError{}
		_ = json.Unmarshal(raw, parsed)
	}
	message := parsed.Message
	if message == "" {
		message = parsed.Error
	}
	out := appErrors.FromStatus(status, message)
	if len(parsed.Errors) > 0 {
		out.Fields = make(map[string]string, len(parsed.Errors))
		keys := make([]string, 0, len(parsed.Errors))
		for field, msgs := range parsed.Errors {
			if len(msgs) > 0 {
				out.Fields[field] = msgs[0]
				keys = append(keys, field)
			}
		}
		if out.Message == "" && len(keys) > 0 {
			sort.Strings(keys)
			out.Message = out.Fields[keys[0]]
		}
	}
	return out
}
