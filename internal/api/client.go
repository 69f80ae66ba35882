package api

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
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkortel/panelauth/internal/lib/reqid"
)

var ErrUnreachable = errors.New("backend unreachable")

// TokenSource supplies the bearer credential for outgoing calls.
type TokenSource interface {
	Get(ctx context.Context) (token string, ok bool)
}

// Client is the JSON/REST transport shared by all resource clients. It
// attaches the bearer token and correlation headers and folds the backend's
// error body conventions into *Error.
type Client struct {
	log      *slog.Logger
	base     string
	httpc    *http.Client
	tokens   TokenSource
	clientID string
}

// New returns a new instance of the API client.
func New(log *slog.Logger, baseURL string, timeout time.Duration, tokens TokenSource) (*Client, error) {
	const op = "api.New"

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base URL must be absolute: %q", op, baseURL)
	}

	return &Client{
		log:      log,
		base:     strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: timeout},
		tokens:   tokens,
		clientID: uuid.NewString(),
	}, nil
}

// BaseURL returns the configured backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// AbsoluteURL rewrites a server-relative resource path (for example a
// profile image returned as "/uploads/x.png") into an absolute URL.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return c.base + path
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, nil)
}

func (c *Client) patch(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPatch, path, nil, struct{}{}, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	const op = "api.do"

	requestID, ok := reqid.Get(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	log := c.log.With(
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
	)

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("X-Client-ID", c.clientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Get(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}
		log.Warn("request failed", slog.Any("error", err))
		return fmt.Errorf("%s: %w: %v", op, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := decodeError(resp.StatusCode, raw)
		log.Debug("request rejected", slog.Int("status", resp.StatusCode), slog.String("message", apiErr.Message))
		return fmt.Errorf("%s: %w", op, apiErr)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}
