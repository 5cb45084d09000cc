package gateway

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

	"golang.org/x/sync/singleflight"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

const defaultTimeout = 10 * time.Second

// ClearFunc drops the local session identified by sessionID. It is invoked
// when the backend rejects that session's token.
type ClearFunc func(ctx context.Context, sessionID string) error

// Options configures a backend gateway client.
type Options struct {
	// BaseURL is the backend API root, e.g. "http://backend:8080/api".
	BaseURL string
	// Client overrides the underlying HTTP client. Optional.
	Client *http.Client
	// Timeout applies when Client is nil.
	Timeout time.Duration
	// OnCredentialRejected is called at most once per session when the
	// backend answers 401 to an authenticated request. Optional.
	OnCredentialRejected ClearFunc
	Logger               *slog.Logger
}

// Client is the single path to the backend REST API. It attaches the current
// session's bearer token, surfaces backend failures as typed errors, and
// clears the local session when the backend rejects its token.
type Client struct {
	baseURL  string
	client   *http.Client
	onReject ClearFunc
	logger   *slog.Logger

	// clears collapses concurrent 401s for the same session into one clear.
	clears singleflight.Group

	Auth      *AuthAPI
	Books     *BooksAPI
	Members   *MembersAPI
	Loans     *LoansAPI
	Dashboard *DashboardAPI
}

// New builds a gateway client. Callers should pass a validated base URL.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse gateway base url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:  baseURL,
		client:   hc,
		onReject: opts.OnCredentialRejected,
		logger:   logger,
	}
	c.Auth = &AuthAPI{client: c}
	c.Books = &BooksAPI{client: c}
	c.Members = &MembersAPI{client: c}
	c.Loans = &LoansAPI{client: c}
	c.Dashboard = &DashboardAPI{client: c}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do performs one backend round trip. The response status is inspected
// exactly once: 401 clears the session and becomes ErrCredentialRejected,
// other non-2xx become *StatusError, transport failures become
// *TransportError. There are no retries and no response caching.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("create backend request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	sess := domainauth.SessionFromContext(ctx)
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		c.rejectCredentials(ctx, sess)
		return ErrCredentialRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// rejectCredentials clears the session whose token the backend refused.
// Concurrent rejections for the same session produce a single clear.
func (c *Client) rejectCredentials(ctx context.Context, sess *domainauth.Session) {
	if sess == nil || sess.ID == "" || c.onReject == nil {
		return
	}
	_, _, _ = c.clears.Do(sess.ID, func() (any, error) {
		if err := c.onReject(ctx, sess.ID); err != nil {
			c.logger.Warn("failed to clear rejected session",
				slog.String("session_id", sess.ID),
				slog.String("error", err.Error()))
		}
		return nil, nil
	})
}

// errorPayload matches the backend's error envelope; it uses "error" for
// business failures and "message" for a few legacy endpoints.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) statusError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return &StatusError{Code: resp.StatusCode}
	}

	var payload errorPayload
	message := ""
	if err := json.Unmarshal(raw, &payload); err == nil {
		message = payload.Error
		if message == "" {
			message = payload.Message
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: message}
}
