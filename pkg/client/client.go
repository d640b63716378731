package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ambervale/stillpoint/pkg/domain"
)

// requestTimeout is the fixed ceiling for every API call. A timeout
// surfaces as a plain request error with no partial state applied.
const requestTimeout = 10 * time.Second

// SaveSessionRequest is the payload for save-draft and publish calls.
// SessionID is omitted before the backend has assigned an identifier;
// once set, every subsequent save carries it so no duplicate is created.
type SaveSessionRequest struct {
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	DataURL   string   `json:"dataUrl"`
	SessionID string   `json:"sessionId,omitempty"`
}

// AuthResult is the user + bearer token pair returned by login/register.
type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Client is the Stillpoint API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/login", body, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &res, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/auth/register", body, &res); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &res, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// ListSessions fetches a page of published sessions. tags is sent as-is
// when non-blank; the backend interprets comma-separated tag matching and
// computes pagination over the tag-filtered set.
func (c *Client) ListSessions(ctx context.Context, page, limit int, tags string) ([]domain.Session, domain.Pagination, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if strings.TrimSpace(tags) != "" {
		params.Set("tags", strings.TrimSpace(tags))
	}

	var data struct {
		Sessions   []domain.Session  `json:"sessions"`
		Pagination domain.Pagination `json:"pagination"`
	}
	if err := c.get(ctx, "/sessions?"+params.Encode(), &data); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("client.ListSessions: %w", err)
	}
	return data.Sessions, data.Pagination, nil
}

// ListMySessions fetches all of the caller's own sessions in one response.
// status filters to "draft" or "published"; empty means all.
func (c *Client) ListMySessions(ctx context.Context, status string) ([]domain.Session, error) {
	path := "/my-sessions"
	if status != "" {
		params := url.Values{}
		params.Set("status", status)
		path += "?" + params.Encode()
	}

	var data struct {
		Sessions []domain.Session `json:"sessions"`
	}
	if err := c.get(ctx, path, &data); err != nil {
		return nil, fmt.Errorf("client.ListMySessions: %w", err)
	}
	return data.Sessions, nil
}

// SaveDraft creates a new draft when req.SessionID is empty, otherwise
// updates the existing record in place. Returns the saved session,
// including the backend-assigned identifier on first save.
func (c *Client) SaveDraft(ctx context.Context, req SaveSessionRequest) (*domain.Session, error) {
	var saved domain.Session
	if err := c.post(ctx, "/my-sessions/save-draft", req, &saved); err != nil {
		return nil, fmt.Errorf("client.SaveDraft: %w", err)
	}
	return &saved, nil
}

// PublishSession publishes the session, creating it first if it has no
// identifier yet. The backend sets status to published.
func (c *Client) PublishSession(ctx context.Context, req SaveSessionRequest) (*domain.Session, error) {
	var published domain.Session
	if err := c.post(ctx, "/my-sessions/publish", req, &published); err != nil {
		return nil, fmt.Errorf("client.PublishSession: %w", err)
	}
	return &published, nil
}

// DeleteSession deletes one of the caller's sessions by ID.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/my-sessions/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteSession: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// envelope is the response wrapper used by every endpoint:
// {success, message?, data}. Failure messages are shown to the user
// verbatim.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var env envelope
		if json.Unmarshal(respBody, &env) == nil && env.Message != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: env.Message}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("decode data: %w", err)
			}
		}
	}
	return nil
}
