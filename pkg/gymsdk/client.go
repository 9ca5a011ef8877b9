package gymsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one gymgate server. The zero SessionToken makes anonymous
// requests.
type Client struct {
	BaseURL      string
	HTTPClient   *http.Client
	SessionToken string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// Guard redirects are answers, not something to follow.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// WithSessionToken returns a copy of c that authenticates as token.
func (c *Client) WithSessionToken(token string) *Client {
	cp := *c
	cp.SessionToken = token
	return &cp
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	return &out, c.do(ctx, http.MethodGet, "/livez", nil, &out, http.StatusOK)
}

// GetReadiness returns the health body even when the server answers 503.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.send(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	var out JWKSResponse
	return &out, c.do(ctx, http.MethodGet, "/.well-known/jwks.json", nil, &out, http.StatusOK)
}

func (c *Client) GetSession(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	return &out, c.do(ctx, http.MethodGet, "/api/session", nil, &out, http.StatusOK)
}

// RefreshSession re-mints the session from the server's current account
// state. The returned client carries the new token.
func (c *Client) RefreshSession(ctx context.Context) (*Client, *SessionResponse, error) {
	var out SessionResponse
	if err := c.do(ctx, http.MethodPost, "/api/session/refresh", nil, &out, http.StatusOK); err != nil {
		return nil, nil, err
	}
	return c.WithSessionToken(out.Token), &out, nil
}

func (c *Client) GenerateInvites(ctx context.Context, req GenerateInvitesRequest) (*GenerateInvitesResponse, error) {
	var out GenerateInvitesResponse
	return &out, c.do(ctx, http.MethodPost, "/api/invites/generate", req, &out, http.StatusCreated)
}

func (c *Client) ListInvites(ctx context.Context) (*InviteListResponse, error) {
	var out InviteListResponse
	return &out, c.do(ctx, http.MethodGet, "/api/invites", nil, &out, http.StatusOK)
}

func (c *Client) ListUsers(ctx context.Context) (*UserListResponse, error) {
	var out UserListResponse
	return &out, c.do(ctx, http.MethodGet, "/api/users", nil, &out, http.StatusOK)
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var out User
	return &out, c.do(ctx, http.MethodPost, "/api/users", req, &out, http.StatusCreated)
}

func (c *Client) UpdateUserRole(ctx context.Context, id, role string) (*User, error) {
	var out User
	path := "/api/users/" + url.PathEscape(id)
	return &out, c.do(ctx, http.MethodPatch, path, UpdateRoleRequest{Role: role}, &out, http.StatusOK)
}

func (c *Client) DeleteUser(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(email), nil, nil, http.StatusNoContent)
}

// do sends body as JSON and decodes a response with the expected status into
// out. out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any, expected int) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expected {
		if err := parseErrorResponse(resp, raw); err != nil {
			return err
		}
		return &APIError{StatusCode: resp.StatusCode, Code: ErrorCodeServerError, Description: "unexpected status"}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.SessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.SessionToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}
