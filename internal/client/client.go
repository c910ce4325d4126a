// Package client is a Go client for the chorecore HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/chorecore/internal/chore"
	"github.com/dukerupert/chorecore/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("chorecore: status %d", e.Status)
	}
	return fmt.Sprintf("chorecore: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Client talks to one chorecore server. It remembers the bearer token from
// the last successful Register or Login.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Auth struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   *model.Account `json:"account"`
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Auth, error) {
	var a Auth
	if err := c.do(ctx, "POST", path, map[string]string{"email": email, "password": password}, &a); err != nil {
		return nil, err
	}
	c.SetToken(a.Token)
	return &a, nil
}

func (c *Client) Register(ctx context.Context, email, password string) (*Auth, error) {
	return c.authenticate(ctx, "/auth/register", email, password)
}

func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	return c.authenticate(ctx, "/auth/login", email, password)
}

// Me is the caller's identity and, once onboarded, their house profile.
type Me struct {
	UserID      string             `json:"user_id"`
	Email       string             `json:"email"`
	Provisioned bool               `json:"provisioned"`
	Profile     *model.UserProfile `json:"profile"`
}

func (c *Client) Me(ctx context.Context) (*Me, error) {
	var m Me
	if err := c.do(ctx, "GET", "/api/me", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

type House struct {
	House      *model.House       `json:"house"`
	Profile    *model.UserProfile `json:"profile"`
	InviteCode string             `json:"invite_code"`
}

func (c *Client) CreateHouse(ctx context.Context, name, displayName string) (*House, error) {
	var h House
	err := c.do(ctx, "POST", "/api/houses", map[string]string{"name": name, "display_name": displayName}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) JoinHouse(ctx context.Context, inviteCode, displayName string) (*House, error) {
	var h House
	err := c.do(ctx, "POST", "/api/houses/join", map[string]string{"invite_code": inviteCode, "display_name": displayName}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Members(ctx context.Context) ([]model.HouseMember, error) {
	var members []model.HouseMember
	if err := c.do(ctx, "GET", "/api/house/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) Templates(ctx context.Context) ([]model.RecurringTask, error) {
	var ts []model.RecurringTask
	if err := c.do(ctx, "GET", "/api/recurring-tasks", nil, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (c *Client) CreateTemplate(ctx context.Context, t model.RecurringTask) (*model.RecurringTask, error) {
	var out model.RecurringTask
	if err := c.do(ctx, "POST", "/api/recurring-tasks", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chores lists the house's chores for date (YYYY-MM-DD).
func (c *Client) Chores(ctx context.Context, date string) ([]model.Chore, error) {
	var chores []model.Chore
	if err := c.do(ctx, "GET", "/api/chores?date="+url.QueryEscape(date), nil, &chores); err != nil {
		return nil, err
	}
	return chores, nil
}

func (c *Client) Generate(ctx context.Context, date string) (*chore.GenerateResult, error) {
	var res chore.GenerateResult
	if err := c.do(ctx, "POST", "/api/chores/generate", map[string]string{"date": date}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Toggle(ctx context.Context, id string) (*model.Chore, error) {
	var out model.Chore
	if err := c.do(ctx, "POST", "/api/chores/"+url.PathEscape(id)+"/toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Approve(ctx context.Context, id string, awardedPoints int) (*chore.ApproveResult, error) {
	var res chore.ApproveResult
	body := map[string]int{"awarded_points": awardedPoints}
	if err := c.do(ctx, "POST", "/api/chores/"+url.PathEscape(id)+"/approve", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Pending(ctx context.Context) ([]model.Chore, error) {
	var chores []model.Chore
	if err := c.do(ctx, "GET", "/api/chores/pending", nil, &chores); err != nil {
		return nil, err
	}
	return chores, nil
}
