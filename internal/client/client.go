package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/middleware"
	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// APIError carries a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error [%d]: %s", e.StatusCode, e.Message)
}

// Client talks to the backend HTTP API. The session token set via
// SetToken is attached to every request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(middleware.AuthTokenHeader, c.token)
	}

	log.Tracef("api client: %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBytes)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("unmarshal response body: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for a session token and remembers it on
// the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	loginReq := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{
		Username: username,
		Password: password,
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/a/login", loginReq, &loginResp); err != nil {
		return "", err
	}
	if loginResp.Token == "" {
		return "", errors.New("empty token in login response")
	}

	c.token = loginResp.Token
	return loginResp.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return ErrNotAuthenticated
	}
	if err := c.do(ctx, http.MethodGet, "/a/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) ListTrails(ctx context.Context) ([]trails.TrailDefinition, error) {
	var listedTrails []trails.TrailDefinition
	if err := c.do(ctx, http.MethodGet, "/trails", nil, &listedTrails); err != nil {
		return nil, err
	}
	return listedTrails, nil
}

func (c *Client) GetTrail(ctx context.Context, code string) (*trails.TrailDefinition, error) {
	var trail trails.TrailDefinition
	if err := c.do(ctx, http.MethodGet, "/trails/"+url.PathEscape(code), nil, &trail); err != nil {
		return nil, err
	}
	return &trail, nil
}

func (c *Client) RecordExecution(
	ctx context.Context,
	req trails.RecordExecutionRequest,
) (*trails.ExecutionLogDay, error) {
	var dayLog trails.ExecutionLogDay
	if err := c.do(ctx, http.MethodPost, "/trails/registro", req, &dayLog); err != nil {
		return nil, err
	}
	return &dayLog, nil
}

func (c *Client) GetDayLog(ctx context.Context, day string) (*trails.ExecutionLogDay, error) {
	var dayLog trails.ExecutionLogDay
	if err := c.do(ctx, http.MethodGet, "/trails/registro/day/"+url.PathEscape(day), nil, &dayLog); err != nil {
		return nil, err
	}
	return &dayLog, nil
}

func (c *Client) Stats(ctx context.Context, period string) (*trails.AggregateReport, error) {
	path := "/trails/stats"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}

	var report trails.AggregateReport
	if err := c.do(ctx, http.MethodGet, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
