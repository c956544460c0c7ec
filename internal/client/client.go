// Package client talks to the war planner HTTP API. It implements the
// planning package's remote interfaces so a Session can run against a
// live server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/planning"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client handles HTTP communication with the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 30s-timeout http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token up front.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL (without /api/v1).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.Logger.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the API root, e.g. http://host/api/v1.
func (c *Client) BaseURL() string { return c.baseURL }

type authResponse struct {
	Player      domain.Player `json:"player"`
	AccessToken string        `json:"accessToken"`
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, name, password string) (*domain.Player, error) {
	body := map[string]string{"name": name, "password": password}
	var result authResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.AccessToken)
	return &result.Player, nil
}

// Me returns the authenticated player.
func (c *Client) Me(ctx context.Context) (*domain.Player, error) {
	var p domain.Player
	if err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends a JSON request and decodes a JSON response into out. Transport
// failures and non-2xx answers come back as *planning.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &planning.NetworkError{Op: op, Err: err}
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &planning.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(bodyBytes))
		var eb errorBody
		if json.Unmarshal(bodyBytes, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Debug().
			Str("op", op).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg(msg)
		return &planning.NetworkError{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &planning.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ne *planning.NetworkError
	if errors.As(err, &ne) {
		return ne.Status
	}
	return 0
}
