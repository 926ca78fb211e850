package gateway

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
	"sync"
	"time"

	"kantin-be/internal/category"
	"kantin-be/internal/localstore"
	"kantin-be/internal/logger"
	"kantin-be/internal/menu"
	"kantin-be/internal/settings"
	"kantin-be/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const loginPath = "/api/auth/login"

// SessionKey is where the admin session is kept between kiosk runs.
const SessionKey = "admin_session"

// Client talks to the REST API of cmd/server.
type Client struct {
	baseURL string
	http    *http.Client
	kv      localstore.KV
	now     func() time.Time

	hub         *authHub
	resolveOnce sync.Once

	mu      sync.Mutex
	session *user.Session
	expiry  *time.Timer
}

var _ Gateway = (*Client)(nil)

// NewClient builds a Client. kv may be nil, in which case sessions do not
// survive a restart.
func NewClient(baseURL string, httpClient *http.Client, kv localstore.KV) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		kv:      kv,
		now:     time.Now,
		hub:     newAuthHub(),
	}
}

// ---------- transport ----------

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	reqID := logger.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	tok := c.token()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	log := logger.Op(ctx, "gateway", method+" "+path, zap.String("request_id", reqID))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&eb)
		if eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: eb.Error}

		// the server no longer accepts our token; a failed login says nothing about it
		if resp.StatusCode == http.StatusUnauthorized && tok != "" && path != loginPath {
			c.dropSession(ctx, tok, "token rejected")
		}

		log.Debug("non-2xx response", zap.Int("status", resp.StatusCode), zap.String("error", eb.Error))
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// ---------- menu items ----------

func (c *Client) ListMenuItems(ctx context.Context) ([]menu.MenuItem, error) {
	var items []menu.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu-items", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []menu.MenuItem{}
	}
	return items, nil
}

func (c *Client) GetMenuItem(ctx context.Context, id string) (*menu.MenuItem, error) {
	var item menu.MenuItem
	err := c.do(ctx, http.MethodGet, "/api/menu-items/"+url.PathEscape(id), nil, &item)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (c *Client) CreateMenuItem(ctx context.Context, in menu.NewMenuItem) (string, error) {
	var created menu.MenuItem
	if err := c.do(ctx, http.MethodPost, "/api/menu-items", in, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, in menu.UpdateMenuItem) error {
	return c.do(ctx, http.MethodPatch, "/api/menu-items/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu-items/"+url.PathEscape(id), nil, nil)
}

// ---------- categories ----------

func (c *Client) ListCategories(ctx context.Context) ([]category.Category, error) {
	var cats []category.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []category.Category{}
	}
	return cats, nil
}

func (c *Client) CreateCategory(ctx context.Context, in category.NewCategory) (string, error) {
	var created category.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", in, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in category.UpdateCategory) error {
	return c.do(ctx, http.MethodPatch, "/api/categories/"+url.PathEscape(id), in, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil)
}

// ---------- settings & seed ----------

func (c *Client) GetSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

func (c *Client) PutSettings(ctx context.Context, s settings.Settings) error {
	return c.do(ctx, http.MethodPut, "/api/settings", s, nil)
}

func (c *Client) SeedIfEmpty(ctx context.Context) (bool, error) {
	var out struct {
		Seeded bool `json:"seeded"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/seed", nil, &out); err != nil {
		return false, err
	}
	return out.Seeded, nil
}
