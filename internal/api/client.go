// Package api is a typed client for the arena-duel HTTP server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/server"
)

const defaultTimeout = 8 * time.Second

// ErrGameOver is returned by fight actions when no match is running.
var ErrGameOver = errors.New("game over")

// StatusError is any non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Code)
	}
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}

// Config holds API configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to one server and keeps its session cookie, so one Client
// is one player.
type Client struct {
	config Config
	http   *http.Client

	// The equipment list never changes while a server runs.
	cacheMu   sync.RWMutex
	cacheTTL  time.Duration
	weapons   []models.Weapon
	armors    []models.Armor
	cacheTime time.Time
}

func NewClient(baseURL string) *Client {
	return NewClientWithConfig(Config{BaseURL: baseURL})
}

func NewClientWithConfig(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	// cookiejar.New only fails on a bad public suffix list; we pass none.
	jar, _ := cookiejar.New(nil)
	return &Client{
		config:   cfg,
		http:     &http.Client{Timeout: cfg.Timeout, Jar: jar},
		cacheTTL: 5 * time.Minute,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	base := strings.TrimRight(c.config.BaseURL, "/")
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		return decodeError(resp.StatusCode, raw, out)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// decodeError still fills out for 409s, which carry the "game over" line.
func decodeError(code int, raw []byte, out any) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &body)
	se := &StatusError{Code: code, Message: body.Error}
	if code == http.StatusConflict {
		if ar, ok := out.(*server.ActionResponse); ok && json.Unmarshal(raw, ar) == nil && ar.BattleResult != "" {
			return fmt.Errorf("%w: %w", ErrGameOver, se)
		}
	}
	return se
}

func (c *Client) apiGet(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) apiPost(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Classes(ctx context.Context) ([]models.UnitClass, error) {
	var out []models.UnitClass
	if err := c.apiGet(ctx, "/api/classes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Weapons(ctx context.Context) ([]models.Weapon, error) {
	if err := c.fillEquipment(ctx); err != nil {
		return nil, err
	}
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return append([]models.Weapon(nil), c.weapons...), nil
}

func (c *Client) Armors(ctx context.Context) ([]models.Armor, error) {
	if err := c.fillEquipment(ctx); err != nil {
		return nil, err
	}
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return append([]models.Armor(nil), c.armors...), nil
}

func (c *Client) fillEquipment(ctx context.Context) error {
	c.cacheMu.RLock()
	fresh := c.weapons != nil && time.Since(c.cacheTime) < c.cacheTTL
	c.cacheMu.RUnlock()
	if fresh {
		return nil
	}
	var (
		weapons []models.Weapon
		armors  []models.Armor
	)
	if err := c.apiGet(ctx, "/api/weapons", &weapons); err != nil {
		return err
	}
	if err := c.apiGet(ctx, "/api/armors", &armors); err != nil {
		return err
	}
	c.cacheMu.Lock()
	c.weapons, c.armors, c.cacheTime = weapons, armors, time.Now()
	c.cacheMu.Unlock()
	return nil
}

func (c *Client) ChooseHero(ctx context.Context, l models.Loadout) error {
	return c.apiPost(ctx, "/api/hero", l, nil)
}

func (c *Client) ChooseEnemy(ctx context.Context, l models.Loadout) error {
	return c.apiPost(ctx, "/api/enemy", l, nil)
}

func (c *Client) StartFight(ctx context.Context) (server.ActionResponse, error) {
	var out server.ActionResponse
	err := c.apiPost(ctx, "/api/fight", nil, &out)
	return out, err
}

func (c *Client) action(ctx context.Context, name string) (server.ActionResponse, error) {
	var out server.ActionResponse
	err := c.apiPost(ctx, "/api/fight/"+name, nil, &out)
	return out, err
}

func (c *Client) Hit(ctx context.Context) (server.ActionResponse, error) {
	return c.action(ctx, server.ActionHit)
}

func (c *Client) UseSkill(ctx context.Context) (server.ActionResponse, error) {
	return c.action(ctx, server.ActionSkill)
}

func (c *Client) PassTurn(ctx context.Context) (server.ActionResponse, error) {
	return c.action(ctx, server.ActionPass)
}

func (c *Client) EndFight(ctx context.Context) (server.ActionResponse, error) {
	var out server.ActionResponse
	err := c.apiPost(ctx, "/api/fight/end", nil, &out)
	return out, err
}

func (c *Client) State(ctx context.Context) (server.ActionResponse, error) {
	var out server.ActionResponse
	err := c.apiGet(ctx, "/api/fight", &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (server.StatsResponse, error) {
	var out server.StatsResponse
	err := c.apiGet(ctx, "/api/stats", &out)
	return out, err
}

// Version reports the server's build metadata.
func (c *Client) Version(ctx context.Context) (version, buildTime string, err error) {
	var out map[string]string
	if err := c.apiGet(ctx, "/version", &out); err != nil {
		return "", "", err
	}
	return out["version"], out["build_time"], nil
}
