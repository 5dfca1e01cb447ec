// Package catalog talks to an Alma style items REST API.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Code)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Client fetches and updates items one request at a time.
type Client struct {
	base   string
	apiKey string
	http   *http.Client
	log    *zap.Logger
}

// New builds a client. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("catalog base url is empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog api key is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    logger,
	}, nil
}

// FetchItem looks an item up by barcode.
func (c *Client) FetchItem(ctx context.Context, barcode string) (*Item, error) {
	q := url.Values{}
	q.Set("item_barcode", barcode)
	q.Set("apikey", c.apiKey)
	endpoint := c.base + "/items?" + q.Encode()

	c.log.Debug("fetching item", zap.String("barcode", barcode))
	body, err := c.do(ctx, "fetch item", http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return ParseItem(body)
}

// UpdateItem writes item back to its own link.
func (c *Client) UpdateItem(ctx context.Context, item *Item) error {
	link := item.Link()
	if link == "" {
		return fmt.Errorf("item has no link")
	}
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("invalid item link: %w", err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	payload, err := item.Marshal()
	if err != nil {
		return err
	}
	c.log.Debug("updating item", zap.String("link", link))
	_, err = c.do(ctx, "update item", http.MethodPut, u.String(), payload)
	return err
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	if payload != nil {
		req.Header.Set("Content-Type", "application/xml")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("catalog request rejected", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}
	return data, nil
}
