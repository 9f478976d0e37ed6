package netbox

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsfix/netbox-fixjson/utils"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultPageSize       = 50
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
)

// Config holds connection settings for a NetBox API.
type Config struct {
	URL            string        // base URL, e.g. https://netbox.example.com
	Token          string        // API token
	CAFile         string        // optional PEM bundle for TLS verification
	Timeout        time.Duration // per-request timeout (default 30s)
	PageSize       int           // list page size (default 50)
	MaxRetries     int           // retries for list requests (default 3)
	InitialBackoff time.Duration // backoff seed for list retries (default 1s)
}

// Client is a minimal NetBox REST client covering what the repair workflow
// consumes: list all objects of a type and patch a single object.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	logger         *zap.Logger
	pageSize       int
	maxRetries     int
	initialBackoff time.Duration
}

// NewClient creates a NetBox client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("NetBox URL is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("NetBox API token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient, err := utils.NewHTTPClient(logger, timeout, cfg.CAFile)
	if err != nil {
		return nil, err
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	initialBackoff := cfg.InitialBackoff
	if initialBackoff <= 0 {
		initialBackoff = defaultInitialBackoff
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		token:          cfg.Token,
		httpClient:     httpClient,
		logger:         logger,
		pageSize:       pageSize,
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}, nil
}

// Endpoint resolves a (module, type) pair against the registry and returns
// a handle for listing its objects.
func (c *Client) Endpoint(module, objectType string) (*Endpoint, error) {
	path, err := Lookup(module, objectType)
	if err != nil {
		return nil, err
	}
	return &Endpoint{
		client:     c,
		module:     module,
		objectType: objectType,
		path:       path,
	}, nil
}

// get issues a GET and returns the response body. Non-2xx statuses become
// *utils.APIError so the retry helper can tell temporary failures apart.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to NetBox failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read NetBox response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &utils.APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}
