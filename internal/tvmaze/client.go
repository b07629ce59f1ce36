package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Catalog is the read-only surface of the TVMaze API used by the browser and
// the detail loader. Cancellation is carried by ctx.
type Catalog interface {
	GetPage(ctx context.Context, page int) ([]Show, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	GetByID(ctx context.Context, id int) (*Show, error)
}

// Ensure Client implements Catalog at compile time.
var _ Catalog = (*Client)(nil)

// ErrInvalidArgument is returned for requests rejected before reaching the network.
var ErrInvalidArgument = errors.New("invalid argument")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// StatusCode exposes the HTTP status for error classification.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Options configure a Client. Zero values select defaults.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	RateRequests int
	RateWindow   time.Duration
	CacheSize    int
	CacheTTL     time.Duration
	Logger       *zap.Logger
	HTTPClient   *http.Client
}

// Client talks to the TVMaze HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	pages     *expirable.LRU[int, []Show]
	shows     *expirable.LRU[int, Show]
	logger    *zap.Logger
}

const (
	DefaultBaseURL    = "https://api.tvmaze.com"
	defaultUserAgent  = "telly/0.1"
	requestTimeout    = 10 * time.Second
	defaultRateWindow = 10 * time.Second
)

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = requestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		userAgent: defaultUserAgent,
		limiter:   newLimiter(opts.RateRequests, opts.RateWindow),
		logger:    logger.Named("tvmaze"),
	}
	if opts.CacheSize > 0 {
		c.pages = expirable.NewLRU[int, []Show](opts.CacheSize, nil, opts.CacheTTL)
		c.shows = expirable.NewLRU[int, Show](opts.CacheSize, nil, opts.CacheTTL)
	}
	return c, nil
}

func newLimiter(requests int, window time.Duration) *rate.Limiter {
	if requests <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if window <= 0 {
		window = defaultRateWindow
	}
	return rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
}

// GetPage retrieves one page of the show index (250 shows per page).
func (c *Client) GetPage(ctx context.Context, page int) ([]Show, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if page < 0 {
		return nil, fmt.Errorf("page %d: %w", page, ErrInvalidArgument)
	}
	if c.pages != nil {
		if cached, ok := c.pages.Get(page); ok {
			c.logger.Debug("page cache hit", zap.Int("page", page))
			return slices.Clone(cached), nil
		}
	}

	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	rel := &url.URL{Path: "/shows", RawQuery: values.Encode()}
	var payload []Show
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	if c.pages != nil {
		c.pages.Add(page, slices.Clone(payload))
	}
	return payload, nil
}

// Search runs a fuzzy show search. Results are ordered by relevance.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("empty search query: %w", ErrInvalidArgument)
	}
	values := url.Values{}
	values.Set("q", q)
	rel := &url.URL{Path: "/search/shows", RawQuery: values.Encode()}
	var payload []SearchResult
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetByID retrieves a single show.
func (c *Client) GetByID(ctx context.Context, id int) (*Show, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return nil, fmt.Errorf("show id %d: %w", id, ErrInvalidArgument)
	}
	if c.shows != nil {
		if cached, ok := c.shows.Get(id); ok {
			c.logger.Debug("show cache hit", zap.Int("id", id))
			return &cached, nil
		}
	}

	var payload Show
	if err := c.do(ctx, http.MethodGet, "/shows/"+strconv.Itoa(id), &payload); err != nil {
		return nil, err
	}
	if c.shows != nil {
		c.shows.Add(id, payload)
	}
	return &payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("path", rel.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode, Path: rel.Path}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_base %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
