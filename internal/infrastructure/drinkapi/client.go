package drinkapi

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

	"github.com/drinkbook/client/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Compile-time interface checks.
var (
	_ domain.DrinkService  = (*Client)(nil)
	_ domain.ImageSearcher = (*Client)(nil)
)

// Client handles communication with the remote drink service
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	debug       bool
	log         *zap.Logger
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets the sustained request rate and burst size
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond > 0 && burst > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithMaxRetries sets how many attempts idempotent requests get
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new drink service client
func NewClient(baseURL string, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 10),
		maxRetries:  3,
		log:         log.Named("drinkapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug enables logging of every request and response status
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the pause before the next attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// ListDrinks fetches every recipe
func (c *Client) ListDrinks(ctx context.Context) ([]domain.Recipe, error) {
	var drinks []domain.Recipe
	if err := c.getJSON(ctx, "/drinks", nil, &drinks); err != nil {
		return nil, err
	}
	return drinks, nil
}

// CreateDrink persists a new recipe; the service assigns its id
func (c *Client) CreateDrink(ctx context.Context, drink domain.Recipe) (*domain.Recipe, error) {
	drink.ID = ""
	var created domain.Recipe
	if err := c.sendJSON(ctx, http.MethodPost, "/drinks", drink, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ToggleFavorite flips the favorite flag server-side and returns the new state
func (c *Client) ToggleFavorite(ctx context.Context, id string) (*domain.Recipe, error) {
	var updated domain.Recipe
	path := fmt.Sprintf("/drinks/%s/favorite", url.PathEscape(id))
	if err := c.sendJSON(ctx, http.MethodPatch, path, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GenerateDrink asks the service to invent and store a recipe from ingredients
func (c *Client) GenerateDrink(ctx context.Context, ingredients []string) (*domain.Recipe, error) {
	body := struct {
		Ingredients []string `json:"ingredients"`
	}{Ingredients: ingredients}

	var generated domain.Recipe
	if err := c.sendJSON(ctx, http.MethodPost, "/drinks/generate", body, &generated); err != nil {
		return nil, err
	}
	return &generated, nil
}

// RandomDrink returns a recipe chosen by the service
func (c *Client) RandomDrink(ctx context.Context) (*domain.Recipe, error) {
	var drink domain.Recipe
	if err := c.getJSON(ctx, "/drinks/random", nil, &drink); err != nil {
		return nil, err
	}
	return &drink, nil
}

// ListIngredients returns the ingredients offered by the ingredient picker
func (c *Client) ListIngredients(ctx context.Context) ([]domain.IngredientChoice, error) {
	var choices []domain.IngredientChoice
	if err := c.getJSON(ctx, "/ingredients", nil, &choices); err != nil {
		return nil, err
	}
	return choices, nil
}

// SearchImages searches stock photos for a query page
func (c *Client) SearchImages(ctx context.Context, req domain.ImageSearchRequest) ([]domain.ImageRef, error) {
	params := url.Values{}
	params.Add("name", req.Query)
	params.Add("count", strconv.Itoa(req.Count))
	params.Add("page", strconv.Itoa(req.Page))

	var raw []json.RawMessage
	if err := c.getJSON(ctx, "/drinks/images", params, &raw); err != nil {
		return nil, err
	}

	refs, err := decodeImageRefs(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	c.log.Debug("image search", zap.String("query", req.Query), zap.Int("page", req.Page), zap.Int("results", len(refs)))
	return refs, nil
}

// doRequest executes an HTTP request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, method, reqURL string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "drinkbook/1.0")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	return resp, nil
}

// getJSON performs an idempotent GET, retrying transient failures
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, params.Encode())
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		body, status, err := c.exchange(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			c.log.Warn("request error", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = err
			if ctx.Err() != nil {
				return lastErr
			}
			continue
		}

		if status >= http.StatusInternalServerError {
			c.log.Warn("server error", zap.String("path", path), zap.Int("attempt", attempt), zap.Int("status", status))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrTransport, status)
			continue
		}
		if status != http.StatusOK {
			return fmt.Errorf("%w: status %d, body: %s", domain.ErrTransport, status, truncate(body))
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransport, err)
		}
		return nil
	}

	c.log.Error("all retries failed", zap.String("path", path), zap.Error(lastErr))
	return lastErr
}

// sendJSON performs a single non-idempotent request; it is never retried
func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	respBody, status, err := c.exchange(ctx, method, c.baseURL+path, body)
	if err != nil {
		c.log.Warn("request error", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrTransport, status, truncate(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrTransport, err)
	}
	return nil
}

// exchange waits for the limiter, runs one request and reads the whole body
func (c *Client) exchange(ctx context.Context, method, reqURL string, body []byte) ([]byte, int, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("%w: rate limiter: %v", domain.ErrTransport, err)
	}

	resp, err := c.doRequest(ctx, method, reqURL, body)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %v", domain.ErrTransport, err)
	}

	if c.debug {
		c.log.Debug("response", zap.String("method", method), zap.String("url", reqURL), zap.Int("status", resp.StatusCode))
	}
	return respBody, resp.StatusCode, nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
