package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the YGOPRODeck card database API
	DefaultBaseURL = "https://db.ygoprodeck.com/api/v7"

	// The API allows 20 req/s; stay under it
	rateLimitDelay = 100 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// SetInfo is the catalog's answer for one specific card printing
type SetInfo struct {
	Name      string `json:"name"`
	SetCode   string `json:"set_code"`
	SetName   string `json:"set_name"`
	SetRarity string `json:"set_rarity"`
	SetPrice  string `json:"set_price"`
}

// NotFoundError indicates the catalog has no card for the given set code
type NotFoundError struct {
	SetCode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no card found for set code %s", e.SetCode)
}

// APIError is a structured error response from the catalog
type APIError struct {
	Status  int    `json:"status"`
	Details string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.Status, e.Details)
}

// Client is a rate-limited HTTP client for the external card catalog
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// NewClient creates a catalog client. An empty baseURL selects the
// public YGOPRODeck endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "yugioh-server/1.0",
	}
}

// LookupSetCode asks the catalog for the card printed with the given
// set code, verbatim. Returns *NotFoundError when the code is unknown.
func (c *Client) LookupSetCode(ctx context.Context, setCode string) (*SetInfo, error) {
	reqURL := fmt.Sprintf("%s/cardsetsinfo.php?setcode=%s", c.baseURL, url.QueryEscape(setCode))

	var info SetInfo
	if err := c.doRequest(ctx, reqURL, &info); err != nil {
		if nf, ok := err.(*NotFoundError); ok {
			nf.SetCode = setCode
		}
		return nil, err
	}

	// The endpoint answers 200 with an empty object for some unknown codes
	if info.Name == "" {
		return nil, &NotFoundError{SetCode: setCode}
	}

	return &info, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic
func (c *Client) doRequest(ctx context.Context, reqURL string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("failed to read response body: %w", readErr)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound, http.StatusBadRequest:
			// The set-code endpoint reports unknown codes as 400
			return &NotFoundError{}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				apiErr.Status = resp.StatusCode
				return &apiErr
			}
			return fmt.Errorf("catalog request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
