package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/schappie/backend/internal/domain"
)

// Client downloads the published retailer price feeds. Each store exposes one
// JSON array at {base_url}/{store}.json, refreshed daily.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new feed client
func NewClient(baseURL string) *Client {
	// Five large downloads per refresh; keep it gentle on the feed host
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// FetchAll downloads every store feed and returns the combined raw payload.
// A single failing store fails the whole refresh so the snapshot never mixes
// feed generations.
func (c *Client) FetchAll(ctx context.Context) (*domain.RawPayload, error) {
	payload := &domain.RawPayload{}

	for _, store := range domain.StoreOrder {
		body, err := c.fetchFeed(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", store, err)
		}
		if err := decodeFeed(store, body, payload); err != nil {
			return nil, fmt.Errorf("feed %s: %w", store, err)
		}
	}

	return payload, nil
}

// fetchFeed downloads one store feed with retries for transient failures
func (c *Client) fetchFeed(ctx context.Context, store domain.Store) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/%s.json", c.baseURL, store)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[FEEDS] %s attempt %d failed: %v", store, attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		log.Printf("[FEEDS] fetched %s (%d bytes)", store, len(body))
		return body, nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, lastErr)
}

// doRequest executes one HTTP GET and returns the body on a 200
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Schappie/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// decodeFeed unmarshals one store's array into its slot in the payload
func decodeFeed(store domain.Store, body []byte, payload *domain.RawPayload) error {
	switch store {
	case domain.StoreAH:
		return json.Unmarshal(body, &payload.AH)
	case domain.StoreJumbo:
		return json.Unmarshal(body, &payload.Jumbo)
	case domain.StoreDirk:
		return json.Unmarshal(body, &payload.Dirk)
	case domain.StoreAldi:
		return json.Unmarshal(body, &payload.Aldi)
	case domain.StoreHoogvliet:
		return json.Unmarshal(body, &payload.Hoogvliet)
	default:
		return fmt.Errorf("unknown store %q", store)
	}
}
