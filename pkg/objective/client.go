package objective

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// userAgent is the fixed client identifier sent with every request.
	userAgent = "docindex-go/0.1.0"

	// envPoolSize overrides the connection pool size.
	envPoolSize = "OBJECTIVE_CONNECTION_POOL_SIZE"
)

// defaultPoolSize is computed once at process start: the environment override
// if set, otherwise CPU count * 12. It sizes both the HTTP connection pool
// and the batch worker bound so concurrency never exceeds available
// connections.
var defaultPoolSize = poolSizeFromEnv()

func poolSizeFromEnv() int {
	if v := os.Getenv(envPoolSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU() * 12
}

// DefaultPoolSize returns the process-wide default connection pool size.
func DefaultPoolSize() int {
	return defaultPoolSize
}

// sleepFunc blocks for the given duration or until the context is canceled.
// Injectable so tests can observe backoff without waiting.
type sleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Client issues authenticated requests against the Objective API with retry
// and exponential backoff for transient failures.
//
// The client owns a pooled HTTP transport shared by all callers for its
// lifetime; its capacity matches the batch worker bound.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
	maxAttempts int
	backoff     time.Duration
	sleep       sleepFunc
}

// newClient creates a Client from store configuration.
// The configuration must already have defaults applied.
func newClient(cfg Config, logger *zap.Logger) *Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.PoolSize,
		MaxIdleConnsPerHost: cfg.PoolSize,
		MaxConnsPerHost:     cfg.PoolSize,
		IdleConnTimeout:     90 * time.Second,
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		limiter:     limiter,
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.RetryBackoff,
		sleep:       defaultSleep,
	}
}

// do issues a single logical request: build URL from base + endpoint, attach
// bearer auth and JSON headers, retry on transient failure with exponential
// backoff (backoff * 2^attempt, no jitter), and decode the JSON response
// into out when non-nil.
//
// On exhausting retries, if the last failure carried a server response body
// the result is a *RemoteError wrapping that body; otherwise the underlying
// transport error propagates unchanged. Each attempt restarts the request
// from scratch.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	var lastErr error
	var lastRemote *RemoteError
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", wait),
				zap.Error(lastErr),
			)
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			lastRemote = nil
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			lastRemote = nil
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastRemote = &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
			lastErr = lastRemote
			continue
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("%w: decoding %s %s response: %v", ErrMalformedResponse, method, endpoint, err)
			}
		}
		return nil
	}

	if lastRemote != nil {
		return lastRemote
	}
	return lastErr
}

// CloseIdleConnections releases idle pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}
