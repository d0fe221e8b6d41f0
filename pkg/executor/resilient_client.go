package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	maxBodyBytes   = 4 << 20
)

var (
	ErrCircuitOpen = errors.New("circuit breaker open")
	ErrDecode      = errors.New("malformed response body")
)

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Permanent reports whether retrying the request cannot help.
func (e *StatusError) Permanent() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != http.StatusTooManyRequests
}

type ResilienceConfig struct {
	BackoffSettings        *backoff.ExponentialBackOff
	CircuitBreakerSettings gobreaker.Settings
	CircuitBreaker         *gobreaker.CircuitBreaker
	MaxRetries             uint64
}

func NewResilienceConfig(defaultBackOff *backoff.ExponentialBackOff, cbs gobreaker.Settings, maxRetries uint64) *ResilienceConfig {
	return &ResilienceConfig{
		BackoffSettings:        defaultBackOff,
		CircuitBreakerSettings: cbs,
		CircuitBreaker:         gobreaker.NewCircuitBreaker(cbs),
		MaxRetries:             maxRetries,
	}
}

// DefaultResilienceConfig trips the breaker after five consecutive
// transport failures and retries each request up to maxRetries times.
func DefaultResilienceConfig(name string, maxRetries uint64) *ResilienceConfig {
	cbs := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
	}
	return NewResilienceConfig(
		&backoff.ExponentialBackOff{
			InitialInterval:     250 * time.Millisecond,
			MaxInterval:         5 * time.Second,
			MaxElapsedTime:      30 * time.Second,
			Multiplier:          1.5,
			RandomizationFactor: 0.5,
			Stop:                backoff.Stop,
			Clock:               backoff.SystemClock,
		},
		cbs,
		maxRetries,
	)
}

// newBackOff returns a fresh policy per request; ExponentialBackOff is
// stateful and must not be shared between goroutines.
func (r *ResilienceConfig) newBackOff(ctx context.Context) backoff.BackOff {
	b := *r.BackoffSettings
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(&b, r.MaxRetries), ctx)
}

// ResilientHTTPClient issues GET requests for JSON documents through a
// circuit breaker with exponential backoff retries.
type ResilientHTTPClient struct {
	HTTPClient *http.Client
	ResConf    *ResilienceConfig
}

func NewResilientClient(timeout time.Duration, resConf *ResilienceConfig) *ResilientHTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if resConf == nil {
		resConf = DefaultResilienceConfig("http", DefaultRetries)
	}
	return &ResilientHTTPClient{
		HTTPClient: &http.Client{Timeout: timeout},
		ResConf:    resConf,
	}
}

// GetJSON fetches url and decodes the body into out. Client errors and
// undecodable bodies are returned without retrying.
func (c *ResilientHTTPClient) GetJSON(ctx context.Context, url string, out any) error {
	logger := lg.FromContext(ctx)
	attempt := 0

	operation := func() error {
		attempt++
		body, err := c.ResConf.CircuitBreaker.Execute(func() (any, error) {
			return c.get(ctx, url)
		})
		switch {
		case err == nil:
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(fmt.Errorf("GET %s: %w: %v", url, ErrCircuitOpen, err))
		case ctx.Err() != nil, isPermanent(err):
			return backoff.Permanent(err)
		default:
			logger.Debug("request failed", lg.String("url", url), lg.Int("attempt", attempt), lg.Err(err))
			return err
		}

		if err := json.Unmarshal(body.([]byte), out); err != nil {
			return backoff.Permanent(fmt.Errorf("GET %s: %w: %v", url, ErrDecode, err))
		}
		return nil
	}

	return backoff.Retry(operation, c.ResConf.newBackOff(ctx))
}

func (c *ResilientHTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", url, err)
	}
	return body, nil
}

func isPermanent(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Permanent()
}
