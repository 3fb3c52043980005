package phemex

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gridwatch/backend/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.phemex.com"

	// signatures stay valid this long after signing
	expiryWindow = 60 * time.Second

	maxBackoff = 10 * time.Second

	headerAccessToken = "x-phemex-access-token"
	headerSignature   = "x-phemex-request-signature"
	headerExpiry      = "x-phemex-request-expiry"
)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	RatePerSecond  float64
	RateBurst      int
	MaxRetries     int
	RetryBackoff   time.Duration

	HTTPClient *http.Client
	Now        func() time.Time
}

// Client issues signed requests against the Phemex REST API.
// It holds no credentials; every call receives the pair it should sign with.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxRetries   int
	retryBackoff time.Duration
	now          func() time.Time
	log          *logger.Logger
}

// NewClient creates a new Phemex client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   httpClient,
		limiter:      limiter,
		maxRetries:   maxRetries,
		retryBackoff: cfg.RetryBackoff,
		now:          now,
		log:          logger.GetLogger().Component("phemex"),
	}
}

// Sign computes the hex HMAC-SHA256 of path + query + expiry + body
func Sign(secret, path, query string, expiry int64, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(path))
	mac.Write([]byte(query))
	mac.Write([]byte(strconv.FormatInt(expiry, 10)))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeQuery joins params as key=value pairs with '&', keeping caller order.
// Values are sent as given, matching what gets signed.
func EncodeQuery(params []Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, "&")
}

// Do sends a signed request and returns the envelope's data payload.
// A nil body sends no body and signs an empty string.
func (c *Client) Do(ctx context.Context, creds Credentials, method, path string, params []Param, body interface{}) (json.RawMessage, error) {
	var bodyJSON []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyJSON = encoded
	}
	query := EncodeQuery(params)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, lastErr
			}
			c.log.WithFields(map[string]interface{}{
				"path":    path,
				"attempt": attempt,
			}).Debug("retrying phemex request")
		}

		data, err := c.doOnce(ctx, creds, method, path, query, bodyJSON)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, creds Credentials, method, path, query string, bodyJSON []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}

	expiry := c.now().Add(expiryWindow).Unix()
	signature := Sign(creds.APISecret, path, query, expiry, string(bodyJSON))

	url := c.baseURL + path
	if query != "" {
		url += "?" + query
	}

	var reader io.Reader
	if len(bodyJSON) > 0 {
		reader = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAccessToken, creds.APIKey)
	req.Header.Set(headerSignature, signature)
	req.Header.Set(headerExpiry, strconv.FormatInt(expiry, 10))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{Path: path}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Path: path}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &TransportError{Path: path, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Path: path, Err: err}
	}

	var env struct {
		Code *int64          `json:"code"`
		Msg  *string         `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &NetworkError{Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Code == nil || *env.Code != 0 {
		apiErr := &APIError{Path: path, Message: "Unknown API error"}
		if env.Code != nil {
			apiErr.Code = *env.Code
		}
		if env.Msg != nil && *env.Msg != "" {
			apiErr.Message = *env.Msg
		}
		return nil, apiErr
	}

	return env.Data, nil
}

// sleep waits an exponential backoff before attempt, bounded by maxBackoff
func (c *Client) sleep(ctx context.Context, attempt int) error {
	var wait time.Duration
	if c.retryBackoff > 0 {
		wait = c.retryBackoff << (attempt - 1)
		if wait <= 0 || wait > maxBackoff {
			wait = maxBackoff
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// errMissingCredentials guards endpoint wrappers against empty pairs
var errMissingCredentials = errors.New("phemex: missing API credentials")
