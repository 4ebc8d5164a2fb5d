// Package stripeapi is a minimal client for the Stripe payment intents
// API, implementing payment.Provider. Stripe's API is form-encoded on
// requests and JSON on responses.
package stripeapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/payment"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	maxRetries     = 3
	initialDelay   = 500 * time.Millisecond
)

// Compile-time check ensuring Client satisfies payment.Provider.
var _ payment.Provider = (*Client)(nil)

// Client talks to the Stripe API with a fixed secret key. Construct one
// at process start and share it; it is safe for concurrent use.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used in tests and against
// stripe-mock.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client, e.g. to add an
// instrumented transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a Stripe client authenticated with the given secret key.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// intentPayload mirrors the fields of a Stripe payment intent this
// service reads.
type intentPayload struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type errorPayload struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx response from Stripe.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return "stripe: " + e.Message
	}
	return "stripe: request failed with status " + strconv.Itoa(e.StatusCode)
}

// CreateIntent opens a payment intent for the given amount. Each call
// sends a fresh Idempotency-Key so retried transport failures cannot
// double-create intents at Stripe.
func (c *Client) CreateIntent(ctx context.Context, params payment.CreateIntentParams) (*payment.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", params.Currency)
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	for i, t := range params.PaymentMethodTypes {
		form.Set("payment_method_types["+strconv.Itoa(i)+"]", t)
	}
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	headers := http.Header{}
	headers.Set("Idempotency-Key", uuid.New().String())

	var out intentPayload
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", form, headers, &out); err != nil {
		return nil, err
	}
	return fromPayload(out), nil
}

// RetrieveIntent fetches the current state of a payment intent. The
// returned status is the authority's, never a cached or caller-supplied
// value.
func (c *Client) RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error) {
	if id == "" {
		return nil, errors.New("payment intent id is empty")
	}

	var out intentPayload
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return fromPayload(out), nil
}

func fromPayload(p intentPayload) *payment.Intent {
	return &payment.Intent{
		ID:           p.ID,
		ClientSecret: p.ClientSecret,
		Status:       p.Status,
		Amount:       p.Amount,
		Currency:     p.Currency,
	}
}

// do performs one API call with retries on 429 and 5xx responses.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, headers http.Header, out any) error {
	var body string
	if form != nil {
		body = form.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := initialDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, strings.NewReader(body))
		if err != nil {
			return errors.Wrap(err, "create request")
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = errors.Wrap(err, "request")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "read response")
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return errors.Wrap(err, "decode response")
			}
			return nil
		}

		apiErr := &APIError{StatusCode: resp.StatusCode}
		var ep errorPayload
		if json.Unmarshal(respBody, &ep) == nil {
			apiErr.Type = ep.Error.Type
			apiErr.Code = ep.Error.Code
			apiErr.Message = ep.Error.Message
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}
		return apiErr
	}

	return errors.Wrapf(lastErr, "giving up after %d attempts", maxRetries)
}
