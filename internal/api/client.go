// Package api implements the storefront's HTTP client. The checkout
// orchestrator depends only on the Client interface; this package supplies
// the real implementation against the shop API.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// Client is the network collaborator the orchestrator submits orders
// through. Both operations are blocking and fallible; neither retries.
type Client interface {
	FetchCatalog(ctx context.Context) ([]product.Product, error)
	SubmitOrder(ctx context.Context, payload OrderPayload) (OrderConfirmation, error)
}

// OrderPayload is the request body for POST /order, built at submission
// time from the basket and buyer snapshots.
type OrderPayload struct {
	Payment string
	Address string
	Email   string
	Phone   string
	Total   decimal.Decimal
	Items   []string
}

// OrderConfirmation is the success response of POST /order.
type OrderConfirmation struct {
	ID    string
	Total decimal.Decimal
}

// StatusError is a structured API failure: the HTTP status plus the
// server-provided message from the {"error": ...} body.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
}

// HTTPClient implements Client over net/http with an otel-instrumented
// transport.
type HTTPClient struct {
	base string
	http *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the API at baseURL. The timeout
// bounds each request; zero means no limit.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		base: baseURL,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchCatalog loads the full product list from GET /product.
func (c *HTTPClient) FetchCatalog(ctx context.Context) ([]product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/product", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	list, err := ParseProductList(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode product list")
	}
	return list.Items, nil
}

// SubmitOrder posts the payload to POST /order and returns the server
// confirmation.
func (c *HTTPClient) SubmitOrder(ctx context.Context, payload OrderPayload) (OrderConfirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/order",
		bytes.NewReader(encodeOrderPayload(payload)))
	if err != nil {
		return OrderConfirmation{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return OrderConfirmation{}, err
	}

	conf, err := decodeOrderConfirmation(body)
	if err != nil {
		return OrderConfirmation{}, errors.Wrap(err, "decode confirmation")
	}
	return conf, nil
}

// do executes the request and returns the response body on 2xx. Any other
// status becomes a *StatusError carrying the server's error message.
func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Message: decodeErrorMessage(body),
		}
	}
	return body, nil
}

const maxBodySize = 4 << 20
