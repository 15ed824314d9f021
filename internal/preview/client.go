package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/merchkit/pricing-api/internal/pricing"
	"github.com/merchkit/pricing-api/internal/resilience"
)

// Preview is the buyer-facing result of a best-effort discount lookup. When
// Shown is false the storefront renders the undiscounted price and no badge;
// a failed lookup is never surfaced as an error to the buyer.
type Preview struct {
	Shown         bool
	Message       string
	PerUnitAmount pricing.Money
	FinalPrice    pricing.Money
}

// Client fetches discount data from the preview proxy endpoint and re-executes
// the resolution engine locally, mirroring what the storefront script does
// before checkout.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Breaker *resilience.Breaker
}

// NewClient constructs a preview client with a traced HTTP transport and a
// breaker that stops hammering the proxy while it is failing.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Breaker: &resilience.Breaker{Target: "preview-proxy", MinRequests: 5, Threshold: 0.5, OpenFor: 15 * time.Second},
	}
}

type previewResponse struct {
	Success  bool              `json:"success"`
	Discount *pricing.Resolved `json:"discount"`
}

// ProductPreview resolves the discount preview for a single product at the
// displayed unit price. Network failures, non-success responses, and absent
// discounts all degrade to a hidden preview at the undiscounted price.
func (c *Client) ProductPreview(ctx context.Context, productID string, unitPrice pricing.Money) Preview {
	fallback := Preview{FinalPrice: unitPrice}
	if c == nil || c.BaseURL == "" || productID == "" || unitPrice < 0 {
		return fallback
	}

	endpoint, err := url.Parse(c.BaseURL + "/pricing/preview")
	if err != nil {
		return fallback
	}
	q := endpoint.Query()
	q.Set("productId", productID)
	q.Set("unitPrice", strconv.FormatInt(unitPrice, 10))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fallback
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if c.Breaker != nil && !c.Breaker.Allow() {
		return fallback
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		c.report(false)
		return fallback
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		c.report(resp.StatusCode < http.StatusInternalServerError)
		return fallback
	}
	c.report(true)

	var body previewResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fallback
	}
	if !body.Success || body.Discount == nil {
		return fallback
	}

	// Recompute locally through the same engine instead of trusting the
	// transported amount, so preview and cart cannot drift.
	rule := pricing.Rule{
		ID:        body.Discount.RuleID,
		Name:      body.Discount.Name,
		Kind:      body.Discount.Kind,
		Magnitude: body.Discount.Magnitude,
	}
	amount := pricing.DiscountAmount(unitPrice, rule)
	if amount <= 0 {
		return fallback
	}
	return Preview{
		Shown:         true,
		Message:       body.Discount.Name,
		PerUnitAmount: amount,
		FinalPrice:    unitPrice - amount,
	}
}

func (c *Client) report(success bool) {
	if c.Breaker != nil {
		c.Breaker.Report(success)
	}
}
