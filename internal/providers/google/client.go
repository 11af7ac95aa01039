// Package google talks to the Google Ads REST API and normalizes its
// responses into the canonical metrics envelope.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

const (
	DefaultBaseURL = "https://googleads.googleapis.com"

	apiVersion = "v14"
)

// Client is a thin Google Ads API client. It performs single-shot requests:
// a failed call is reported to the caller as-is, never retried, so the
// dashboard request it serves stays fast.
type Client struct {
	baseURL        string
	developerToken string
	httpClient     *http.Client
	logger         *zap.Logger
}

// ClientConfig holds configuration for the Google Ads client.
type ClientConfig struct {
	// BaseURL overrides the production endpoint, used by tests.
	BaseURL        string
	DeveloperToken string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func NewClient(cfg *ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		developerToken: cfg.DeveloperToken,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// SearchRow is one result row of a Google Ads search. The REST transport
// encodes int64 metrics as JSON strings.
type SearchRow struct {
	Campaign *CampaignFields `json:"campaign,omitempty"`
	Metrics  *MetricFields   `json:"metrics,omitempty"`
	Customer *CustomerFields `json:"customer,omitempty"`
}

type CampaignFields struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type MetricFields struct {
	Clicks           string  `json:"clicks"`
	Impressions      string  `json:"impressions"`
	CostMicros       string  `json:"costMicros"`
	Conversions      float64 `json:"conversions"`
	ConversionsValue float64 `json:"conversionsValue"`
}

type CustomerFields struct {
	ID              string `json:"id"`
	DescriptiveName string `json:"descriptiveName"`
	CurrencyCode    string `json:"currencyCode"`
	TimeZone        string `json:"timeZone"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []SearchRow `json:"results"`
}

// AuthContext carries everything one authenticated call needs.
type AuthContext struct {
	AccessToken string
	// CustomerID is the operating account, digits only.
	CustomerID string
	// LoginCustomerID is the manager account when access goes through an MCC.
	LoginCustomerID string
}

// Search runs a GAQL query against the customer's account.
func (c *Client) Search(ctx context.Context, auth AuthContext, query string) ([]SearchRow, error) {
	url := fmt.Sprintf("%s/%s/customers/%s/googleAds:search", c.baseURL, apiVersion, digitsOnly(auth.CustomerID))

	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	req.Header.Set("developer-token", c.developerToken)
	if auth.LoginCustomerID != "" {
		req.Header.Set("login-customer-id", digitsOnly(auth.LoginCustomerID))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read google ads response: %w", err)
	}

	c.logger.Debug("google ads search completed",
		zap.String("customer_id", auth.CustomerID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, ads.NewAPIError(ads.PlatformGoogle, apiErrorMessage(respBody, resp.StatusCode), resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse google ads response: %w: %w", ads.ErrInvalidResponse, err)
	}
	return parsed.Results, nil
}

// FetchCampaignRows pulls per-campaign metrics for the date range.
func (c *Client) FetchCampaignRows(ctx context.Context, auth AuthContext, dateRange ads.DateRange) ([]SearchRow, error) {
	query := fmt.Sprintf(`SELECT
  campaign.id,
  campaign.name,
  campaign.status,
  metrics.clicks,
  metrics.impressions,
  metrics.cost_micros,
  metrics.conversions,
  metrics.conversions_value
FROM campaign
WHERE segments.date BETWEEN '%s' AND '%s'
ORDER BY metrics.cost_micros DESC
LIMIT 20`,
		ads.FormatDateAPI(dateRange.Start), ads.FormatDateAPI(dateRange.End))
	return c.Search(ctx, auth, query)
}

// FetchAccountInfo reads the customer's descriptive details.
func (c *Client) FetchAccountInfo(ctx context.Context, auth AuthContext) (ads.AccountInfo, error) {
	rows, err := c.Search(ctx, auth, `SELECT
  customer.id,
  customer.descriptive_name,
  customer.currency_code,
  customer.time_zone
FROM customer
LIMIT 1`)
	if err != nil {
		return ads.AccountInfo{}, err
	}
	for _, row := range rows {
		if row.Customer == nil {
			continue
		}
		return ads.AccountInfo{
			AccountName: row.Customer.DescriptiveName,
			AccountID:   row.Customer.ID,
			Currency:    row.Customer.CurrencyCode,
			TimeZone:    row.Customer.TimeZone,
		}, nil
	}
	return ads.AccountInfo{}, fmt.Errorf("%w: customer row missing", ads.ErrInvalidResponse)
}

// ListAccessibleCustomers returns the customer IDs the granted token can
// operate, used during the connect flow to render the account picker.
func (c *Client) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	url := fmt.Sprintf("%s/%s/customers:listAccessibleCustomers", c.baseURL, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create list customers request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("developer-token", c.developerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google ads request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read google ads response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, ads.NewAPIError(ads.PlatformGoogle, apiErrorMessage(body, resp.StatusCode), resp.StatusCode)
	}

	var parsed struct {
		ResourceNames []string `json:"resourceNames"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse google ads response: %w: %w", ads.ErrInvalidResponse, err)
	}
	ids := make([]string, 0, len(parsed.ResourceNames))
	for _, name := range parsed.ResourceNames {
		ids = append(ids, strings.TrimPrefix(name, "customers/"))
	}
	return ids, nil
}

// apiErrorMessage digs the human message out of a Google error body.
func apiErrorMessage(body []byte, statusCode int) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// digitsOnly strips the dashes Google shows in customer IDs (123-456-7890).
func digitsOnly(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
