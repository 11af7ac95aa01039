// Package meta talks to the Meta Marketing API (Graph API) and normalizes
// its responses into the canonical metrics envelope.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

const (
	DefaultBaseURL = "https://graph.facebook.com"

	apiVersion = "v18.0"
)

// Client is a thin Graph API client. Calls are single-shot: the dashboard
// request behind them absorbs a failure into its error envelope instead of
// retrying.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientConfig struct {
	// BaseURL overrides the production endpoint, used by tests.
	BaseURL        string
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
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ActionStat is one entry of the Graph API actions / action_values arrays.
type ActionStat struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// Insights is one row of insight data. The Graph API reports every number as
// a string.
type Insights struct {
	Reach        string       `json:"reach"`
	Impressions  string       `json:"impressions"`
	Clicks       string       `json:"clicks"`
	Spend        string       `json:"spend"`
	CPC          string       `json:"cpc"`
	CPM          string       `json:"cpm"`
	CTR          string       `json:"ctr"`
	Actions      []ActionStat `json:"actions"`
	ActionValues []ActionStat `json:"action_values"`
}

// Campaign is a campaign with its nested insight row for the requested range.
type Campaign struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Insights *struct {
		Data []Insights `json:"data"`
	} `json:"insights"`
}

// AccountDetails describes the ad account itself.
type AccountDetails struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AccountID    string `json:"account_id"`
	Currency     string `json:"currency"`
	TimezoneName string `json:"timezone_name"`
}

func timeRangeParam(dateRange ads.DateRange) string {
	return fmt.Sprintf(`{"since":"%s","until":"%s"}`,
		ads.FormatDateAPI(dateRange.Start), ads.FormatDateAPI(dateRange.End))
}

// get performs one Graph API GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, apiVersion, strings.TrimPrefix(path, "/"), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create graph request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graph response: %w", err)
	}

	c.logger.Debug("graph api request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return ads.NewAPIError(ads.PlatformMeta, graphErrorMessage(body, resp.StatusCode), resp.StatusCode)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parse graph response: %w: %w", ads.ErrInvalidResponse, err)
		}
	}
	return nil
}

// ValidateToken probes /me; a rejected token surfaces as ErrTokenRejected
// through the APIError mapping.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) error {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("fields", "id,name")
	return c.get(ctx, "me", q, nil)
}

// FetchAccountDetails reads the ad account's descriptive fields.
func (c *Client) FetchAccountDetails(ctx context.Context, accessToken, adAccountID string) (*AccountDetails, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("fields", "id,name,account_id,currency,timezone_name")

	var details AccountDetails
	if err := c.get(ctx, normalizeAccountID(adAccountID), q, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchAccountInsights pulls the account-level aggregate for the range. An
// account with no delivery returns an empty data array, which the caller
// treats as zeroed data rather than a failure.
func (c *Client) FetchAccountInsights(ctx context.Context, accessToken, adAccountID string, dateRange ads.DateRange) (*Insights, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("time_range", timeRangeParam(dateRange))
	q.Set("fields", "reach,impressions,clicks,spend,cpc,cpm,ctr,actions,action_values")

	var parsed struct {
		Data []Insights `json:"data"`
	}
	if err := c.get(ctx, normalizeAccountID(adAccountID)+"/insights", q, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}
	return &parsed.Data[0], nil
}

// FetchCampaigns lists campaigns with their nested insight rows for the
// range.
func (c *Client) FetchCampaigns(ctx context.Context, accessToken, adAccountID string, dateRange ads.DateRange) ([]Campaign, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("fields", fmt.Sprintf("id,name,status,insights.time_range(%s){spend,clicks,actions,action_values}", timeRangeParam(dateRange)))
	q.Set("limit", "50")

	var parsed struct {
		Data []Campaign `json:"data"`
	}
	if err := c.get(ctx, normalizeAccountID(adAccountID)+"/campaigns", q, &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

// ListAdAccounts returns the ad accounts the token can read, used by the
// connect flow's account picker.
func (c *Client) ListAdAccounts(ctx context.Context, accessToken string) ([]AccountDetails, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("fields", "id,name,account_id,currency,timezone_name")

	var parsed struct {
		Data []AccountDetails `json:"data"`
	}
	if err := c.get(ctx, "me/adaccounts", q, &parsed); err != nil {
		return nil, err
	}
	return parsed.Data, nil
}

// normalizeAccountID guarantees the act_ prefix the insights endpoints want.
func normalizeAccountID(id string) string {
	if strings.HasPrefix(id, "act_") {
		return id
	}
	return "act_" + id
}

func graphErrorMessage(body []byte, statusCode int) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
