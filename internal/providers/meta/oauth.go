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

const authDialogEndpoint = "https://www.facebook.com/v18.0/dialog/oauth"

// OAuthClient handles the Facebook Login dance and the long-lived token
// exchange. Meta access tokens are used as-is afterwards; there is no
// refresh grant.
type OAuthClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string
	httpClient   *http.Client
	logger       *zap.Logger
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	// BaseURL overrides the Graph API host, used by tests.
	BaseURL string
	// AuthURL overrides the login dialog, used by tests.
	AuthURL        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func NewOAuthClient(cfg *OAuthConfig) *OAuthClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = authDialogEndpoint
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthClient{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		authURL:      authURL,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// TokenResponse is the Graph API token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AuthCodeURL builds the login dialog URL with the ads scopes.
func (c *OAuthClient) AuthCodeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "ads_read,business_management")
	q.Set("state", state)
	return c.authURL + "?" + q.Encode()
}

// ExchangeCode trades an authorization code for a short-lived user token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)
	q.Set("redirect_uri", redirectURI)
	q.Set("code", code)
	return c.getToken(ctx, q)
}

// ExchangeLongLived trades a short-lived token for a ~60 day one, which is
// what gets stored.
func (c *OAuthClient) ExchangeLongLived(ctx context.Context, shortLivedToken string) (*TokenResponse, error) {
	q := url.Values{}
	q.Set("grant_type", "fb_exchange_token")
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)
	q.Set("fb_exchange_token", shortLivedToken)
	return c.getToken(ctx, q)
}

func (c *OAuthClient) getToken(ctx context.Context, q url.Values) (*TokenResponse, error) {
	endpoint := fmt.Sprintf("%s/%s/oauth/access_token?%s", c.baseURL, apiVersion, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meta oauth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	c.logger.Debug("meta oauth token request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, ads.NewAPIError(ads.PlatformMeta, graphErrorMessage(body, resp.StatusCode), resp.StatusCode)
	}

	var parsed TokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse token response: %w: %w", ads.ErrInvalidResponse, err)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", ads.ErrInvalidResponse)
	}
	return &parsed, nil
}
