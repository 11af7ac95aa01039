package google

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
	DefaultOAuthBaseURL = "https://oauth2.googleapis.com"

	authEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	userInfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"
	adwordsScope     = "https://www.googleapis.com/auth/adwords"
)

// OAuthClient handles the Google OAuth dance: building consent URLs,
// exchanging authorization codes and minting access tokens from the stored
// refresh token. A fresh access token is minted per metrics fetch; nothing is
// cached here.
type OAuthClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	authURL      string
	userInfoURL  string
	httpClient   *http.Client
	logger       *zap.Logger
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	// BaseURL overrides the token endpoint host, used by tests.
	BaseURL string
	// AuthURL overrides the consent page, used by tests.
	AuthURL string
	// UserInfoURL overrides the profile endpoint, used by tests.
	UserInfoURL    string
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

func NewOAuthClient(cfg *OAuthConfig) *OAuthClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOAuthBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = authEndpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = userInfoEndpoint
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
		userInfoURL:  userInfoURL,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// TokenResponse is the OAuth token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// AuthCodeURL builds the consent page URL. offline access with forced consent
// guarantees a refresh token comes back even for repeat connections.
func (c *OAuthClient) AuthCodeURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", adwordsScope+" email")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	return c.authURL + "?" + q.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("redirect_uri", redirectURI)
	return c.postToken(ctx, form)
}

// RefreshAccessToken mints a short-lived access token from the stored
// refresh token.
func (c *OAuthClient) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	resp, err := c.postToken(ctx, form)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", ads.ErrInvalidResponse)
	}
	return resp.AccessToken, nil
}

func (c *OAuthClient) postToken(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google oauth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	c.logger.Debug("google oauth token request completed",
		zap.String("grant_type", form.Get("grant_type")),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		var oauthErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		message := fmt.Sprintf("HTTP %d", resp.StatusCode)
		if err := json.Unmarshal(body, &oauthErr); err == nil && oauthErr.Error != "" {
			message = oauthErr.Error
			if oauthErr.ErrorDescription != "" {
				message += ": " + oauthErr.ErrorDescription
			}
		}
		return nil, ads.NewAPIError(ads.PlatformGoogle, message, resp.StatusCode)
	}

	var parsed TokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse token response: %w: %w", ads.ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// UserInfo is the OpenID profile attached to the consent.
type UserInfo struct {
	Email string `json:"email"`
}

// FetchUserEmail reads the email of the account that granted consent.
func (c *OAuthClient) FetchUserEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", ads.NewAPIError(ads.PlatformGoogle, fmt.Sprintf("userinfo HTTP %d", resp.StatusCode), resp.StatusCode)
	}
	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("parse userinfo response: %w", err)
	}
	return info.Email, nil
}
