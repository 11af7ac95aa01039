package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/events"
	"github.com/niaga-platform/service-ads-insights/internal/providers/google"
	"github.com/niaga-platform/service-ads-insights/internal/providers/meta"
	"github.com/niaga-platform/service-ads-insights/internal/repository"
)

// ConnectionService owns the lifecycle of a shop's ad platform links:
// starting and completing OAuth, saving credentials handed over by the host
// app, probing stored credentials, and disconnecting.
type ConnectionService struct {
	store       repository.ConnectionStore
	publisher   *events.Publisher
	googleAds   *google.Client
	googleOAuth *google.OAuthClient
	metaAds     *meta.Client
	metaOAuth   *meta.OAuthClient
	logger      *zap.Logger
}

type ConnectionServiceConfig struct {
	Store       repository.ConnectionStore
	Publisher   *events.Publisher
	GoogleAds   *google.Client
	GoogleOAuth *google.OAuthClient
	MetaAds     *meta.Client
	MetaOAuth   *meta.OAuthClient
	Logger      *zap.Logger
}

func NewConnectionService(cfg *ConnectionServiceConfig) *ConnectionService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{
		store:       cfg.Store,
		publisher:   cfg.Publisher,
		googleAds:   cfg.GoogleAds,
		googleOAuth: cfg.GoogleOAuth,
		metaAds:     cfg.MetaAds,
		metaOAuth:   cfg.MetaOAuth,
		logger:      logger,
	}
}

// ConnectionStatus is one platform's link state as shown in settings.
type ConnectionStatus struct {
	Platform  string `json:"platform"`
	Connected bool   `json:"connected"`
}

// List returns the connection state of every supported platform.
func (s *ConnectionService) List(ctx context.Context, shopID string) ([]ConnectionStatus, error) {
	flags, err := s.store.Connections(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return []ConnectionStatus{
		{Platform: string(ads.PlatformGoogle), Connected: flags[ads.PlatformGoogle]},
		{Platform: string(ads.PlatformMeta), Connected: flags[ads.PlatformMeta]},
	}, nil
}

// Disconnect flips the platform's connected flag and announces the change.
// Stored credentials stay in place so a later reconnect reuses them.
func (s *ConnectionService) Disconnect(ctx context.Context, shopID string, platform ads.Platform) error {
	if !platform.Valid() {
		return fmt.Errorf("unsupported platform %q", platform)
	}
	if err := s.store.SetConnected(ctx, shopID, platform, false); err != nil {
		return fmt.Errorf("disconnect %s: %w", platform, err)
	}
	s.publisher.PublishDisconnected(shopID, platform)
	s.logger.Info("platform disconnected",
		zap.String("shop_id", shopID),
		zap.String("platform", string(platform)),
	)
	return nil
}

// Verify probes the stored credentials against the live API without touching
// any metrics. It returns false with a reason rather than an error for
// expected credential problems.
func (s *ConnectionService) Verify(ctx context.Context, shopID string, platform ads.Platform) (bool, string) {
	switch platform {
	case ads.PlatformGoogle:
		auth, err := s.store.GoogleAuth(ctx, shopID)
		if err != nil {
			return false, friendlyMessage(platform, err)
		}
		if _, err := s.googleOAuth.RefreshAccessToken(ctx, auth.RefreshToken); err != nil {
			return false, friendlyMessage(platform, err)
		}
		return true, ""
	case ads.PlatformMeta:
		auth, err := s.store.MetaAuth(ctx, shopID)
		if err != nil {
			return false, friendlyMessage(platform, err)
		}
		if err := s.metaAds.ValidateToken(ctx, auth.AccessToken); err != nil {
			return false, friendlyMessage(platform, err)
		}
		return true, ""
	default:
		return false, fmt.Sprintf("unsupported platform %q", platform)
	}
}

// BeginOAuth builds the provider consent URL. The state token carries the
// shop identifier through the round trip to the provider and back.
func (s *ConnectionService) BeginOAuth(shopID string, platform ads.Platform, redirectURI string) (string, error) {
	state := shopID + "." + uuid.NewString()
	switch platform {
	case ads.PlatformGoogle:
		return s.googleOAuth.AuthCodeURL(redirectURI, state), nil
	case ads.PlatformMeta:
		return s.metaOAuth.AuthCodeURL(redirectURI, state), nil
	default:
		return "", fmt.Errorf("unsupported platform %q", platform)
	}
}

// ConnectedAccount summarizes the account a completed OAuth flow landed on.
type ConnectedAccount struct {
	Platform    string `json:"platform"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Currency    string `json:"currency,omitempty"`
	Email       string `json:"email,omitempty"`
}

// CompleteGoogleOAuth exchanges the authorization code, discovers the
// accessible customer accounts and stores the credentials for the first one.
func (s *ConnectionService) CompleteGoogleOAuth(ctx context.Context, shopID, code, redirectURI string) (*ConnectedAccount, error) {
	tokens, err := s.googleOAuth.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if tokens.RefreshToken == "" {
		return nil, fmt.Errorf("%w: consent did not grant a refresh token", ads.ErrInvalidResponse)
	}

	email, err := s.googleOAuth.FetchUserEmail(ctx, tokens.AccessToken)
	if err != nil {
		// Email is cosmetic; the connection works without it.
		s.logger.Warn("failed to fetch user email", zap.String("shop_id", shopID), zap.Error(err))
	}

	customerIDs, err := s.googleAds.ListAccessibleCustomers(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("list accessible customers: %w", err)
	}
	if len(customerIDs) == 0 {
		return nil, fmt.Errorf("%w: no accessible Google Ads accounts", ads.ErrCredentialMissing)
	}
	customerID := customerIDs[0]

	info, err := s.googleAds.FetchAccountInfo(ctx, google.AuthContext{
		AccessToken: tokens.AccessToken,
		CustomerID:  customerID,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch account info: %w", err)
	}

	accountsRaw, err := json.Marshal(customerIDs)
	if err != nil {
		return nil, fmt.Errorf("marshal account list: %w", err)
	}

	auth := repository.GoogleAuth{
		RefreshToken: tokens.RefreshToken,
		Email:        email,
		AccountID:    customerID,
		AccountName:  info.AccountName,
		Currency:     info.Currency,
		AccountsRaw:  accountsRaw,
	}
	if err := s.store.SaveGoogleAuth(ctx, shopID, auth); err != nil {
		return nil, fmt.Errorf("save google credentials: %w", err)
	}
	if err := s.store.SetConnected(ctx, shopID, ads.PlatformGoogle, true); err != nil {
		return nil, fmt.Errorf("mark google connected: %w", err)
	}

	s.publisher.PublishConnected(shopID, ads.PlatformGoogle, customerID, info.AccountName)
	s.logger.Info("google ads connected",
		zap.String("shop_id", shopID),
		zap.String("customer_id", customerID),
	)
	return &ConnectedAccount{
		Platform:    string(ads.PlatformGoogle),
		AccountID:   customerID,
		AccountName: info.AccountName,
		Currency:    info.Currency,
		Email:       email,
	}, nil
}

// CompleteMetaOAuth exchanges the code, upgrades to a long-lived token and
// stores the first accessible ad account.
func (s *ConnectionService) CompleteMetaOAuth(ctx context.Context, shopID, code, redirectURI string) (*ConnectedAccount, error) {
	shortLived, err := s.metaOAuth.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	longLived, err := s.metaOAuth.ExchangeLongLived(ctx, shortLived.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("exchange long-lived token: %w", err)
	}

	accounts, err := s.metaAds.ListAdAccounts(ctx, longLived.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("list ad accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accessible Meta ad accounts", ads.ErrCredentialMissing)
	}
	account := accounts[0]

	auth := repository.MetaAuth{
		AccessToken:   longLived.AccessToken,
		AccountID:     account.AccountID,
		AdAccountID:   account.ID,
		AdAccountName: account.Name,
	}
	if err := s.store.SaveMetaAuth(ctx, shopID, auth); err != nil {
		return nil, fmt.Errorf("save meta credentials: %w", err)
	}
	if err := s.store.SetConnected(ctx, shopID, ads.PlatformMeta, true); err != nil {
		return nil, fmt.Errorf("mark meta connected: %w", err)
	}

	s.publisher.PublishConnected(shopID, ads.PlatformMeta, account.AccountID, account.Name)
	s.logger.Info("meta ads connected",
		zap.String("shop_id", shopID),
		zap.String("ad_account_id", account.ID),
	)
	return &ConnectedAccount{
		Platform:    string(ads.PlatformMeta),
		AccountID:   account.AccountID,
		AccountName: account.Name,
		Currency:    account.Currency,
	}, nil
}

// SaveGoogleCredentials stores credentials captured by the host application
// instead of this service's own OAuth flow.
func (s *ConnectionService) SaveGoogleCredentials(ctx context.Context, shopID string, auth repository.GoogleAuth) error {
	if auth.RefreshToken == "" {
		return ads.ErrCredentialMissing
	}
	if err := s.store.SaveGoogleAuth(ctx, shopID, auth); err != nil {
		return fmt.Errorf("save google credentials: %w", err)
	}
	if err := s.store.SetConnected(ctx, shopID, ads.PlatformGoogle, true); err != nil {
		return fmt.Errorf("mark google connected: %w", err)
	}
	s.publisher.PublishConnected(shopID, ads.PlatformGoogle, auth.AccountID, auth.AccountName)
	return nil
}

// SaveMetaCredentials stores credentials captured by the host application.
func (s *ConnectionService) SaveMetaCredentials(ctx context.Context, shopID string, auth repository.MetaAuth) error {
	if auth.AccessToken == "" {
		return ads.ErrCredentialMissing
	}
	if err := s.store.SaveMetaAuth(ctx, shopID, auth); err != nil {
		return fmt.Errorf("save meta credentials: %w", err)
	}
	if err := s.store.SetConnected(ctx, shopID, ads.PlatformMeta, true); err != nil {
		return fmt.Errorf("mark meta connected: %w", err)
	}
	s.publisher.PublishConnected(shopID, ads.PlatformMeta, auth.AccountID, auth.AdAccountName)
	return nil
}
