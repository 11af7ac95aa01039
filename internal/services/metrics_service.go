package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/mockdata"
	"github.com/niaga-platform/service-ads-insights/internal/providers/google"
	"github.com/niaga-platform/service-ads-insights/internal/providers/meta"
	"github.com/niaga-platform/service-ads-insights/internal/repository"
)

// MetricsService aggregates dashboard metrics across ad platforms. Every
// provider failure is absorbed into that platform's error envelope: one dead
// platform never takes down the dashboard, and the transport layer above
// always answers 200.
type MetricsService struct {
	store       repository.ConnectionStore
	googleAds   *google.Client
	googleOAuth *google.OAuthClient
	metaAds     *meta.Client
	useMockData bool
	logger      *zap.Logger
}

// MetricsServiceConfig wires the service's collaborators.
type MetricsServiceConfig struct {
	Store       repository.ConnectionStore
	GoogleAds   *google.Client
	GoogleOAuth *google.OAuthClient
	MetaAds     *meta.Client
	// UseMockData short-circuits every fetch to the demo dataset.
	UseMockData bool
	Logger      *zap.Logger
}

func NewMetricsService(cfg *MetricsServiceConfig) *MetricsService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsService{
		store:       cfg.Store,
		googleAds:   cfg.GoogleAds,
		googleOAuth: cfg.GoogleOAuth,
		metaAds:     cfg.MetaAds,
		useMockData: cfg.UseMockData,
		logger:      logger,
	}
}

// FetchAll fetches both platforms concurrently and returns one envelope per
// platform keyed by its identifier. The call itself never fails; failures
// live inside the envelopes.
func (s *MetricsService) FetchAll(ctx context.Context, shopID string, dateRange ads.DateRange) map[string]ads.Envelope {
	platforms := []ads.Platform{ads.PlatformGoogle, ads.PlatformMeta}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	out := make(map[string]ads.Envelope, len(platforms))
	for _, platform := range platforms {
		wg.Add(1)
		go func(platform ads.Platform) {
			defer wg.Done()
			env := s.FetchPlatform(ctx, shopID, platform, dateRange)
			mu.Lock()
			out[string(platform)] = env
			mu.Unlock()
		}(platform)
	}
	wg.Wait()
	return out
}

// FetchPlatform resolves one platform's envelope: demo data when mock mode is
// on, otherwise a live fetch with the shop's stored credentials.
func (s *MetricsService) FetchPlatform(ctx context.Context, shopID string, platform ads.Platform, dateRange ads.DateRange) ads.Envelope {
	if !platform.Valid() {
		return ads.ErrorEnvelope(fmt.Sprintf("unsupported platform %q", platform))
	}

	if s.useMockData {
		env, _ := mockdata.Envelope(platform, dateRange)
		return env
	}

	connected, err := s.store.IsConnected(ctx, shopID, platform)
	if err != nil {
		s.logger.Error("failed to check connection state",
			zap.String("shop_id", shopID),
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
		return ads.ErrorEnvelope(friendlyMessage(platform, err))
	}
	if !connected {
		return ads.ErrorEnvelope(platform.DisplayName() + " account not connected")
	}

	var env ads.Envelope
	switch platform {
	case ads.PlatformGoogle:
		env, err = s.fetchGoogle(ctx, shopID, dateRange)
	case ads.PlatformMeta:
		env, err = s.fetchMeta(ctx, shopID, dateRange)
	}
	if err != nil {
		s.logger.Warn("platform fetch failed",
			zap.String("shop_id", shopID),
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
		return ads.ErrorEnvelope(friendlyMessage(platform, err))
	}
	return env
}

// fetchGoogle mints a fresh access token from the stored refresh token, then
// pulls campaign metrics and account details in one pass. Each step is a
// single attempt.
func (s *MetricsService) fetchGoogle(ctx context.Context, shopID string, dateRange ads.DateRange) (ads.Envelope, error) {
	auth, err := s.store.GoogleAuth(ctx, shopID)
	if err != nil {
		return ads.Envelope{}, err
	}

	accessToken, err := s.googleOAuth.RefreshAccessToken(ctx, auth.RefreshToken)
	if err != nil {
		return ads.Envelope{}, fmt.Errorf("refresh access token: %w", err)
	}

	authCtx := google.AuthContext{
		AccessToken:     accessToken,
		CustomerID:      auth.AccountID,
		LoginCustomerID: auth.ManagerID,
	}

	// Account details and campaign metrics are independent; issue both at
	// once and join.
	var (
		wg      sync.WaitGroup
		info    ads.AccountInfo
		rows    []google.SearchRow
		infoErr error
		rowsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		info, infoErr = s.googleAds.FetchAccountInfo(ctx, authCtx)
	}()
	go func() {
		defer wg.Done()
		rows, rowsErr = s.googleAds.FetchCampaignRows(ctx, authCtx, dateRange)
	}()
	wg.Wait()
	if infoErr != nil {
		return ads.Envelope{}, infoErr
	}
	if rowsErr != nil {
		return ads.Envelope{}, rowsErr
	}
	return google.BuildEnvelope(rows, info), nil
}

// fetchMeta validates the stored long-lived token, then pulls the account
// aggregate and campaign breakdown.
func (s *MetricsService) fetchMeta(ctx context.Context, shopID string, dateRange ads.DateRange) (ads.Envelope, error) {
	auth, err := s.store.MetaAuth(ctx, shopID)
	if err != nil {
		return ads.Envelope{}, err
	}

	if err := s.metaAds.ValidateToken(ctx, auth.AccessToken); err != nil {
		return ads.Envelope{}, fmt.Errorf("validate access token: %w", err)
	}

	// The account aggregate and the campaign breakdown are independent;
	// issue both at once and join. Account details ride along since they
	// only feed the info block.
	var (
		wg           sync.WaitGroup
		details      *meta.AccountDetails
		insights     *meta.Insights
		campaigns    []meta.Campaign
		detailsErr   error
		insightsErr  error
		campaignsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		details, detailsErr = s.metaAds.FetchAccountDetails(ctx, auth.AccessToken, auth.AdAccountID)
	}()
	go func() {
		defer wg.Done()
		insights, insightsErr = s.metaAds.FetchAccountInsights(ctx, auth.AccessToken, auth.AdAccountID, dateRange)
	}()
	go func() {
		defer wg.Done()
		campaigns, campaignsErr = s.metaAds.FetchCampaigns(ctx, auth.AccessToken, auth.AdAccountID, dateRange)
	}()
	wg.Wait()
	if detailsErr != nil {
		return ads.Envelope{}, detailsErr
	}
	if insightsErr != nil {
		return ads.Envelope{}, insightsErr
	}
	if campaignsErr != nil {
		return ads.Envelope{}, campaignsErr
	}

	info := ads.AccountInfo{
		AccountName: details.Name,
		AccountID:   details.AccountID,
		Currency:    details.Currency,
		TimeZone:    details.TimezoneName,
	}
	return meta.BuildEnvelope(insights, campaigns, info), nil
}

// friendlyMessage turns an internal error into the envelope text the
// dashboard shows.
func friendlyMessage(platform ads.Platform, err error) string {
	name := platform.DisplayName()
	switch {
	case errors.Is(err, ads.ErrNotConnected), errors.Is(err, ads.ErrCredentialMissing):
		return name + " account not connected"
	case errors.Is(err, ads.ErrTokenRejected):
		return name + " authentication expired. Please reconnect your account."
	case errors.Is(err, ads.ErrRateLimited):
		return name + " rate limit reached. Please try again in a few minutes."
	case errors.Is(err, ads.ErrServiceUnavailable):
		return name + " is temporarily unavailable. Please try again later."
	default:
		return "Failed to fetch " + name + " data"
	}
}
