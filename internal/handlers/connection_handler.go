package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/repository"
	"github.com/niaga-platform/service-ads-insights/internal/services"
)

// ConnectionHandler handles ad platform connection endpoints.
type ConnectionHandler struct {
	connService  *services.ConnectionService
	cacheService *services.MetricsCacheService
	logger       *zap.Logger
	// redirectURLs maps a platform to its registered OAuth redirect URI.
	// When unset the handler rebuilds the URI from the incoming request.
	redirectURLs map[ads.Platform]string
}

// NewConnectionHandler creates a new connection handler.
func NewConnectionHandler(
	connService *services.ConnectionService,
	cacheService *services.MetricsCacheService,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		connService:  connService,
		cacheService: cacheService,
		logger:       logger,
		redirectURLs: make(map[ads.Platform]string),
	}
}

// SetRedirectURL pins the OAuth redirect URI for a platform to the value
// registered with the provider console.
func (h *ConnectionHandler) SetRedirectURL(platform ads.Platform, url string) {
	h.redirectURLs[platform] = url
}

// ListConnections returns the connection state of every platform.
// @Summary List ad platform connections
// @Tags Connections
// @Param shop path string true "Shop ID"
// @Success 200 {array} services.ConnectionStatus
// @Router /api/v1/shops/{shop}/connections [get]
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	statuses, err := h.connService.List(c.Request.Context(), c.Param("shop"))
	if err != nil {
		h.logger.Error("failed to list connections", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list connections"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connections": statuses})
}

// SaveGoogleConnectionRequest carries credentials captured by the host app.
type SaveGoogleConnectionRequest struct {
	RefreshToken string          `json:"refresh_token" binding:"required"`
	Email        string          `json:"email"`
	ManagerID    string          `json:"manager_id"`
	ManagerName  string          `json:"manager_name"`
	AccountID    string          `json:"account_id" binding:"required"`
	AccountName  string          `json:"account_name"`
	Currency     string          `json:"currency"`
	Accounts     json.RawMessage `json:"accounts,omitempty"`
}

// SaveGoogleConnection stores Google Ads credentials for a shop.
// @Summary Save Google Ads credentials
// @Tags Connections
// @Param shop path string true "Shop ID"
// @Router /api/v1/shops/{shop}/connections/google [post]
func (h *ConnectionHandler) SaveGoogleConnection(c *gin.Context) {
	var req SaveGoogleConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	shopID := c.Param("shop")
	err := h.connService.SaveGoogleCredentials(c.Request.Context(), shopID, repository.GoogleAuth{
		RefreshToken: req.RefreshToken,
		Email:        req.Email,
		ManagerID:    req.ManagerID,
		ManagerName:  req.ManagerName,
		AccountID:    req.AccountID,
		AccountName:  req.AccountName,
		Currency:     req.Currency,
		AccountsRaw:  req.Accounts,
	})
	if err != nil {
		h.logger.Error("failed to save google credentials", zap.String("shop_id", shopID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save connection"})
		return
	}

	h.invalidateCache(c, shopID)
	c.JSON(http.StatusOK, gin.H{"connected": true, "platform": string(ads.PlatformGoogle)})
}

// SaveMetaConnectionRequest carries credentials captured by the host app.
type SaveMetaConnectionRequest struct {
	AccessToken   string `json:"access_token" binding:"required"`
	AccountID     string `json:"account_id"`
	AdAccountID   string `json:"ad_account_id" binding:"required"`
	AdAccountName string `json:"ad_account_name"`
}

// SaveMetaConnection stores Meta Ads credentials for a shop.
// @Summary Save Meta Ads credentials
// @Tags Connections
// @Param shop path string true "Shop ID"
// @Router /api/v1/shops/{shop}/connections/meta [post]
func (h *ConnectionHandler) SaveMetaConnection(c *gin.Context) {
	var req SaveMetaConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	shopID := c.Param("shop")
	err := h.connService.SaveMetaCredentials(c.Request.Context(), shopID, repository.MetaAuth{
		AccessToken:   req.AccessToken,
		AccountID:     req.AccountID,
		AdAccountID:   req.AdAccountID,
		AdAccountName: req.AdAccountName,
	})
	if err != nil {
		h.logger.Error("failed to save meta credentials", zap.String("shop_id", shopID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save connection"})
		return
	}

	h.invalidateCache(c, shopID)
	c.JSON(http.StatusOK, gin.H{"connected": true, "platform": string(ads.PlatformMeta)})
}

// Disconnect marks a platform as disconnected.
// @Summary Disconnect an ad platform
// @Tags Connections
// @Param shop path string true "Shop ID"
// @Param platform path string true "Platform (google, meta)"
// @Router /api/v1/shops/{shop}/connections/{platform} [delete]
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	platform := ads.Platform(c.Param("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}

	shopID := c.Param("shop")
	if err := h.connService.Disconnect(c.Request.Context(), shopID, platform); err != nil {
		h.logger.Error("failed to disconnect platform",
			zap.String("shop_id", shopID),
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disconnect"})
		return
	}

	h.invalidateCache(c, shopID)
	c.JSON(http.StatusOK, gin.H{"disconnected": true, "platform": string(platform)})
}

// VerifyConnection probes the stored credentials against the live API.
// @Summary Verify stored credentials
// @Tags Connections
// @Param shop path string true "Shop ID"
// @Param platform path string true "Platform (google, meta)"
// @Router /api/v1/shops/{shop}/connections/{platform}/verify [get]
func (h *ConnectionHandler) VerifyConnection(c *gin.Context) {
	platform := ads.Platform(c.Param("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}

	valid, reason := h.connService.Verify(c.Request.Context(), c.Param("shop"), platform)
	resp := gin.H{"valid": valid}
	if reason != "" {
		resp["reason"] = reason
	}
	c.JSON(http.StatusOK, resp)
}

// StartOAuth redirects the browser to the provider's consent page.
// @Summary Start an OAuth connect flow
// @Tags Connections
// @Param platform path string true "Platform (google, meta)"
// @Param shop query string true "Shop ID"
// @Router /api/v1/connect/{platform}/start [get]
func (h *ConnectionHandler) StartOAuth(c *gin.Context) {
	platform := ads.Platform(c.Param("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}
	shopID := c.Query("shop")
	if shopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing shop ID"})
		return
	}

	authURL, err := h.connService.BeginOAuth(shopID, platform, h.callbackURL(c, platform))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// OAuthCallback completes the connect flow after provider consent.
// @Summary Complete an OAuth connect flow
// @Tags Connections
// @Param platform path string true "Platform (google, meta)"
// @Router /api/v1/connect/{platform}/callback [get]
func (h *ConnectionHandler) OAuthCallback(c *gin.Context) {
	platform := ads.Platform(c.Param("platform"))
	if !platform.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
		return
	}

	if providerErr := c.Query("error"); providerErr != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Consent denied: " + providerErr})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	shopID, ok := shopFromState(state)
	if code == "" || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code or state"})
		return
	}

	ctx := c.Request.Context()
	redirectURI := h.callbackURL(c, platform)

	var account *services.ConnectedAccount
	var err error
	switch platform {
	case ads.PlatformGoogle:
		account, err = h.connService.CompleteGoogleOAuth(ctx, shopID, code, redirectURI)
	case ads.PlatformMeta:
		account, err = h.connService.CompleteMetaOAuth(ctx, shopID, code, redirectURI)
	}
	if err != nil {
		h.logger.Error("oauth completion failed",
			zap.String("shop_id", shopID),
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to complete connection"})
		return
	}

	h.invalidateCache(c, shopID)
	c.JSON(http.StatusOK, gin.H{"connected": true, "account": account})
}

// callbackURL returns the redirect URI for the platform. The configured URI
// wins; otherwise it rebuilds this service's own callback endpoint so the
// exchange uses the exact redirect URI the consent saw.
func (h *ConnectionHandler) callbackURL(c *gin.Context, platform ads.Platform) string {
	if url := h.redirectURLs[platform]; url != "" {
		return url
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/api/v1/connect/" + string(platform) + "/callback"
}

// shopFromState recovers the shop identifier from the OAuth state token.
func shopFromState(state string) (string, bool) {
	idx := strings.LastIndex(state, ".")
	if idx <= 0 {
		return "", false
	}
	return state[:idx], true
}

// invalidateCache drops cached metrics after any connection change.
func (h *ConnectionHandler) invalidateCache(c *gin.Context, shopID string) {
	if h.cacheService != nil {
		h.cacheService.Invalidate(c.Request.Context(), shopID)
	}
}
