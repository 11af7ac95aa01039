package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/events"
	"github.com/niaga-platform/service-ads-insights/internal/providers/google"
	"github.com/niaga-platform/service-ads-insights/internal/providers/meta"
	"github.com/niaga-platform/service-ads-insights/internal/repository"
)

func noopPublisher() *events.Publisher {
	return events.NewPublisher(nil, zap.NewNop())
}

func TestListReportsBothPlatforms(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryConnectionStore()
	if err := store.SetConnected(ctx, "shop-1", ads.PlatformMeta, true); err != nil {
		t.Fatal(err)
	}

	svc := NewConnectionService(&ConnectionServiceConfig{
		Store: store, Publisher: noopPublisher(), Logger: zap.NewNop(),
	})

	statuses, err := svc.List(ctx, "shop-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	byPlatform := map[string]bool{}
	for _, st := range statuses {
		byPlatform[st.Platform] = st.Connected
	}
	if byPlatform["google"] || !byPlatform["meta"] {
		t.Errorf("statuses = %v", byPlatform)
	}
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryConnectionStore()
	if err := store.SaveGoogleAuth(ctx, "shop-1", repository.GoogleAuth{RefreshToken: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetConnected(ctx, "shop-1", ads.PlatformGoogle, true); err != nil {
		t.Fatal(err)
	}

	svc := NewConnectionService(&ConnectionServiceConfig{
		Store: store, Publisher: noopPublisher(), Logger: zap.NewNop(),
	})

	if err := svc.Disconnect(ctx, "shop-1", ads.PlatformGoogle); err != nil {
		t.Fatal(err)
	}
	connected, _ := store.IsConnected(ctx, "shop-1", ads.PlatformGoogle)
	if connected {
		t.Error("shop still marked connected after disconnect")
	}

	// Disconnect is a status flip: the refresh token must survive so the
	// merchant can reconnect without a fresh OAuth round.
	auth, err := store.GoogleAuth(ctx, "shop-1")
	if err != nil {
		t.Fatalf("GoogleAuth after disconnect: %v", err)
	}
	if auth.RefreshToken != "tok" {
		t.Errorf("RefreshToken after disconnect = %q, want %q", auth.RefreshToken, "tok")
	}

	if err := svc.Disconnect(ctx, "shop-1", ads.Platform("tiktok")); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestVerifyGoogle(t *testing.T) {
	ctx := context.Background()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "ok", "expires_in": 3600})
	}))
	defer tokenServer.Close()

	store := repository.NewMemoryConnectionStore()
	if err := store.SaveGoogleAuth(ctx, "shop-1", repository.GoogleAuth{RefreshToken: "tok"}); err != nil {
		t.Fatal(err)
	}

	svc := NewConnectionService(&ConnectionServiceConfig{
		Store:     store,
		Publisher: noopPublisher(),
		GoogleOAuth: google.NewOAuthClient(&google.OAuthConfig{
			ClientID: "id", ClientSecret: "secret", BaseURL: tokenServer.URL, Logger: zap.NewNop(),
		}),
		Logger: zap.NewNop(),
	})

	ok, reason := svc.Verify(ctx, "shop-1", ads.PlatformGoogle)
	if !ok {
		t.Errorf("verify failed: %s", reason)
	}

	ok, reason = svc.Verify(ctx, "shop-2", ads.PlatformGoogle)
	if ok || !strings.Contains(reason, "not connected") {
		t.Errorf("verify for unknown shop = %v, %q", ok, reason)
	}
}

func TestCompleteGoogleOAuth(t *testing.T) {
	ctx := context.Background()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "short-access",
			"refresh_token": "granted-refresh",
			"expires_in":    3600,
		})
	}))
	defer tokenServer.Close()

	userInfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"email": "owner@example.com"})
	}))
	defer userInfo.Close()

	adsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "listAccessibleCustomers") {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"resourceNames": []string{"customers/1234567890"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"customer": map[string]string{
					"id":              "1234567890",
					"descriptiveName": "Picked Account",
					"currencyCode":    "USD",
					"timeZone":        "America/New_York",
				}},
			},
		})
	}))
	defer adsServer.Close()

	store := repository.NewMemoryConnectionStore()
	svc := NewConnectionService(&ConnectionServiceConfig{
		Store:     store,
		Publisher: noopPublisher(),
		GoogleAds: google.NewClient(&google.ClientConfig{BaseURL: adsServer.URL, DeveloperToken: "dev", Logger: zap.NewNop()}),
		GoogleOAuth: google.NewOAuthClient(&google.OAuthConfig{
			ClientID: "id", ClientSecret: "secret",
			BaseURL: tokenServer.URL, UserInfoURL: userInfo.URL, Logger: zap.NewNop(),
		}),
		Logger: zap.NewNop(),
	})

	account, err := svc.CompleteGoogleOAuth(ctx, "shop-1", "auth-code", "https://app.example.com/callback")
	if err != nil {
		t.Fatal(err)
	}
	if account.AccountID != "1234567890" || account.AccountName != "Picked Account" {
		t.Errorf("account = %+v", account)
	}
	if account.Email != "owner@example.com" {
		t.Errorf("email = %q", account.Email)
	}

	connected, _ := store.IsConnected(ctx, "shop-1", ads.PlatformGoogle)
	if !connected {
		t.Error("shop not marked connected")
	}
	auth, err := store.GoogleAuth(ctx, "shop-1")
	if err != nil {
		t.Fatal(err)
	}
	if auth.RefreshToken != "granted-refresh" {
		t.Errorf("stored refresh token = %q", auth.RefreshToken)
	}
	var accounts []string
	if err := json.Unmarshal(auth.AccountsRaw, &accounts); err != nil || len(accounts) != 1 {
		t.Errorf("accounts raw = %s", auth.AccountsRaw)
	}
}

func TestCompleteMetaOAuth(t *testing.T) {
	ctx := context.Background()

	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "oauth/access_token"):
			token := "short-token"
			if r.URL.Query().Get("grant_type") == "fb_exchange_token" {
				token = "long-token"
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": token})
		case strings.Contains(r.URL.Path, "me/adaccounts"):
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{
					{"id": "act_987", "name": "Main Ad Account", "account_id": "987", "currency": "USD"},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer graph.Close()

	store := repository.NewMemoryConnectionStore()
	svc := NewConnectionService(&ConnectionServiceConfig{
		Store:     store,
		Publisher: noopPublisher(),
		MetaAds:   meta.NewClient(&meta.ClientConfig{BaseURL: graph.URL, Logger: zap.NewNop()}),
		MetaOAuth: meta.NewOAuthClient(&meta.OAuthConfig{
			ClientID: "app", ClientSecret: "secret", BaseURL: graph.URL, Logger: zap.NewNop(),
		}),
		Logger: zap.NewNop(),
	})

	account, err := svc.CompleteMetaOAuth(ctx, "shop-1", "auth-code", "https://app.example.com/callback")
	if err != nil {
		t.Fatal(err)
	}
	if account.AccountName != "Main Ad Account" {
		t.Errorf("account = %+v", account)
	}

	auth, err := store.MetaAuth(ctx, "shop-1")
	if err != nil {
		t.Fatal(err)
	}
	if auth.AccessToken != "long-token" {
		t.Errorf("stored token = %q, want the long-lived one", auth.AccessToken)
	}
	if auth.AdAccountID != "act_987" {
		t.Errorf("ad account id = %q", auth.AdAccountID)
	}
}

func TestBeginOAuthCarriesShopInState(t *testing.T) {
	svc := NewConnectionService(&ConnectionServiceConfig{
		Store:     repository.NewMemoryConnectionStore(),
		Publisher: noopPublisher(),
		GoogleOAuth: google.NewOAuthClient(&google.OAuthConfig{
			ClientID: "id", ClientSecret: "secret", Logger: zap.NewNop(),
		}),
		Logger: zap.NewNop(),
	})

	authURL, err := svc.BeginOAuth("shop-1", ads.PlatformGoogle, "https://app.example.com/callback")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(authURL, "state=shop-1.") {
		t.Errorf("auth url = %q, state must carry the shop id", authURL)
	}
	if !strings.Contains(authURL, "access_type=offline") {
		t.Errorf("auth url = %q, offline access missing", authURL)
	}

	if _, err := svc.BeginOAuth("shop-1", ads.Platform("tiktok"), "uri"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}
