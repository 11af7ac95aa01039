package meta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

func testRange() ads.DateRange {
	return ads.NewDateRange(
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.March, 7, 0, 0, 0, 0, time.Local),
	)
}

func TestFetchAccountInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v18.0/act_123/insights" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("access_token"); got != "tok" {
			t.Errorf("access_token = %q", got)
		}
		if got := r.URL.Query().Get("time_range"); got != `{"since":"2026-03-01","until":"2026-03-07"}` {
			t.Errorf("time_range = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"spend": "42.50", "clicks": "100", "impressions": "5000"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()})
	ins, err := client.FetchAccountInsights(context.Background(), "tok", "123", testRange())
	if err != nil {
		t.Fatal(err)
	}
	if ins == nil || ins.Spend != "42.50" {
		t.Errorf("insights = %+v", ins)
	}
}

func TestFetchAccountInsightsNoDelivery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()})
	ins, err := client.FetchAccountInsights(context.Background(), "tok", "act_123", testRange())
	if err != nil {
		t.Fatal(err)
	}
	if ins != nil {
		t.Errorf("insights = %+v, want nil for empty data", ins)
	}
}

func TestGraphErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Error validating access token",
				"type":    "OAuthException",
				"code":    190,
			},
		})
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()})
	err := client.ValidateToken(context.Background(), "stale-token")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ads.ErrTokenRejected) {
		t.Errorf("err = %v, want Is(ErrTokenRejected)", err)
	}
	var apiErr *ads.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err %T is not *ads.APIError", err)
	}
	if apiErr.Platform != ads.PlatformMeta || apiErr.Message != "Error validating access token" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestFetchCampaignsParsesNestedInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v18.0/act_9/campaigns" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":     "c1",
					"name":   "Prospecting",
					"status": "ACTIVE",
					"insights": map[string]interface{}{
						"data": []map[string]interface{}{
							{"spend": "10.00", "clicks": "40"},
						},
					},
				},
				{"id": "c2", "name": "Paused One", "status": "PAUSED"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(&ClientConfig{BaseURL: server.URL, Logger: zap.NewNop()})
	campaigns, err := client.FetchCampaigns(context.Background(), "tok", "act_9", testRange())
	if err != nil {
		t.Fatal(err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("campaigns = %d", len(campaigns))
	}
	if campaigns[0].Insights == nil || campaigns[0].Insights.Data[0].Spend != "10.00" {
		t.Errorf("nested insights = %+v", campaigns[0].Insights)
	}
	if campaigns[1].Insights != nil {
		t.Errorf("campaign without insights = %+v", campaigns[1].Insights)
	}
}

func TestExchangeLongLived(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v18.0/oauth/access_token" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "fb_exchange_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.URL.Query().Get("fb_exchange_token"); got != "short-token" {
			t.Errorf("fb_exchange_token = %q", got)
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "long-token", ExpiresIn: 5183944})
	}))
	defer server.Close()

	oauth := NewOAuthClient(&OAuthConfig{
		ClientID:     "app-id",
		ClientSecret: "app-secret",
		BaseURL:      server.URL,
		Logger:       zap.NewNop(),
	})
	resp, err := oauth.ExchangeLongLived(context.Background(), "short-token")
	if err != nil {
		t.Fatal(err)
	}
	if resp.AccessToken != "long-token" {
		t.Errorf("access token = %q", resp.AccessToken)
	}
}
