package meta

import (
	"testing"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

func metricValue(env ads.Envelope, key ads.MetricKey) string {
	for _, p := range env.KeyMetrics {
		if p.Metric == key {
			return p.Value
		}
	}
	return "<missing>"
}

func TestExtractConversions(t *testing.T) {
	actions := []ActionStat{
		{ActionType: "purchase", Value: "5"},
		{ActionType: "lead", Value: "3"},
		{ActionType: "link_click", Value: "120"},
		{ActionType: "page_engagement", Value: "80"},
	}
	if got := ExtractConversions(actions); got != 8 {
		t.Errorf("ExtractConversions = %v, want 8", got)
	}

	if got := ExtractConversions(nil); got != 0 {
		t.Errorf("ExtractConversions(nil) = %v, want 0", got)
	}

	all := []ActionStat{
		{ActionType: "purchase", Value: "1"},
		{ActionType: "lead", Value: "2"},
		{ActionType: "complete_registration", Value: "4"},
	}
	if got := ExtractConversions(all); got != 7 {
		t.Errorf("ExtractConversions(all types) = %v, want 7", got)
	}
}

func TestExtractRevenue(t *testing.T) {
	values := []ActionStat{
		{ActionType: "purchase", Value: "249.90"},
		{ActionType: "lead", Value: "50"},
		{ActionType: "complete_registration", Value: "10"},
	}
	if got := ExtractRevenue(values); got != 249.90 {
		t.Errorf("ExtractRevenue = %v, want 249.90 (purchases only)", got)
	}
}

func TestBuildEnvelope(t *testing.T) {
	account := &Insights{
		Reach:       "12000",
		Impressions: "45000",
		Clicks:      "900",
		Spend:       "150.00",
		CPC:         "0.17",
		CPM:         "3.33",
		CTR:         "2.0",
		Actions: []ActionStat{
			{ActionType: "purchase", Value: "12"},
			{ActionType: "lead", Value: "4"},
		},
		ActionValues: []ActionStat{
			{ActionType: "purchase", Value: "600"},
		},
	}
	campaigns := []Campaign{
		{
			Name:   "Retargeting",
			Status: "ACTIVE",
			Insights: &struct {
				Data []Insights `json:"data"`
			}{Data: []Insights{{
				Spend:        "100",
				Clicks:       "500",
				ActionValues: []ActionStat{{ActionType: "purchase", Value: "400"}},
			}}},
		},
		{Name: "Old Promo", Status: "ARCHIVED"},
	}

	env := BuildEnvelope(account, campaigns, ads.AccountInfo{AccountName: "Example", Currency: "USD"})

	if len(env.KeyMetrics) != 10 {
		t.Fatalf("key metrics = %d, want 10", len(env.KeyMetrics))
	}
	if env.KeyMetrics[0].Metric != ads.MetricReach {
		t.Errorf("first metric = %q, want reach", env.KeyMetrics[0].Metric)
	}

	tests := []struct {
		key  ads.MetricKey
		want string
	}{
		{ads.MetricReach, "12.0k"},
		{ads.MetricImpressions, "45.0k"},
		{ads.MetricCost, "$150.00"},
		{ads.MetricClicks, "900"},
		{ads.MetricConversions, "16"},
		{ads.MetricRevenue, "$600.00"},
		{ads.MetricROAS, "4.00"},
		{ads.MetricCTR, "2.00%"},
		{ads.MetricCPM, "$3.33"},
		{ads.MetricCPC, "$0.17"},
	}
	for _, tt := range tests {
		if got := metricValue(env, tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}

	if len(env.Campaigns) != 2 {
		t.Fatalf("campaigns = %d, want 2", len(env.Campaigns))
	}
	first := env.Campaigns[0]
	if first.Spend != "$100.00" || first.CPC != "$0.20" || first.Revenue != "$400.00" || first.ROAS != "4.00" {
		t.Errorf("campaign economics = %+v", first)
	}
	if first.Status != ads.StatusActive {
		t.Errorf("status = %q", first.Status)
	}
	second := env.Campaigns[1]
	if second.Spend != "$0.00" || second.Status != ads.StatusArchived {
		t.Errorf("insight-less campaign row = %+v", second)
	}
}

func TestBuildEnvelopeNoDelivery(t *testing.T) {
	info := ads.AccountInfo{AccountName: "Quiet Account"}
	env := BuildEnvelope(nil, nil, info)

	if env.Error != "" {
		t.Error("no delivery is not a failure")
	}
	if len(env.KeyMetrics) != 10 {
		t.Errorf("key metrics = %d, want the full zeroed set", len(env.KeyMetrics))
	}
	if got := metricValue(env, ads.MetricReach); got != "0" {
		t.Errorf("zero reach = %q", got)
	}
	if got := metricValue(env, ads.MetricCPM); got != "$0.00" {
		t.Errorf("zero cpm = %q", got)
	}
	if env.AccountInfo != info {
		t.Errorf("account info = %+v", env.AccountInfo)
	}
}
