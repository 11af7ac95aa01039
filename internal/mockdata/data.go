// Package mockdata serves deterministic demo metrics. The same date range
// always yields the same numbers, so a dashboard in demo mode behaves like a
// stable account instead of changing on every reload.
package mockdata

import "github.com/niaga-platform/service-ads-insights/internal/domain/ads"

// baseGoogle is the demo Google Ads account.
var baseGoogle = ads.Envelope{
	KeyMetrics: []ads.MetricPoint{
		{Metric: ads.MetricClicks, Value: "25.4k", DeltaPct: 15.2},
		{Metric: ads.MetricImpressions, Value: "892.1k", DeltaPct: 8.7},
		{Metric: ads.MetricCost, Value: "$1,247.89", DeltaPct: -3.2},
		{Metric: ads.MetricConversions, Value: "189", DeltaPct: 12.8},
		{Metric: ads.MetricRevenue, Value: "$7,234.56", DeltaPct: 18.9},
		{Metric: ads.MetricROAS, Value: "5.80", DeltaPct: 22.4},
		{Metric: ads.MetricCTR, Value: "2.85%", DeltaPct: 5.1},
		{Metric: ads.MetricCPC, Value: "$6.60", DeltaPct: -8.4},
	},
	Campaigns: []ads.CampaignRow{
		{Name: "Black Friday Electronics Sale | Search", Spend: "$420.50", CPC: "$3.20", Revenue: "$1,842.00", ROAS: "4.38", Status: ads.StatusActive},
		{Name: "Smart Home Devices | Display Network", Spend: "$318.75", CPC: "$2.85", Revenue: "$1,156.00", ROAS: "3.63", Status: ads.StatusActive},
		{Name: "iPhone 15 Pro Max | YouTube Video", Spend: "$287.60", CPC: "$4.12", Revenue: "$978.00", ROAS: "3.40", Status: ads.StatusPaused},
		{Name: "Holiday Gift Guide | Shopping Ads", Spend: "$502.90", CPC: "$2.95", Revenue: "$2,156.00", ROAS: "4.29", Status: ads.StatusActive},
		{Name: "Brand Awareness | Google Search", Spend: "$156.30", CPC: "$1.85", Revenue: "$687.00", ROAS: "4.40", Status: ads.StatusActive},
		{Name: "Winter Collection 2024 | Performance Max", Spend: "$678.20", CPC: "$2.10", Revenue: "$3,245.00", ROAS: "4.78", Status: ads.StatusActive},
		{Name: "Retargeting - Cart Abandoners | Display", Spend: "$234.80", CPC: "$4.56", Revenue: "$892.00", ROAS: "3.80", Status: ads.StatusActive},
	},
	AccountInfo: ads.AccountInfo{
		AccountName: "Test Google Ads Account",
		AccountID:   "123-456-7890",
		Currency:    "USD",
		TimeZone:    "America/New_York",
	},
	IsTestData: true,
}

// baseMeta is the demo Meta Ads account.
var baseMeta = ads.Envelope{
	KeyMetrics: []ads.MetricPoint{
		{Metric: ads.MetricReach, Value: "156.8k", DeltaPct: 18.9},
		{Metric: ads.MetricImpressions, Value: "743.2k", DeltaPct: 12.4},
		{Metric: ads.MetricCost, Value: "$986.45", DeltaPct: -5.8},
		{Metric: ads.MetricClicks, Value: "12.7k", DeltaPct: 9.6},
		{Metric: ads.MetricConversions, Value: "234", DeltaPct: 22.3},
		{Metric: ads.MetricRevenue, Value: "$4,567.89", DeltaPct: 28.7},
		{Metric: ads.MetricROAS, Value: "4.63", DeltaPct: 15.4},
		{Metric: ads.MetricCTR, Value: "1.71%", DeltaPct: 8.3},
		{Metric: ads.MetricCPM, Value: "$1.33", DeltaPct: -12.1},
		{Metric: ads.MetricCPC, Value: "$0.78", DeltaPct: -15.2},
	},
	Campaigns: []ads.CampaignRow{
		{Name: "Holiday Sale 2024 | Facebook Feed", Spend: "$245.80", CPC: "$0.85", Revenue: "$1,456.00", ROAS: "3.12", Status: ads.StatusActive},
		{Name: "New Product Launch | Instagram Stories", Spend: "$198.30", CPC: "$1.12", Revenue: "$987.00", ROAS: "2.89", Status: ads.StatusActive},
		{Name: "Tutorial Series | Facebook Video", Spend: "$312.75", CPC: "$0.95", Revenue: "$1,678.00", ROAS: "3.58", Status: ads.StatusActive},
		{Name: "Lifestyle Content | Instagram Reels", Spend: "$167.90", CPC: "$0.72", Revenue: "$823.00", ROAS: "2.95", Status: ads.StatusPaused},
		{Name: "Product Catalog | Facebook Carousel", Spend: "$423.15", CPC: "$1.05", Revenue: "$2,134.00", ROAS: "4.02", Status: ads.StatusActive},
		{Name: "Black Friday Countdown | Meta Advantage+", Spend: "$589.40", CPC: "$0.67", Revenue: "$2,845.00", ROAS: "4.83", Status: ads.StatusActive},
		{Name: "Customer Testimonials | Instagram Feed", Spend: "$134.20", CPC: "$1.23", Revenue: "$654.00", ROAS: "4.87", Status: ads.StatusActive},
	},
	AccountInfo: ads.AccountInfo{
		AccountName: "Test Meta Business Account",
		AccountID:   "987654321",
		Currency:    "USD",
		TimeZone:    "America/New_York",
	},
	IsTestData: true,
}

// baseEnvelope returns a deep copy of the platform's base dataset so callers
// can mutate it freely.
func baseEnvelope(platform ads.Platform) (ads.Envelope, bool) {
	var base ads.Envelope
	switch platform {
	case ads.PlatformGoogle:
		base = baseGoogle
	case ads.PlatformMeta:
		base = baseMeta
	default:
		return ads.Envelope{}, false
	}

	out := base
	out.KeyMetrics = make([]ads.MetricPoint, len(base.KeyMetrics))
	copy(out.KeyMetrics, base.KeyMetrics)
	out.Campaigns = make([]ads.CampaignRow, len(base.Campaigns))
	copy(out.Campaigns, base.Campaigns)
	return out, true
}
