package ads

import (
	"encoding/json"
	"fmt"
)

// MetricKey identifies a canonical metric shared across platforms.
type MetricKey string

const (
	MetricClicks      MetricKey = "clicks"
	MetricImpressions MetricKey = "impressions"
	MetricCost        MetricKey = "cost"
	MetricConversions MetricKey = "conversions"
	MetricRevenue     MetricKey = "revenue"
	MetricROAS        MetricKey = "roas"
	MetricCTR         MetricKey = "ctr"
	MetricCPC         MetricKey = "cpc"
	MetricReach       MetricKey = "reach"
	MetricCPM         MetricKey = "cpm"
)

// MetricPoint is a single display-ready metric. Value is pre-formatted
// (currency, percentage or suffixed count); DeltaPct is the period-over-period
// percent change.
type MetricPoint struct {
	Metric   MetricKey `json:"metric"`
	Value    string    `json:"value"`
	DeltaPct float64   `json:"deltaPct"`
}

// CampaignStatus is the display status of a campaign row.
type CampaignStatus string

const (
	StatusActive   CampaignStatus = "Active"
	StatusPaused   CampaignStatus = "Paused"
	StatusRemoved  CampaignStatus = "Removed"
	StatusDeleted  CampaignStatus = "Deleted"
	StatusArchived CampaignStatus = "Archived"
	StatusUnknown  CampaignStatus = "Unknown"
)

// googleStatusTable maps Google Ads campaign states onto display statuses.
var googleStatusTable = map[string]CampaignStatus{
	"ENABLED": StatusActive,
	"PAUSED":  StatusPaused,
	"REMOVED": StatusRemoved,
}

// metaStatusTable maps Meta campaign states onto display statuses.
var metaStatusTable = map[string]CampaignStatus{
	"ACTIVE":   StatusActive,
	"PAUSED":   StatusPaused,
	"DELETED":  StatusDeleted,
	"ARCHIVED": StatusArchived,
}

// MapGoogleStatus translates a raw Google Ads campaign status.
func MapGoogleStatus(raw string) CampaignStatus {
	if s, ok := googleStatusTable[raw]; ok {
		return s
	}
	return StatusUnknown
}

// MapMetaStatus translates a raw Meta campaign status.
func MapMetaStatus(raw string) CampaignStatus {
	if s, ok := metaStatusTable[raw]; ok {
		return s
	}
	return StatusUnknown
}

// CampaignRow is one campaign line of the dashboard table. Internally it is a
// named record; on the wire it serializes to the positional 6-element array
// [name, spend, cpc, revenue, roas, status] that existing table renderers
// consume.
type CampaignRow struct {
	Name    string
	Spend   string
	CPC     string
	Revenue string
	ROAS    string
	Status  CampaignStatus
}

// MarshalJSON writes the row in its positional wire form.
func (r CampaignRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([6]string{r.Name, r.Spend, r.CPC, r.Revenue, r.ROAS, string(r.Status)})
}

// UnmarshalJSON reads the positional wire form back into the named record.
func (r *CampaignRow) UnmarshalJSON(data []byte) error {
	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	if len(cols) != 6 {
		return fmt.Errorf("campaign row has %d columns, want 6", len(cols))
	}
	r.Name, r.Spend, r.CPC, r.Revenue, r.ROAS = cols[0], cols[1], cols[2], cols[3], cols[4]
	r.Status = CampaignStatus(cols[5])
	return nil
}

// AccountInfo describes the connected provider account behind an envelope.
type AccountInfo struct {
	AccountName string `json:"accountName"`
	AccountID   string `json:"accountId"`
	Currency    string `json:"currency"`
	TimeZone    string `json:"timeZone"`
}

// Envelope is the uniform response of the metrics layer. The same shape is
// returned for every platform and for both mock and live paths; failures are
// reported through Error rather than a transport-level status.
type Envelope struct {
	KeyMetrics  []MetricPoint `json:"keyMetrics"`
	Campaigns   []CampaignRow `json:"campaigns"`
	AccountInfo AccountInfo   `json:"accountInfo"`
	IsTestData  bool          `json:"isTestData"`
	Error       string        `json:"error,omitempty"`
}

// googleMetricOrder is the fixed key-metric ordering of the Google envelope.
var googleMetricOrder = []MetricKey{
	MetricClicks, MetricImpressions, MetricCost, MetricConversions,
	MetricRevenue, MetricROAS, MetricCTR, MetricCPC,
}

// metaMetricOrder is the fixed key-metric ordering of the Meta envelope.
var metaMetricOrder = []MetricKey{
	MetricReach, MetricImpressions, MetricCost, MetricClicks, MetricConversions,
	MetricRevenue, MetricROAS, MetricCTR, MetricCPM, MetricCPC,
}

// zeroValueFor returns the formatted zero for a metric key.
func zeroValueFor(key MetricKey) string {
	switch key {
	case MetricCost, MetricRevenue, MetricCPC, MetricCPM:
		return "$0.00"
	case MetricCTR:
		return "0.00%"
	case MetricROAS:
		return "0.00"
	default:
		return "0"
	}
}

// ZeroMetrics returns the explicit all-zero metric set for a platform. It is
// the "no data" result, distinct from a fetch failure.
func ZeroMetrics(platform Platform) []MetricPoint {
	order := googleMetricOrder
	if platform == PlatformMeta {
		order = metaMetricOrder
	}
	points := make([]MetricPoint, 0, len(order))
	for _, key := range order {
		points = append(points, MetricPoint{Metric: key, Value: zeroValueFor(key)})
	}
	return points
}

// ZeroEnvelope returns a zeroed-but-successful envelope for the platform.
func ZeroEnvelope(platform Platform) Envelope {
	return Envelope{
		KeyMetrics: ZeroMetrics(platform),
		Campaigns:  []CampaignRow{},
	}
}

// ErrorEnvelope returns the standard failure envelope: empty collections with
// Error populated. It is the only failure shape the UI boundary ever sees.
func ErrorEnvelope(message string) Envelope {
	return Envelope{
		KeyMetrics: []MetricPoint{},
		Campaigns:  []CampaignRow{},
		Error:      message,
	}
}
