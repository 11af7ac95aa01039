package ads

import (
	"encoding/json"
	"testing"
)

func TestCampaignRowWireFormat(t *testing.T) {
	row := CampaignRow{
		Name:    "Summer Sale",
		Spend:   "$1250.00",
		CPC:     "$0.45",
		Revenue: "$4800.00",
		ROAS:    "3.84",
		Status:  StatusActive,
	}

	data, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["Summer Sale","$1250.00","$0.45","$4800.00","3.84","Active"]`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}

	var back CampaignRow
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != row {
		t.Errorf("round trip = %+v, want %+v", back, row)
	}
}

func TestCampaignRowRejectsWrongArity(t *testing.T) {
	var row CampaignRow
	if err := json.Unmarshal([]byte(`["only","five","columns","in","here"]`), &row); err == nil {
		t.Error("expected error for 5-column row")
	}
}

func TestStatusMapping(t *testing.T) {
	google := map[string]CampaignStatus{
		"ENABLED": StatusActive,
		"PAUSED":  StatusPaused,
		"REMOVED": StatusRemoved,
		"DRAFT":   StatusUnknown,
		"":        StatusUnknown,
	}
	for raw, want := range google {
		if got := MapGoogleStatus(raw); got != want {
			t.Errorf("MapGoogleStatus(%q) = %q, want %q", raw, got, want)
		}
	}

	meta := map[string]CampaignStatus{
		"ACTIVE":    StatusActive,
		"PAUSED":    StatusPaused,
		"DELETED":   StatusDeleted,
		"ARCHIVED":  StatusArchived,
		"IN_REVIEW": StatusUnknown,
	}
	for raw, want := range meta {
		if got := MapMetaStatus(raw); got != want {
			t.Errorf("MapMetaStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestZeroEnvelope(t *testing.T) {
	google := ZeroEnvelope(PlatformGoogle)
	if len(google.KeyMetrics) != 8 {
		t.Fatalf("google zero envelope has %d metrics, want 8", len(google.KeyMetrics))
	}
	if google.KeyMetrics[0].Metric != MetricClicks {
		t.Errorf("google first metric = %q, want clicks", google.KeyMetrics[0].Metric)
	}
	if google.Error != "" || google.IsTestData {
		t.Error("zero envelope must report success with live data")
	}

	meta := ZeroEnvelope(PlatformMeta)
	if len(meta.KeyMetrics) != 10 {
		t.Fatalf("meta zero envelope has %d metrics, want 10", len(meta.KeyMetrics))
	}
	if meta.KeyMetrics[0].Metric != MetricReach {
		t.Errorf("meta first metric = %q, want reach", meta.KeyMetrics[0].Metric)
	}

	for _, p := range append(google.KeyMetrics, meta.KeyMetrics...) {
		switch p.Metric {
		case MetricCost, MetricRevenue, MetricCPC, MetricCPM:
			if p.Value != "$0.00" {
				t.Errorf("%s zero = %q, want $0.00", p.Metric, p.Value)
			}
		case MetricCTR:
			if p.Value != "0.00%" {
				t.Errorf("ctr zero = %q, want 0.00%%", p.Value)
			}
		case MetricROAS:
			if p.Value != "0.00" {
				t.Errorf("roas zero = %q, want 0.00", p.Value)
			}
		default:
			if p.Value != "0" {
				t.Errorf("%s zero = %q, want 0", p.Metric, p.Value)
			}
		}
	}
}

func TestErrorEnvelope(t *testing.T) {
	env := ErrorEnvelope("google ads: token rejected")
	if env.Error == "" {
		t.Fatal("error envelope must carry a message")
	}
	if len(env.KeyMetrics) != 0 || len(env.Campaigns) != 0 {
		t.Error("error envelope must carry empty collections, not nil-vs-data ambiguity")
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(decoded["keyMetrics"]) != "[]" {
		t.Errorf("keyMetrics serialized as %s, want []", decoded["keyMetrics"])
	}
	if string(decoded["campaigns"]) != "[]" {
		t.Errorf("campaigns serialized as %s, want []", decoded["campaigns"])
	}
}
