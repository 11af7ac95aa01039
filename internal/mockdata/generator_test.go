package mockdata

import (
	"strings"
	"testing"
	"time"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

func rangeOf(startDay, endDay int) ads.DateRange {
	return ads.NewDateRange(
		time.Date(2026, time.March, startDay, 0, 0, 0, 0, time.Local),
		time.Date(2026, time.March, endDay, 0, 0, 0, 0, time.Local),
	)
}

func TestEnvelopeDeterminism(t *testing.T) {
	r := rangeOf(1, 7)

	first, ok := Envelope(ads.PlatformGoogle, r)
	if !ok {
		t.Fatal("google envelope missing")
	}
	second, _ := Envelope(ads.PlatformGoogle, r)

	for i := range first.KeyMetrics {
		if first.KeyMetrics[i] != second.KeyMetrics[i] {
			t.Errorf("metric %d differs across calls: %+v vs %+v", i, first.KeyMetrics[i], second.KeyMetrics[i])
		}
	}
	for i := range first.Campaigns {
		if first.Campaigns[i] != second.Campaigns[i] {
			t.Errorf("campaign %d differs across calls", i)
		}
	}
}

func TestEnvelopeVariesByRange(t *testing.T) {
	a, _ := Envelope(ads.PlatformGoogle, rangeOf(1, 7))
	b, _ := Envelope(ads.PlatformGoogle, rangeOf(8, 14))

	var differs bool
	for i := range a.KeyMetrics {
		if a.KeyMetrics[i].Value != b.KeyMetrics[i].Value {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("distinct ranges produced identical values")
	}
}

func TestEnvelopeFreshVariation(t *testing.T) {
	r := rangeOf(1, 7)
	base, _ := Envelope(ads.PlatformGoogle, r)

	fresh := r
	fresh.Variation = 0.95
	varied, _ := Envelope(ads.PlatformGoogle, fresh)

	if base.KeyMetrics[0].Value == varied.KeyMetrics[0].Value {
		t.Error("explicit variation did not change the output")
	}

	again, _ := Envelope(ads.PlatformGoogle, fresh)
	if varied.KeyMetrics[0].Value != again.KeyMetrics[0].Value {
		t.Error("same explicit variation must reproduce the same output")
	}
}

func TestEnvelopeShapePreserved(t *testing.T) {
	env, ok := Envelope(ads.PlatformMeta, rangeOf(1, 30))
	if !ok {
		t.Fatal("meta envelope missing")
	}

	if !env.IsTestData {
		t.Error("mock envelope must be flagged as test data")
	}
	if env.Error != "" {
		t.Error("mock envelope must not carry an error")
	}
	if len(env.KeyMetrics) != 10 {
		t.Fatalf("meta key metrics = %d, want 10", len(env.KeyMetrics))
	}
	if env.KeyMetrics[0].Metric != ads.MetricReach {
		t.Errorf("first meta metric = %q, want reach", env.KeyMetrics[0].Metric)
	}
	if len(env.Campaigns) != 7 {
		t.Errorf("campaigns = %d, want 7", len(env.Campaigns))
	}

	for _, p := range env.KeyMetrics {
		switch p.Metric {
		case ads.MetricReach, ads.MetricImpressions, ads.MetricClicks:
			if !strings.HasSuffix(p.Value, "k") {
				t.Errorf("%s = %q, want k suffix preserved", p.Metric, p.Value)
			}
		case ads.MetricCost, ads.MetricRevenue, ads.MetricCPM, ads.MetricCPC:
			if !strings.HasPrefix(p.Value, "$") {
				t.Errorf("%s = %q, want currency prefix preserved", p.Metric, p.Value)
			}
		case ads.MetricCTR:
			if !strings.HasSuffix(p.Value, "%") {
				t.Errorf("ctr = %q, want percent suffix preserved", p.Value)
			}
		}
		if p.DeltaPct < -99 || p.DeltaPct > 99 {
			t.Errorf("%s delta = %v, want within ±99", p.Metric, p.DeltaPct)
		}
	}

	for _, row := range env.Campaigns {
		if row.Status != ads.StatusActive && row.Status != ads.StatusPaused {
			t.Errorf("campaign %q status mutated to %q", row.Name, row.Status)
		}
		if !strings.HasPrefix(row.Spend, "$") || !strings.HasPrefix(row.Revenue, "$") {
			t.Errorf("campaign %q lost currency formatting: %+v", row.Name, row)
		}
	}
}

func TestEnvelopeVariationBounds(t *testing.T) {
	// The scale factor window narrows as the range grows.
	tests := []struct {
		name     string
		r        ads.DateRange
		min, max float64
	}{
		{"week", rangeOf(1, 7), 0.7, 1.3},
		{"month", rangeOf(1, 29), 0.8, 1.2},
		{"quarter", ads.NewDateRange(
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)), 0.9, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor := variationFactor(tt.r)
			if factor < tt.min || factor > tt.max {
				t.Errorf("factor = %v, want within [%v, %v]", factor, tt.min, tt.max)
			}
		})
	}
}

func TestEnvelopeUnknownPlatform(t *testing.T) {
	if _, ok := Envelope(ads.Platform("tiktok"), rangeOf(1, 7)); ok {
		t.Error("unknown platform must report no data")
	}
}

func TestSimpleHashStability(t *testing.T) {
	a := simpleHash("2026-03-01-2026-03-07")
	b := simpleHash("2026-03-01-2026-03-07")
	if a != b {
		t.Error("hash not stable")
	}
	if a < 0 {
		t.Errorf("hash = %d, want non-negative", a)
	}
	if simpleHash("2026-03-01-2026-03-07") == simpleHash("2026-03-08-2026-03-14") {
		t.Error("distinct keys collided")
	}
}
