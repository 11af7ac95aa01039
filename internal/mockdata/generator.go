package mockdata

import (
	"math"
	"strconv"
	"strings"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// Envelope returns the demo dataset for the platform scaled to the date
// range. Without an explicit variation the scale factor is derived from the
// range itself, so repeated requests for the same window return identical
// numbers. The second return is false for unknown platforms.
func Envelope(platform ads.Platform, dateRange ads.DateRange) (ads.Envelope, bool) {
	env, ok := baseEnvelope(platform)
	if !ok {
		return ads.Envelope{}, false
	}
	applyVariation(&env, variationFactor(dateRange))
	return env, true
}

// variationFactor maps a date range onto a scale factor. Short windows swing
// wider than long ones: up to 7 days scales within [0.7, 1.3], up to 30
// within [0.8, 1.2], anything longer within [0.9, 1.1].
func variationFactor(dateRange ads.DateRange) float64 {
	days := math.Abs(dateRange.End.Sub(dateRange.Start).Hours() / 24)

	random := dateRange.Variation
	if random == 0 {
		random = seededRandom(simpleHash(dateRange.Key()))
	}

	switch {
	case days <= 7:
		return 0.7 + random*0.6
	case days <= 30:
		return 0.8 + random*0.4
	default:
		return 0.9 + random*0.2
	}
}

// simpleHash folds a string into a non-negative 31-bit value with the
// classic shift-and-subtract string hash.
func simpleHash(s string) int32 {
	var hash int32
	for _, char := range s {
		hash = (hash << 5) - hash + int32(char)
	}
	if hash < 0 {
		return -hash
	}
	return hash
}

// seededRandom maps a seed onto [0, 1) deterministically.
func seededRandom(seed int32) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

func applyVariation(env *ads.Envelope, factor float64) {
	for i := range env.KeyMetrics {
		env.KeyMetrics[i].Value = scaleValue(env.KeyMetrics[i].Value, factor)
		env.KeyMetrics[i].DeltaPct = scaleDelta(env.KeyMetrics[i].DeltaPct, factor)
	}
	for i := range env.Campaigns {
		env.Campaigns[i].Spend = scaleValue(env.Campaigns[i].Spend, factor)
		env.Campaigns[i].CPC = scaleValue(env.Campaigns[i].CPC, factor)
		env.Campaigns[i].Revenue = scaleValue(env.Campaigns[i].Revenue, factor)
		env.Campaigns[i].ROAS = scaleValue(env.Campaigns[i].ROAS, factor)
	}
}

// scaleValue multiplies a formatted value by the factor while keeping its
// display shape: "25.4k" stays a k-value, "$1,247.89" stays currency,
// "2.85%" stays a percentage. Unparseable values pass through untouched.
func scaleValue(value string, factor float64) string {
	stripped := strings.NewReplacer("$", "", ",", "", "k", "", "%", "").Replace(value)
	numeric, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return value
	}
	scaled := numeric * factor

	switch {
	case strings.Contains(value, "k"):
		return strconv.FormatFloat(scaled, 'f', 1, 64) + "k"
	case strings.Contains(value, "$"):
		return "$" + strconv.FormatFloat(scaled, 'f', 2, 64)
	case strings.Contains(value, "%"):
		return strconv.FormatFloat(scaled, 'f', 2, 64) + "%"
	default:
		return strconv.FormatFloat(scaled, 'f', 2, 64)
	}
}

// scaleDelta skews the period-over-period delta alongside the value, clamped
// to ±99 so the badge never shows an absurd swing.
func scaleDelta(delta, factor float64) float64 {
	skewed := delta*factor + (factor-1)*5
	return math.Max(-99, math.Min(99, skewed))
}
