package ads

import (
	"math/rand"
	"time"
)

// Date range preset identifiers.
const (
	PresetToday     = "today"
	PresetYesterday = "yesterday"
	PresetLastWeek  = "last_week"
	PresetLast7Days = "last_7_days"
	PresetThisMonth = "this_month"
	PresetLastMonth = "last_month"
)

// DateRange is an inclusive calendar day span. Start and End are truncated to
// local midnight; Start is never after End. Variation, when non-zero, carries a
// uniform-random token in [0,1) that forces regeneration of mock data for the
// same span instead of the deterministic replay.
type DateRange struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Variation float64   `json:"_variation,omitempty"`
}

// midnight truncates a time to its local calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NewDateRange builds a normalized range from two dates, swapping them if
// they arrive out of order.
func NewDateRange(start, end time.Time) DateRange {
	s, e := midnight(start), midnight(end)
	if s.After(e) {
		s, e = e, s
	}
	return DateRange{Start: s, End: e}
}

// ResolvePreset converts a named preset into a concrete range. Unknown preset
// ids fall back to this_month. All arithmetic uses the local calendar at day
// granularity; no timezone is threaded through.
func ResolvePreset(presetID string) DateRange {
	return resolvePresetAt(presetID, time.Now())
}

func resolvePresetAt(presetID string, now time.Time) DateRange {
	today := midnight(now)

	switch presetID {
	case PresetToday:
		return DateRange{Start: today, End: today}

	case PresetYesterday:
		y := today.AddDate(0, 0, -1)
		return DateRange{Start: y, End: y}

	case PresetLastWeek, PresetLast7Days:
		// 7-day inclusive span ending today.
		return DateRange{Start: today.AddDate(0, 0, -6), End: today}

	case PresetLastMonth:
		start := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: end}

	case PresetThisMonth:
		fallthrough
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: today}
	}
}

// WithVariation returns a copy of the range carrying a fresh random token.
// Callers use it to defeat deterministic mock replay on an explicit refresh.
func (r DateRange) WithVariation() DateRange {
	r.Variation = rand.Float64()
	return r
}

// Days returns the inclusive length of the span in calendar days.
func (r DateRange) Days() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// PreviousPeriod returns the equal-length range immediately preceding this one,
// for period-over-period comparisons.
func (r DateRange) PreviousPeriod() DateRange {
	days := r.Days()
	if days == 0 {
		return DateRange{}
	}
	end := r.Start.AddDate(0, 0, -1)
	return DateRange{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// Overlaps reports whether two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	if r.Start.IsZero() || other.Start.IsZero() {
		return false
	}
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Key returns the "start-end" ISO identity of the span, used as the
// deterministic mock seed and as a cache key component.
func (r DateRange) Key() string {
	return r.Start.Format("2006-01-02") + "-" + r.End.Format("2006-01-02")
}
