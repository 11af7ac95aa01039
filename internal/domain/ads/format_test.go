package ads

import "testing"

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1500, "1.5k"},
		{50000, "50.0k"},
		{999999, "1000.0k"},
		{1000000, "1.0M"},
		{2340000, "2.3M"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrencyAndPercent(t *testing.T) {
	if got := FormatCurrency(0); got != "$0.00" {
		t.Errorf("FormatCurrency(0) = %q", got)
	}
	if got := FormatCurrency(1234.5); got != "$1234.50" {
		t.Errorf("FormatCurrency(1234.5) = %q", got)
	}
	if got := FormatPercent(2); got != "2.00%" {
		t.Errorf("FormatPercent(2) = %q", got)
	}
	if got := FormatDecimal(250); got != "250.00" {
		t.Errorf("FormatDecimal(250) = %q", got)
	}
}

func TestParseDisplayDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"05/03/2026", true},
		{"31/12/1999", true},
		{"32/01/2026", false},
		{"15/13/2026", false},
		{"01/01/1899", false},
		{"2026-03-05", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, ok := ParseDisplayDate(tt.in); ok != tt.ok {
			t.Errorf("ParseDisplayDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}

	parsed, ok := ParseDisplayDate("05/03/2026")
	if !ok {
		t.Fatal("expected valid date")
	}
	if parsed.Day() != 5 || parsed.Month() != 3 || parsed.Year() != 2026 {
		t.Errorf("parsed = %v, want 2026-03-05", parsed)
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 100, 0},
		{10, 0, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.current, tt.previous); got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}
