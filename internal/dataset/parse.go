package dataset

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	reThousandComma = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
	reStripChars    = strings.NewReplacer(
		" ", "",
		"\t", "",
		"\u00a0", "",
		"\u202f", "",
		`"`, "",
		"'", "",
	)
)

// Layouts tried in order. Month-first conventions go first; day-first is the
// retry pass, matching how the ERP exports mix US and Polish formats.
var (
	monthFirstLayouts = []string{
		"1/2/2006",
		"2006-01-02",
		"2006.01.02",
		"20060102",
		"1-2-2006",
		"1.2.2006",
	}
	dayFirstLayouts = []string{
		"2.1.2006",
		"2/1/2006",
		"2-1-2006",
	}
)

// ParseDate coerces a raw cell into a calendar date. Inputs seen in the wild:
// 11/21/2025, 3/1/2026, 26.02.2026, 2025-11-17, 20251221. Returns nil for
// anything unparseable; callers treat a missing date as legitimately absent.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	if s == "" {
		return nil
	}
	if idx := strings.IndexAny(s, " T"); idx > 0 {
		// Drop a time-of-day tail if the export leaked one.
		s = s[:idx]
	}
	for _, layout := range monthFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseQuantity coerces a raw cell into a signed decimal. It never fails:
// malformed input yields zero so a single bad cell cannot abort a batch.
// Comma handling: a lone comma grouping three digits is a thousands
// separator ("2,000" -> 2000), any other comma is a decimal point
// ("2,5" -> 2.5).
func ParseQuantity(raw string) decimal.Decimal {
	s := reStripChars.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	if reThousandComma.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
