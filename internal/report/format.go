package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MichalRonowski/APApp/internal"
)

// Narrow no-break space, the Polish thousands separator.
const thinSpace = "\u202f"

// Expiry display overrides for item codes exempt from shelf-life marking.
// These are regulatory exceptions, not data-quality fallbacks; the table is
// keyed by normalized item code so more exemptions can be added.
var expiryOverrides = map[string]string{
	"Z00302": "nie dotyczy",
}

// ExpiryOverride reports the fixed expiry text for exempt item codes. The
// override applies regardless of any real expiry on the row; callers render
// it italicized.
func ExpiryOverride(itemNo string) (string, bool) {
	text, ok := expiryOverrides[strings.ToUpper(strings.TrimSpace(itemNo))]
	return text, ok
}

// FormatQuantity renders a quantity in Polish convention: narrow no-break
// space for thousands, comma as decimal separator, at most three fractional
// digits with trailing zeros trimmed. The value is first formatted in
// comma-grouped/dot-decimal style and the symbols swapped afterwards, which
// keeps the grouping logic in one place.
func FormatQuantity(q decimal.Decimal) string {
	var s string
	if q.Sub(q.Round(0)).Abs().LessThan(decimal.New(1, -9)) {
		s = groupThousands(q.Round(0).String())
	} else {
		s = q.StringFixed(3)
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
		if idx := strings.Index(s, "."); idx >= 0 {
			s = groupThousands(s[:idx]) + s[idx:]
		} else {
			s = groupThousands(s)
		}
	}
	s = strings.ReplaceAll(s, ",", "\x00")
	s = strings.ReplaceAll(s, ".", ",")
	s = strings.ReplaceAll(s, "\x00", thinSpace)
	return s
}

// groupThousands inserts comma separators into a plain integer string.
func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	if len(digits) > 3 {
		var b strings.Builder
		lead := len(digits) % 3
		if lead > 0 {
			b.WriteString(digits[:lead])
		}
		for i := lead; i < len(digits); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(digits[i : i+3])
		}
		digits = b.String()
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// FormatDate renders an optional date as DD.MM.YYYY, empty when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02.01.2006")
}

// ExpiryText resolves the display string for a row's expiry column and
// whether it should be italicized (override text is).
func ExpiryText(row internal.ReportRow) (text string, italic bool) {
	if override, ok := ExpiryOverride(row.ItemNo); ok {
		return override, true
	}
	return FormatDate(row.Expiry), false
}
