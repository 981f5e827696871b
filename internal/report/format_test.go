package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MichalRonowski/APApp/internal"
	"github.com/MichalRonowski/APApp/internal/dataset"
)

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "integer", input: "8", want: "8"},
		{name: "integer thousands", input: "2000", want: "2\u202f000"},
		{name: "integer millions", input: "1234567", want: "1\u202f234\u202f567"},
		{name: "decimal comma", input: "2.5", want: "2,5"},
		{name: "trailing zeros trimmed", input: "2.500", want: "2,5"},
		{name: "three decimals kept", input: "0.125", want: "0,125"},
		{name: "grouped with decimals", input: "1234.567", want: "1\u202f234,567"},
		{name: "rounded to three decimals", input: "2.00051", want: "2,001"},
		{name: "negative grouped", input: "-12345.5", want: "-12\u202f345,5"},
		{name: "zero", input: "0", want: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := decimal.NewFromString(tc.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := FormatQuantity(q); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestFormatQuantityRoundTrip(t *testing.T) {
	for _, input := range []string{"8", "2.5", "0.125", "1234.567", "2000000", "-12345.5"} {
		q, err := decimal.NewFromString(input)
		if err != nil {
			t.Fatal(err)
		}
		back := dataset.ParseQuantity(FormatQuantity(q))
		if !back.Sub(q).Abs().LessThan(decimal.New(1, -9)) {
			t.Fatalf("%s: formatted %q reparsed as %s", input, FormatQuantity(q), back)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "26.02.2026" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDate(nil); got != "" {
		t.Fatalf("nil date: %q", got)
	}
}

func TestExpiryOverride(t *testing.T) {
	if text, ok := ExpiryOverride("Z00302"); !ok || text != "nie dotyczy" {
		t.Fatalf("Z00302: %q %v", text, ok)
	}
	if text, ok := ExpiryOverride(" z00302 "); !ok || text != "nie dotyczy" {
		t.Fatalf("normalized: %q %v", text, ok)
	}
	if _, ok := ExpiryOverride("Z99999"); ok {
		t.Fatal("unexpected override")
	}
}

func TestExpiryText(t *testing.T) {
	d := time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC)

	text, italic := ExpiryText(internal.ReportRow{ItemNo: "1234", Expiry: &d})
	if text != "26.02.2026" || italic {
		t.Fatalf("dated row: %q %v", text, italic)
	}

	// The override wins even when the row carries a real expiry date.
	text, italic = ExpiryText(internal.ReportRow{ItemNo: "Z00302", Expiry: &d})
	if text != "nie dotyczy" || !italic {
		t.Fatalf("override row: %q %v", text, italic)
	}

	text, italic = ExpiryText(internal.ReportRow{ItemNo: "1234"})
	if text != "" || italic {
		t.Fatalf("empty row: %q %v", text, italic)
	}
}
