package uom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MichalRonowski/APApp/internal"
)

func writeLookupCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Jednostki.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mkXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "Jednostki.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildLookupCSV(t *testing.T) {
	path := writeLookupCSV(t, "Nr zapasu,Jednostka miary\n1234,kilogramy\n77001,sztuka\nABC-1,beczka\n")

	lookup := BuildLookup(path)
	if got := lookup["1234"]; got != "KG" {
		t.Fatalf("1234=%q", got)
	}
	if got := lookup["77001"]; got != "SZT" {
		t.Fatalf("77001=%q", got)
	}
	if got := lookup["ABC-1"]; got != "BECZKA" {
		t.Fatalf("ABC-1=%q", got)
	}
}

func TestBuildLookupXLSX(t *testing.T) {
	path := mkXLSX(t, [][]any{
		{"Nr", "Podst. jednostka miary"},
		{"1234", "litry"},
	})

	lookup := BuildLookup(path)
	if got := lookup["1234"]; got != "L" {
		t.Fatalf("1234=%q", got)
	}
}

func TestBuildLookupAliases(t *testing.T) {
	cases := []struct {
		name    string
		content string
		code    string
		want    string
	}{
		{name: "4-digit registers padded", content: "Nr,Jednostka\n1234,kg\n", code: "Z01234", want: "KG"},
		{name: "5-digit registers padded", content: "Nr,Jednostka\n77001,szt\n", code: "Z77001", want: "SZT"},
		{name: "padded with zero registers bare", content: "Nr,Jednostka\nZ01234,l\n", code: "01234", want: "L"},
		{name: "padded with zero registers tail", content: "Nr,Jednostka\nZ01234,l\n", code: "1234", want: "L"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lookup := BuildLookup(writeLookupCSV(t, tc.content))
			if got := lookup[tc.code]; got != tc.want {
				t.Fatalf("%s=%q want %q", tc.code, got, tc.want)
			}
		})
	}
}

func TestBuildLookupExplicitWins(t *testing.T) {
	lookup := BuildLookup(writeLookupCSV(t, "Nr,Jednostka\nZ01234,l\n1234,kg\n"))
	if got := lookup["1234"]; got != "KG" {
		t.Fatalf("explicit entry overridden: 1234=%q", got)
	}
	if got := lookup["Z01234"]; got != "L" {
		t.Fatalf("Z01234=%q", got)
	}
}

func TestBuildLookupDegradesToEmpty(t *testing.T) {
	if got := BuildLookup(""); len(got) != 0 {
		t.Fatalf("empty path: %v", got)
	}
	if got := BuildLookup(filepath.Join(t.TempDir(), "missing.csv")); len(got) != 0 {
		t.Fatalf("missing file: %v", got)
	}
	if got := BuildLookup(writeLookupCSV(t, "Kolumna A,Kolumna B\nx,y\n")); len(got) != 0 {
		t.Fatalf("unknown headers: %v", got)
	}
	if got := BuildLookup(writeLookupCSV(t, "")); len(got) != 0 {
		t.Fatalf("empty file: %v", got)
	}
}

func TestApplyOverlay(t *testing.T) {
	lookup := BuildLookup(writeLookupCSV(t, "Nr,Jednostka\n1234,kg\n"))

	records := []internal.Record{
		{ItemNo: " z01234 ", UOM: "szt", Qty: decimal.New(1, 0)},
		{ItemNo: "9999", UOM: "szt", Qty: decimal.New(1, 0)},
	}
	lookup.Apply(records)

	if records[0].UOM != "KG" {
		t.Fatalf("hit not overlaid: %q", records[0].UOM)
	}
	if records[1].UOM != "szt" {
		t.Fatalf("miss modified: %q", records[1].UOM)
	}
}
