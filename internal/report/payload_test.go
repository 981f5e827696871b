package report

import (
	"testing"
	"time"

	"github.com/MichalRonowski/APApp/internal"
)

func TestToPayloads(t *testing.T) {
	exp := datePtr(2026, time.February, 26)
	rows := []internal.ReportRow{
		{LP: 1, Name: "Produkt A", Qty: qty("1234.5"), UOM: "KG", LotNo: "L1", Expiry: exp, ItemNo: "1234"},
		{LP: 2, Name: "Produkt B", Qty: qty("8"), UOM: "SZT", LotNo: "L2", ItemNo: "Z00302"},
	}

	payloads := ToPayloads(rows)
	if len(payloads) != 2 {
		t.Fatalf("payloads=%d", len(payloads))
	}
	if payloads[0].Qty != "1\u202f234,5" {
		t.Fatalf("qty=%q", payloads[0].Qty)
	}
	if payloads[0].Expiry != "26.02.2026" {
		t.Fatalf("expiry=%q", payloads[0].Expiry)
	}
	if payloads[1].Expiry != "" {
		t.Fatalf("empty expiry: %q", payloads[1].Expiry)
	}
}

func TestFromPayloadsRoundTrip(t *testing.T) {
	exp := datePtr(2026, time.February, 26)
	rows := []internal.ReportRow{
		{LP: 1, Name: "Produkt A", Qty: qty("1234.567"), UOM: "KG", LotNo: "L1", Expiry: exp, ItemNo: "1234"},
		{LP: 2, Name: "Produkt B", Qty: qty("2.5"), UOM: "SZT", LotNo: "L2", ItemNo: "5678"},
	}

	back := FromPayloads(ToPayloads(rows))
	if len(back) != len(rows) {
		t.Fatalf("rows=%d", len(back))
	}
	for i := range rows {
		if !back[i].Qty.Equal(rows[i].Qty) {
			t.Fatalf("row %d: qty %s != %s", i, back[i].Qty, rows[i].Qty)
		}
		if FormatDate(back[i].Expiry) != FormatDate(rows[i].Expiry) {
			t.Fatalf("row %d: expiry %v != %v", i, back[i].Expiry, rows[i].Expiry)
		}
		if back[i].Name != rows[i].Name || back[i].UOM != rows[i].UOM || back[i].LotNo != rows[i].LotNo {
			t.Fatalf("row %d: %+v != %+v", i, back[i], rows[i])
		}
	}
}

func TestFromPayloadsReassignsSequence(t *testing.T) {
	payloads := []internal.RowPayload{
		{LP: 4, Name: "A", Qty: "1"},
		{LP: 9, Name: "B", Qty: "2,5"},
	}

	rows := FromPayloads(payloads)
	if rows[0].LP != 1 || rows[1].LP != 2 {
		t.Fatalf("lp=%d,%d", rows[0].LP, rows[1].LP)
	}
	if rows[1].Qty.String() != "2.5" {
		t.Fatalf("qty=%s", rows[1].Qty)
	}
}

func TestFromPayloadsTrimsFields(t *testing.T) {
	rows := FromPayloads([]internal.RowPayload{
		{Name: "  Produkt A  ", Qty: " 5 ", UOM: " kg ", LotNo: " L1 ", ItemNo: " 1234 "},
	})
	row := rows[0]
	if row.Name != "Produkt A" || row.UOM != "kg" || row.LotNo != "L1" || row.ItemNo != "1234" {
		t.Fatalf("row=%+v", row)
	}
	if row.Qty.String() != "5" {
		t.Fatalf("qty=%s", row.Qty)
	}
}
