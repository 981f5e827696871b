// Package report turns a document's records into the ordered attestation
// rows and the header block the renderer consumes.
package report

import (
	"sort"
	"strings"
	"time"

	"github.com/MichalRonowski/APApp/internal"
)

// Marker distinguishing outbound shipment lines from inbound and adjustment
// entries sharing the same document number.
const outboundMarker = "Wydanie sprzedaży"

type groupKey struct {
	name   string
	lotNo  string
	expiry string
	itemNo string
	uom    string
}

func expiryKey(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// BuildRows aggregates one document's records into report rows. When
// hasDocType is set, only outbound lines (marker in document type, or a
// negative quantity) are considered. Records sharing (name, lot, expiry,
// item code, unit) merge into one row whose quantity is the absolute value
// of the signed sum, so a return can net against a shipment of the same lot.
// Output order is (name, lot, expiry), stable, with dense 1-based numbering.
func BuildRows(records []internal.Record, hasDocType bool) []internal.ReportRow {
	grouped := map[groupKey]*internal.ReportRow{}
	order := []groupKey{}

	for _, rec := range records {
		if hasDocType {
			outbound := strings.Contains(rec.DocType, outboundMarker) || rec.Qty.IsNegative()
			if !outbound {
				continue
			}
		}

		key := groupKey{
			name:   rec.Name,
			lotNo:  rec.LotNo,
			expiry: expiryKey(rec.Expiry),
			itemNo: rec.ItemNo,
			uom:    rec.UOM,
		}
		if row, ok := grouped[key]; ok {
			row.Qty = row.Qty.Add(rec.Qty)
			continue
		}
		grouped[key] = &internal.ReportRow{
			Name:   rec.Name,
			Qty:    rec.Qty,
			UOM:    rec.UOM,
			LotNo:  rec.LotNo,
			Expiry: rec.Expiry,
			ItemNo: rec.ItemNo,
		}
		order = append(order, key)
	}

	rows := make([]internal.ReportRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, *grouped[key])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		if rows[i].LotNo != rows[j].LotNo {
			return rows[i].LotNo < rows[j].LotNo
		}
		return expiryKey(rows[i].Expiry) < expiryKey(rows[j].Expiry)
	})

	for i := range rows {
		rows[i].Qty = rows[i].Qty.Abs()
		rows[i].LP = i + 1
	}
	return rows
}

// InferHeader derives the document number and formatted posting date from a
// document's records: first non-empty number, first parseable date. Blanks
// are legitimate and printable.
func InferHeader(records []internal.Record) internal.DocumentHeader {
	header := internal.DocumentHeader{}
	for _, rec := range records {
		if header.DocumentNo == "" && strings.TrimSpace(rec.DocNo) != "" {
			header.DocumentNo = strings.TrimSpace(rec.DocNo)
		}
		if header.DocumentDate == "" && rec.PostedAt != nil {
			header.DocumentDate = rec.PostedAt.Format("02.01.2006")
		}
		if header.DocumentNo != "" && header.DocumentDate != "" {
			break
		}
	}
	return header
}
