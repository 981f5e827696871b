package report

import (
	"strings"

	"github.com/MichalRonowski/APApp/internal"
	"github.com/MichalRonowski/APApp/internal/dataset"
)

// ToPayloads converts report rows to the plain structural form handed to the
// interactive editor. Quantities and dates are display strings there.
func ToPayloads(rows []internal.ReportRow) []internal.RowPayload {
	out := make([]internal.RowPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, internal.RowPayload{
			LP:     row.LP,
			Name:   row.Name,
			Qty:    FormatQuantity(row.Qty),
			UOM:    row.UOM,
			LotNo:  row.LotNo,
			Expiry: FormatDate(row.Expiry),
			ItemNo: row.ItemNo,
		})
	}
	return out
}

// FromPayloads reconstructs report rows from edited payloads. Display
// quantities and dates go back through the same permissive parsers used at
// load time; sequence numbers are reassigned densely in the given order so
// edits that delete rows stay consistent.
func FromPayloads(payloads []internal.RowPayload) []internal.ReportRow {
	out := make([]internal.ReportRow, 0, len(payloads))
	for i, p := range payloads {
		out = append(out, internal.ReportRow{
			LP:     i + 1,
			Name:   strings.TrimSpace(p.Name),
			Qty:    dataset.ParseQuantity(p.Qty),
			UOM:    strings.TrimSpace(p.UOM),
			LotNo:  strings.TrimSpace(p.LotNo),
			Expiry: dataset.ParseDate(p.Expiry),
			ItemNo: strings.TrimSpace(p.ItemNo),
		})
	}
	return out
}
