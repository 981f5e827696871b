package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one line item of the loaded shipment table. All string fields are
// kept exactly as exported by the ERP; Qty and the two dates are the only
// coerced values. UOM starts out blank (or from a unit column when the export
// carries one) and is overlaid by the unit lookup after load.
type Record struct {
	PostedAt   *time.Time
	EntryType  string
	DocType    string
	DocNo      string
	ItemNo     string
	SearchDesc string
	SourceNo   string
	Name       string
	LotNo      string
	Expiry     *time.Time
	Location   string
	Qty        decimal.Decimal
	UOM        string
}

// ReportRow is one aggregated output line of an attestation document.
type ReportRow struct {
	LP     int
	Name   string
	Qty    decimal.Decimal
	UOM    string
	LotNo  string
	Expiry *time.Time
	ItemNo string
}

// DocumentHeader carries the per-document header block. DocumentDate is
// already formatted for display (DD.MM.YYYY); both it and DocumentNo may be
// blank when the source rows carry no usable value.
type DocumentHeader struct {
	DocumentNo   string
	DocumentDate string
	CustomerName string
}

// RowPayload is the plain structural form of a ReportRow used by the
// edit-then-regenerate flow. Qty and Expiry hold display strings and are
// reparsed with the same permissive parsers applied at load time.
type RowPayload struct {
	LP     int    `json:"lp"`
	Name   string `json:"name"`
	Qty    string `json:"qty"`
	UOM    string `json:"uom"`
	LotNo  string `json:"lot_no"`
	Expiry string `json:"expiry"`
	ItemNo string `json:"item_no"`
}

// ReportEntry is one journaled generation, listed on the results view.
type ReportEntry struct {
	ID        int
	DocNo     string
	SourceNo  string
	FileName  string
	RowCount  int
	CreatedAt string
}

// UploadEntry is one journaled source-file upload.
type UploadEntry struct {
	ID         int
	FileName   string
	StoredPath string
	RowCount   int
	CreatedAt  string
}
