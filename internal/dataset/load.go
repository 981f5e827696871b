package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MichalRonowski/APApp/internal"
)

// Column headers of the ERP export. Absence of any of these is a
// configuration error for the whole file, not a per-row problem.
var requiredColumns = map[string]string{
	"date_posted": "Data księgowania",
	"entry_type":  "Typ zapisu",
	"doc_no":      "Nr dokumentu",
	"item_no":     "Nr zapasu",
	"search_desc": "Opis szukany",
	"source_no":   "Nr źródła",
	"name":        "Nazwa",
	"lot_no":      "Nr partii",
	"expiry":      "Data ważności",
	"location":    "Kod lokalizacji",
	"qty":         "Ilość",
}

// Some exports omit the document-type column; the outbound filter is then
// skipped instead of failing the load.
const docTypeColumn = "Typ dokumentu"

// Optional unit-of-measure column names some exports carry.
var uomAliases = []string{
	"Jednostka miary",
	"J.m.",
	"JM",
	"Jedn. miary",
	"Jednostka",
	"Jednostka sprzedaży",
	"Unit of Measure",
}

const (
	// Internal transfer documents, never reported to customers.
	excludedDocFragment = "/KG/"
	// Packaging positions share documents with goods but are not attested.
	excludedNamePrefix = "OP-"
)

// Table is the loaded record set. HasDocType remembers whether the export
// carried the document-type column; the outbound-movement filter is skipped
// without it.
type Table struct {
	Records    []internal.Record
	HasDocType bool
}

// Load reads the UTF-8 (optionally BOM-prefixed) delimited export at path.
// Rows on excluded documents or with excluded name prefixes are dropped here
// and never reappear downstream.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read source table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("source table %s is empty", path)
	}

	header := rows[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	missing := []string{}
	idx := map[string]int{}
	for key, name := range requiredColumns {
		i, ok := colIdx[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[key] = i
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("source table %s is missing columns: %s", path, strings.Join(missing, ", "))
	}

	docTypeIdx := -1
	if i, ok := colIdx[docTypeColumn]; ok {
		docTypeIdx = i
	}

	uomIdx := -1
	for _, alias := range uomAliases {
		if i, ok := colIdx[alias]; ok {
			uomIdx = i
			break
		}
	}

	cell := func(row []string, key string) string {
		i := idx[key]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	table := &Table{HasDocType: docTypeIdx >= 0}
	for _, row := range rows[1:] {
		docNo := cell(row, "doc_no")
		name := cell(row, "name")
		if strings.Contains(docNo, excludedDocFragment) {
			continue
		}
		if strings.HasPrefix(name, excludedNamePrefix) {
			continue
		}

		rec := internal.Record{
			PostedAt:   ParseDate(cell(row, "date_posted")),
			EntryType:  cell(row, "entry_type"),
			DocNo:      docNo,
			ItemNo:     cell(row, "item_no"),
			SearchDesc: cell(row, "search_desc"),
			SourceNo:   cell(row, "source_no"),
			Name:       name,
			LotNo:      cell(row, "lot_no"),
			Expiry:     ParseDate(cell(row, "expiry")),
			Location:   cell(row, "location"),
			Qty:        ParseQuantity(cell(row, "qty")),
		}
		if docTypeIdx >= 0 && docTypeIdx < len(row) {
			rec.DocType = strings.TrimSpace(row[docTypeIdx])
		}
		if uomIdx >= 0 && uomIdx < len(row) {
			rec.UOM = strings.TrimSpace(row[uomIdx])
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// Sources returns the distinct non-empty source numbers, sorted.
func (t *Table) Sources() []string {
	seen := map[string]struct{}{}
	for _, rec := range t.Records {
		if rec.SourceNo != "" {
			seen[rec.SourceNo] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// FilterBySources keeps records issued against any of the given sources.
func (t *Table) FilterBySources(sources []string) []internal.Record {
	want := map[string]struct{}{}
	for _, s := range sources {
		want[strings.TrimSpace(s)] = struct{}{}
	}
	out := make([]internal.Record, 0, len(t.Records))
	for _, rec := range t.Records {
		if _, ok := want[rec.SourceNo]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// GroupByDocument splits records per document number, returning document
// numbers in sorted order for reproducible batch output.
func GroupByDocument(records []internal.Record) ([]string, map[string][]internal.Record) {
	groups := map[string][]internal.Record{}
	for _, rec := range records {
		groups[rec.DocNo] = append(groups[rec.DocNo], rec)
	}
	docs := make([]string, 0, len(groups))
	for doc := range groups {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	return docs, groups
}

// FilterByDocument keeps records of a single document.
func FilterByDocument(records []internal.Record, docNo string) []internal.Record {
	out := make([]internal.Record, 0, len(records))
	for _, rec := range records {
		if rec.DocNo == docNo {
			out = append(out, rec)
		}
	}
	return out
}
