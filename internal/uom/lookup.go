// Package uom builds and applies the item-code to unit-of-measure mapping.
// The reference file is maintained by hand outside the system, so everything
// here degrades to "no mapping" rather than failing a batch.
package uom

import (
	"bytes"
	"encoding/csv"
	"os"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MichalRonowski/APApp/internal"
)

// Lookup maps a normalized item code to a canonical unit string.
type Lookup map[string]string

// Canonical short codes for the unit spellings seen in reference files.
// Unrecognized values pass through uppercased.
var unitSynonyms = map[string]string{
	"kilogram":   "KG",
	"kilogramy":  "KG",
	"kilogramów": "KG",
	"kg":         "KG",
	"sztuka":     "SZT",
	"sztuki":     "SZT",
	"sztuk":      "SZT",
	"szt":        "SZT",
	"szt.":       "SZT",
	"litr":       "L",
	"litry":      "L",
	"litrów":     "L",
	"l":          "L",
	"gram":       "G",
	"gramy":      "G",
	"gramów":     "G",
	"g":          "G",
	"mililitr":   "ML",
	"mililitry":  "ML",
	"ml":         "ML",
}

var (
	reDigits4 = regexp.MustCompile(`^\d{4}$`)
	reDigits5 = regexp.MustCompile(`^\d{5}$`)
	rePadded  = regexp.MustCompile(`^Z(\d{5})$`)
)

// BuildLookup reads the reference file (CSV or single-sheet spreadsheet) and
// returns the code-to-unit mapping. A missing or unreadable file yields an
// empty mapping; the pipeline then emits blank units instead of failing.
func BuildLookup(path string) Lookup {
	if strings.TrimSpace(path) == "" {
		return Lookup{}
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return Lookup{}
	}

	rows := readRows(blob)
	if len(rows) < 2 {
		return Lookup{}
	}

	codeIdx, unitIdx := findColumns(rows[0])
	if codeIdx < 0 || unitIdx < 0 {
		return Lookup{}
	}

	lookup := Lookup{}
	for _, row := range rows[1:] {
		if codeIdx >= len(row) || unitIdx >= len(row) {
			continue
		}
		code := NormalizeCode(row[codeIdx])
		unit := NormalizeUnit(row[unitIdx])
		if code == "" || unit == "" {
			continue
		}
		lookup[code] = unit
	}

	expandAliases(lookup)
	return lookup
}

// readRows handles both real CSV files and spreadsheets misnamed as .csv,
// which the reference exports are known to be.
func readRows(blob []byte) [][]string {
	if f, err := excelize.OpenReader(bytes.NewReader(blob)); err == nil {
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) > 0 {
			if rows, err := f.GetRows(sheets[0]); err == nil {
				return rows
			}
		}
		return nil
	}

	text := strings.TrimPrefix(string(blob), "\uFEFF")
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil
	}
	return rows
}

func findColumns(header []string) (codeIdx, unitIdx int) {
	codeIdx, unitIdx = -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if codeIdx < 0 && (name == "nr" || name == "nr zapasu") {
			codeIdx = i
		}
		if unitIdx < 0 && (strings.Contains(name, "jednostka") ||
			strings.HasPrefix(name, "podst.") || strings.HasPrefix(name, "podstawowa")) {
			unitIdx = i
		}
	}
	return codeIdx, unitIdx
}

// expandAliases registers padded and bare variants of numeric codes so
// lookups succeed regardless of which padding convention the export uses.
// Explicit entries from the file always win over derived aliases.
func expandAliases(lookup Lookup) {
	setIfAbsent := func(code, unit string) {
		if _, ok := lookup[code]; !ok {
			lookup[code] = unit
		}
	}

	// Snapshot first: aliases must derive from file entries only.
	type entry struct{ code, unit string }
	entries := make([]entry, 0, len(lookup))
	for code, unit := range lookup {
		entries = append(entries, entry{code, unit})
	}

	for _, e := range entries {
		switch {
		case reDigits4.MatchString(e.code):
			setIfAbsent("Z0"+e.code, e.unit)
		case reDigits5.MatchString(e.code):
			setIfAbsent("Z"+e.code, e.unit)
		default:
			if m := rePadded.FindStringSubmatch(e.code); m != nil && strings.HasPrefix(m[1], "0") {
				setIfAbsent(m[1], e.unit)
				setIfAbsent(m[1][1:], e.unit)
			}
		}
	}
}

// NormalizeCode trims and uppercases an item code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeUnit maps a raw unit spelling to its canonical short code.
func NormalizeUnit(unit string) string {
	u := strings.TrimSpace(unit)
	if u == "" {
		return ""
	}
	if canonical, ok := unitSynonyms[strings.ToLower(u)]; ok {
		return canonical
	}
	return strings.ToUpper(u)
}

// Apply overlays the lookup onto the records: a hit overwrites whatever unit
// the export carried, a miss leaves the record untouched.
func (l Lookup) Apply(records []internal.Record) {
	if len(l) == 0 {
		return
	}
	for i := range records {
		if unit, ok := l[NormalizeCode(records[i].ItemNo)]; ok && unit != "" {
			records[i].UOM = unit
		}
	}
}
