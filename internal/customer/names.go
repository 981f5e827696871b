// Package customer loads the optional source-number to display-name mapping.
package customer

import (
	"bytes"
	"encoding/csv"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Names maps a source number ("Nr") to its display name ("Nazwa szukana").
type Names map[string]string

// LoadNames reads the customer reference file. The file handed over by the
// office is sometimes an XLSX workbook misnamed as .csv, so the spreadsheet
// reader is tried first. Missing or unreadable files yield an empty map;
// headers then fall back to showing the raw source number.
func LoadNames(path string) Names {
	if strings.TrimSpace(path) == "" {
		return Names{}
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return Names{}
	}

	rows := readRows(blob)
	if len(rows) < 2 {
		return Names{}
	}

	nrIdx, nameIdx := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "nr":
			if nrIdx < 0 {
				nrIdx = i
			}
		case "nazwa szukana":
			if nameIdx < 0 {
				nameIdx = i
			}
		}
	}
	if nrIdx < 0 || nameIdx < 0 {
		return Names{}
	}

	names := Names{}
	for _, row := range rows[1:] {
		if nrIdx >= len(row) || nameIdx >= len(row) {
			continue
		}
		nr := strings.TrimSpace(row[nrIdx])
		name := strings.TrimSpace(row[nameIdx])
		if nr == "" || name == "" {
			continue
		}
		names[nr] = name
	}
	return names
}

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

// Display returns the customer label for a source number: the mapped name
// when known, otherwise the number itself.
func (n Names) Display(sourceNo string) string {
	if name, ok := n[strings.TrimSpace(sourceNo)]; ok {
		return name
	}
	return sourceNo
}
