// Package render lays out one attestation document as an A4 PDF.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/MichalRonowski/APApp/internal"
	"github.com/MichalRonowski/APApp/internal/config"
	"github.com/MichalRonowski/APApp/internal/report"
)

// Relative column widths of the report table: Lp., name, quantity, unit,
// lot, expiry. Scaled to the printable width at render time.
var baseWidths = [6]float64{12, 78, 20, 22, 36, 42}

var columnTitles = [6]string{
	"Lp.",
	"NAZWA PRODUKTU",
	"ILOŚĆ",
	"JEDN. MIARY",
	"NR PARTII LOT",
	"DATA MINIMALNEJ TRWAŁOŚCI LUB TERMIN PRZYDATNOŚCI DO SPOŻYCIA",
}

type Renderer struct {
	cfg     config.ReportConfig
	fontDir string
}

func New(cfg config.ReportConfig, fontDir string) *Renderer {
	return &Renderer{cfg: cfg, fontDir: fontDir}
}

type docWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	family string
	left   float64
	bottom float64
	pageH  float64
	widths [6]float64
	lineH  float64
}

// Render writes the document PDF to outputPath, creating the directory when
// needed.
func (r *Renderer) Render(outputPath string, header internal.DocumentHeader, rows []internal.ReportRow) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	m := r.cfg.MarginsMM
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(m.Left, m.Top, m.Right)
	pdf.SetAutoPageBreak(true, m.Bottom)
	pdf.AliasNbPages("")

	family, tr := r.registerFonts(pdf)

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - m.Left - m.Right
	var total float64
	for _, w := range baseWidths {
		total += w
	}
	d := &docWriter{
		pdf:    pdf,
		tr:     tr,
		family: family,
		left:   m.Left,
		bottom: m.Bottom,
		pageH:  pageH,
		lineH:  4.5,
	}
	for i, w := range baseWidths {
		d.widths[i] = w / total * usable
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-m.Bottom + 4)
		pdf.SetFont(family, "", 8)
		pdf.CellFormat(0, 5, tr("Strona ")+strconv.Itoa(pdf.PageNo())+"/{nb}", "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	if r.cfg.LogoPath != "" {
		if _, err := os.Stat(r.cfg.LogoPath); err == nil {
			pdf.ImageOptions(r.cfg.LogoPath, pageW-m.Right-30, m.Top, 30, 0, false,
				fpdf.ImageOptions{ReadDpi: true}, 0, "")
		}
	}

	pdf.SetFont(family, "", 10)
	for _, line := range r.cfg.CompanyHeader {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont(family, "B", 16)
	pdf.CellFormat(0, 8, tr(r.cfg.Title), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 10)
	if header.DocumentNo != "" {
		pdf.CellFormat(0, 5, tr("do dokumentu "+header.DocumentNo), "", 1, "L", false, 0, "")
	}
	if header.DocumentDate != "" {
		pdf.CellFormat(0, 5, tr("z dnia "+header.DocumentDate), "", 1, "L", false, 0, "")
	}
	if header.CustomerName != "" {
		pdf.CellFormat(0, 5, tr("dla "+header.CustomerName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	d.drawTableHeader()
	for _, row := range rows {
		d.drawRow(row)
	}
	pdf.Ln(6)

	pdf.SetFont(family, "", 9)
	for _, text := range r.cfg.FooterTexts {
		pdf.MultiCell(usable, 4.5, tr(text), "", "L", false)
		pdf.Ln(2)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write pdf %s: %w", outputPath, err)
	}
	return nil
}

// registerFonts prefers bundled Unicode TTFs so Polish diacritics render;
// without them the core Helvetica plus a cp1250 translator is a readable
// fallback.
func (r *Renderer) registerFonts(pdf *fpdf.Fpdf) (string, func(string) string) {
	regular := filepath.Join(r.fontDir, "DejaVuSans.ttf")
	bold := filepath.Join(r.fontDir, "DejaVuSans-Bold.ttf")
	oblique := filepath.Join(r.fontDir, "DejaVuSans-Oblique.ttf")

	if fileExists(regular) && fileExists(bold) {
		pdf.AddUTF8Font("docfont", "", regular)
		pdf.AddUTF8Font("docfont", "B", bold)
		if fileExists(oblique) {
			pdf.AddUTF8Font("docfont", "I", oblique)
		} else {
			pdf.AddUTF8Font("docfont", "I", regular)
		}
		if !pdf.Err() {
			return "docfont", func(s string) string { return s }
		}
	}

	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("cp1250")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (d *docWriter) drawTableHeader() {
	pdf := d.pdf
	pdf.SetFont(d.family, "B", 8)
	pdf.SetFillColor(245, 245, 245)

	heights := make([]float64, len(columnTitles))
	maxH := 0.0
	for i, title := range columnTitles {
		lines := pdf.SplitText(d.tr(title), d.widths[i]-2)
		heights[i] = float64(len(lines))*d.lineH + 2
		if heights[i] > maxH {
			maxH = heights[i]
		}
	}

	x := d.left
	y := pdf.GetY()
	for i, title := range columnTitles {
		w := d.widths[i]
		pdf.Rect(x, y, w, maxH, "FD")
		lines := pdf.SplitText(d.tr(title), w-2)
		textH := float64(len(lines)) * d.lineH
		pdf.SetXY(x+1, y+(maxH-textH)/2)
		pdf.MultiCell(w-2, d.lineH, d.tr(title), "", "C", false)
		x += w
	}
	pdf.SetXY(d.left, y+maxH)
	pdf.SetFont(d.family, "", 9)
}

func (d *docWriter) drawRow(row internal.ReportRow) {
	pdf := d.pdf

	expiry, italic := report.ExpiryText(row)
	name := d.tr(row.Name)
	nameLines := pdf.SplitText(name, d.widths[1]-2)
	if len(nameLines) == 0 {
		nameLines = []string{""}
	}
	h := float64(len(nameLines))*d.lineH + 2

	if pdf.GetY()+h > d.pageH-d.bottom {
		pdf.AddPage()
		d.drawTableHeader()
	}

	x := d.left
	y := pdf.GetY()

	cells := []struct {
		text   string
		align  string
		italic bool
		multi  bool
	}{
		{strconv.Itoa(row.LP), "C", false, false},
		{name, "L", false, true},
		{d.tr(report.FormatQuantity(row.Qty)), "R", false, false},
		{d.tr(row.UOM), "C", false, false},
		{d.tr(row.LotNo), "C", false, false},
		{d.tr(expiry), "C", italic, false},
	}

	for i, c := range cells {
		w := d.widths[i]
		pdf.Rect(x, y, w, h, "D")
		if c.italic {
			pdf.SetFont(d.family, "I", 9)
		}
		if c.multi {
			pdf.SetXY(x+1, y+1)
			pdf.MultiCell(w-2, d.lineH, c.text, "", c.align, false)
		} else {
			pdf.SetXY(x+1, y+(h-d.lineH)/2)
			pdf.CellFormat(w-2, d.lineH, c.text, "", 0, c.align, false, 0, "")
		}
		if c.italic {
			pdf.SetFont(d.family, "", 9)
		}
		x += w
	}
	pdf.SetXY(d.left, y+h)
}

// OutputFileName derives the artifact name for a document number, with path
// separators made filesystem-safe.
func OutputFileName(docNo string) string {
	safe := ""
	for _, r := range docNo {
		if r == '/' || r == '\\' {
			safe += "_"
		} else {
			safe += string(r)
		}
	}
	if safe == "" {
		safe = "dokument"
	}
	return "raport_" + safe + ".pdf"
}
