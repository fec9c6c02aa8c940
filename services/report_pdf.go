package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"github.com/go-pdf/fpdf"
)

// PDFLayout selects the look of the checklist report.
type PDFLayout string

const (
	LayoutClassic PDFLayout = "classic"
	LayoutModern  PDFLayout = "modern"
)

// ParsePDFLayout defaults to the classic layout.
func ParsePDFLayout(s string) PDFLayout {
	if PDFLayout(strings.ToLower(strings.TrimSpace(s))) == LayoutModern {
		return LayoutModern
	}
	return LayoutClassic
}

type pdfColumn struct {
	title string
	width float64
	align string
}

var pdfColumns = []pdfColumn{
	{"Descrição", 64, "L"},
	{"Unidade", 16, "C"},
	{"Faixa", 30, "C"},
	{"Valor", 20, "R"},
	{"Status", 16, "C"},
	{"Comentário", 44, "L"},
}

type rgb struct{ r, g, b int }

type pdfTheme struct {
	font       string
	header     rgb
	headerText rgb
	tableHead  rgb
	zebra      rgb
	fail       rgb
	banner     bool
}

var pdfThemes = map[PDFLayout]pdfTheme{
	LayoutClassic: {
		font:       "Times",
		header:     rgb{255, 255, 255},
		headerText: rgb{0, 0, 0},
		tableHead:  rgb{220, 220, 220},
		zebra:      rgb{255, 255, 255},
		fail:       rgb{200, 0, 0},
	},
	LayoutModern: {
		font:       "Helvetica",
		header:     rgb{17, 94, 89},
		headerText: rgb{255, 255, 255},
		tableHead:  rgb{204, 251, 241},
		zebra:      rgb{240, 253, 250},
		fail:       rgb{185, 28, 28},
		banner:     true,
	},
}

// RenderChecklistPDF writes the report of one submission to w.
func RenderChecklistPDF(w io.Writer, detail *ChecklistDetail, layout PDFLayout, loc *time.Location) error {
	theme, ok := pdfThemes[layout]
	if !ok {
		theme = pdfThemes[LayoutClassic]
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	sub := detail.Submission

	pdf.SetTitle(fmt.Sprintf("Checklist %d", sub.ID), true)
	pdf.SetCreator("energy-center-checklist", true)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(theme.font, "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Checklist #%d - gerado em %s", sub.ID,
			utils.FormatDateTime(time.Now(), loc))), "", 0, "L", false, 0, "")
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	writeReportHeader(pdf, tr, theme, detail, loc)

	for _, group := range detail.Groups {
		writeSystemTable(pdf, tr, theme, group)
	}

	if len(detail.Operations) > 0 {
		writeOperations(pdf, tr, theme, detail.Operations)
	}

	return pdf.Output(w)
}

func writeReportHeader(pdf *fpdf.Fpdf, tr func(string) string, theme pdfTheme, detail *ChecklistDetail, loc *time.Location) {
	sub := detail.Submission

	pdf.SetFillColor(theme.header.r, theme.header.g, theme.header.b)
	pdf.SetTextColor(theme.headerText.r, theme.headerText.g, theme.headerText.b)
	pdf.SetFont(theme.font, "B", 16)
	pdf.CellFormat(0, 12, tr("Checklist da Central de Energia"), "", 1, "C", theme.banner, 0, "")
	pdf.SetFont(theme.font, "", 10)
	pdf.CellFormat(0, 6, tr(utils.FormatLongDate(sub.CreatedAt, loc)+" - "+utils.FormatDateTime(sub.CreatedAt, loc)),
		"", 1, "C", theme.banner, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	rows := [][2]string{
		{"Técnico", joinNonEmpty(sub.Technician, sub.TechnicianSpecialty)},
		{"Team leader", joinNonEmpty(sub.TeamLeader, sub.TeamLeaderSpecialty)},
		{"Turno", joinNonEmpty(sub.Shift, sub.ShiftType)},
	}
	for _, row := range rows {
		pdf.SetFont(theme.font, "B", 10)
		pdf.CellFormat(30, 6, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(theme.font, "", 10)
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}

	if theme.banner {
		var ok, nok, unset int
		for _, g := range detail.Groups {
			for _, r := range g.Records {
				switch {
				case r.PassFlag == nil:
					unset++
				case *r.PassFlag:
					ok++
				default:
					nok++
				}
			}
		}
		pdf.Ln(2)
		pdf.SetFont(theme.font, "B", 10)
		boxes := []struct {
			label string
			value int
			color rgb
		}{
			{"OK", ok, rgb{22, 163, 74}},
			{"NOK", nok, theme.fail},
			{"Sem marcação", unset, rgb{107, 114, 128}},
		}
		for _, box := range boxes {
			pdf.SetFillColor(box.color.r, box.color.g, box.color.b)
			pdf.SetTextColor(255, 255, 255)
			pdf.CellFormat(60, 9, tr(fmt.Sprintf("%s: %d", box.label, box.value)), "", 0, "C", true, 0, "")
			pdf.CellFormat(3, 9, "", "", 0, "", false, 0, "")
		}
		pdf.Ln(11)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(3)
}

func writeSystemTable(pdf *fpdf.Fpdf, tr func(string) string, theme pdfTheme, group SystemGroup) {
	pdf.SetFont(theme.font, "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(group.Label), "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont(theme.font, "B", 9)
	pdf.SetFillColor(theme.tableHead.r, theme.tableHead.g, theme.tableHead.b)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, tr(col.title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(theme.font, "", 9)
	for i, r := range group.Records {
		fill := theme.banner && i%2 == 1
		pdf.SetFillColor(theme.zebra.r, theme.zebra.g, theme.zebra.b)

		comment := ""
		if r.Comment != nil {
			comment = *r.Comment
		}
		cells := []string{
			r.Description,
			r.Unit,
			utils.FormatRange(r.MinValue, r.MaxValue, ""),
			utils.FormatOptionalFloat(r.RecordedValue),
			utils.FormatPassFlag(r.PassFlag),
			comment,
		}
		for j, col := range pdfColumns {
			text := fitText(pdf, tr(cells[j]), col.width-2)
			failed := (j == 3 && r.OutOfRange()) || (j == 4 && r.PassFlag != nil && !*r.PassFlag)
			if failed {
				pdf.SetTextColor(theme.fail.r, theme.fail.g, theme.fail.b)
			}
			pdf.CellFormat(col.width, 6, text, "1", 0, col.align, fill, 0, "")
			if failed {
				pdf.SetTextColor(0, 0, 0)
			}
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeOperations(pdf *fpdf.Fpdf, tr func(string) string, theme pdfTheme, ops []models.OperatingSnapshot) {
	pdf.SetFont(theme.font, "B", 12)
	pdf.CellFormat(0, 8, tr("Equipamentos em operação"), "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.EquipmentName)
	}
	pdf.SetFont(theme.font, "", 10)
	pdf.MultiCell(0, 6, tr(strings.Join(names, ", ")), "", "L", false)
}

// fitText cuts s (already translated to the PDF code page) until it fits w.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " - ")
}
