package services

import (
	"fmt"
	"io"
	"time"

	"energy-center-checklist/models"
	"energy-center-checklist/utils"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of the workbooks written here.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteStatusHistoryXLSX writes the status history rows as a single-sheet workbook.
func WriteStatusHistoryXLSX(w io.Writer, entries []models.StatusHistoryEntry, loc *time.Location) error {
	headers := []string{"Data", "Equipamento", "Tipo", "Status anterior", "Novo status", "Observação", "Técnico"}

	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		name, tipo := "", ""
		if e.Equipment != nil {
			name, tipo = e.Equipment.Name, e.Equipment.Type
		}
		rows = append(rows, []interface{}{
			utils.FormatDateTime(e.ChangedAt, loc),
			name,
			tipo,
			e.PreviousStatus.String(),
			e.NewStatus.String(),
			e.Observation,
			e.Technician,
		})
	}

	return writeWorkbook(w, "Histórico", headers, rows, []float64{18, 22, 14, 16, 14, 40, 20})
}

// WriteChecklistXLSX writes one submission, a row per recorded item.
func WriteChecklistXLSX(w io.Writer, detail *ChecklistDetail, loc *time.Location) error {
	headers := []string{"Sistema", "Descrição", "Unidade", "Mínimo", "Máximo", "Valor", "Status", "Comentário"}
	sub := detail.Submission

	var rows [][]interface{}
	for _, g := range detail.Groups {
		for _, r := range g.Records {
			comment := ""
			if r.Comment != nil {
				comment = *r.Comment
			}
			rows = append(rows, []interface{}{
				g.Label,
				r.Description,
				r.Unit,
				floatCell(r.MinValue),
				floatCell(r.MaxValue),
				floatCell(r.RecordedValue),
				utils.FormatPassFlag(r.PassFlag),
				comment,
			})
		}
	}

	title := fmt.Sprintf("Checklist %d - %s - %s - %s", sub.ID,
		utils.FormatDateTime(sub.CreatedAt, loc), sub.Technician, sub.Shift)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Checklist"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := fillSheet(f, sheet, 3, headers, rows, []float64{26, 44, 10, 10, 10, 10, 10, 36}); err != nil {
		return err
	}
	return f.Write(w)
}

func writeWorkbook(w io.Writer, sheet string, headers []string, rows [][]interface{}, widths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := fillSheet(f, sheet, 1, headers, rows, widths); err != nil {
		return err
	}
	return f.Write(w)
}

// fillSheet writes a bold header at headerRow followed by rows, then freezes
// the header and sets column widths.
func fillSheet(f *excelize.File, sheet string, headerRow int, headers []string, rows [][]interface{}, widths []float64) error {
	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}

	start, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &headerCells); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return err
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})
}

// floatCell leaves the cell empty when the value was not recorded.
func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
