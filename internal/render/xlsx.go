package render

import (
	"fmt"

	"github.com/marco/workyard/internal/report"
	"github.com/xuri/excelize/v2"
)

// XLSXRenderer renders a document model into a single-sheet workbook.
// Sections are emitted as sequential row blocks: a title row, summary rows
// when present, then a header row followed by the data rows of the table.
type XLSXRenderer struct{}

// NewXLSXRenderer creates a new spreadsheet renderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

const sheetName = "Report"

// Render produces the XLSX bytes for a document.
func (r *XLSXRenderer) Render(doc *report.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", report.ErrRenderFailure)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0066CC"}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}

	row := 1
	if err := r.writeRow(f, row, []string{doc.Title}, titleStyle); err != nil {
		return nil, err
	}
	row += 2

	for _, section := range doc.Sections {
		if err := r.writeRow(f, row, []string{section.Title}, sectionStyle); err != nil {
			return nil, err
		}
		row++

		for _, p := range section.Summary {
			if err := r.writeRow(f, row, []string{p.Label, p.Value}, 0); err != nil {
				return nil, err
			}
			row++
		}

		if section.Table != nil {
			if err := r.writeRow(f, row, section.Table.Headers, headerStyle); err != nil {
				return nil, err
			}
			row++
			for _, dataRow := range section.Table.Rows {
				if err := r.writeRow(f, row, dataRow, 0); err != nil {
					return nil, err
				}
				row++
			}
		}

		row++ // blank spacer between sections
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}

// writeRow writes cells starting at column A of the given row, applying an
// optional style across the written range.
func (r *XLSXRenderer) writeRow(f *excelize.File, row int, cells []string, styleID int) error {
	if len(cells) == 0 {
		return nil
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheetName, start, &values); err != nil {
		return fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
	}
	if styleID != 0 {
		end, err := excelize.CoordinatesToCellName(len(cells), row)
		if err != nil {
			return fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
		}
		if err := f.SetCellStyle(sheetName, start, end, styleID); err != nil {
			return fmt.Errorf("%w: %v", report.ErrRenderFailure, err)
		}
	}
	return nil
}
