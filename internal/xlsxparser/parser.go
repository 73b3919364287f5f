// =============================================================================
// Cookie Audit - XLSX Export Parser
// =============================================================================
//
// The vendor platform offers its transaction export as a spreadsheet as
// well as CSV, and volunteers frequently upload whichever they happened to
// download. This module reads an XLSX export into the same shape the CSV
// parser produces, so everything downstream is format-agnostic.
//
// Only the first sheet is read; the vendor writes a single-sheet workbook
// and anything beyond the first sheet is volunteer scratch space.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/troop1303/cookie-audit/internal/config"
	"github.com/troop1303/cookie-audit/internal/types"
)

// Parse reads an XLSX export file and returns its headers and data rows.
// HeaderRows and DataStartRow from the CSV settings apply to the sheet the
// same way they apply to a CSV file.
func Parse(filePath string, settings config.CSVSettings) (*types.ExportData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	allRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("export sheet is empty")
	}
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("sheet has fewer rows than header_rows setting")
	}

	headers := make([]string, len(allRows[0]))
	for i, header := range allRows[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("COLUMN_%d", i+1)
		}
		headers[i] = header
	}

	export := &types.ExportData{
		Headers:    headers,
		SourceFile: filePath,
	}

	startIndex := settings.DataStartRow - 1
	if startIndex < settings.HeaderRows {
		startIndex = settings.HeaderRows
	}

	for rowIndex := startIndex; rowIndex < len(allRows); rowIndex++ {
		row := allRows[rowIndex]
		if isRowEmpty(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		export.Rows = append(export.Rows, types.RawRow{
			Number: rowIndex + 1,
			Cells:  cells,
		})
	}

	return export, nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
