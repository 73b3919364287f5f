// =============================================================================
// Cookie Audit - CSV Export Parser
// =============================================================================
//
// This module parses CSV exports downloaded from the third-party cookie
// sale platform. It handles the format variations volunteers produce when
// re-saving exports from spreadsheet tools:
//   - Different delimiters (comma, pipe, tab, semicolon)
//   - Multi-line headers
//   - Metadata rows before the data block
//   - Quoted fields that do not follow strict CSV rules
//
// The parser produces the ordered header list plus positional rows the
// normalizer consumes. It makes no judgment about content; header and
// row-count validation belongs to the validation package.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/troop1303/cookie-audit/internal/config"
	"github.com/troop1303/cookie-audit/internal/types"
)

// Parse reads a CSV export file and returns its headers and data rows.
func Parse(filePath string, settings config.CSVSettings) (*types.ExportData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	configureReader(reader, settings)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(allRows) == 0 {
		return nil, fmt.Errorf("export file is empty")
	}

	headers, err := extractHeaders(allRows, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to extract headers: %w", err)
	}

	export := &types.ExportData{
		Headers:    headers,
		SourceFile: filePath,
	}

	// DataStartRow is 1-based.
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

// configureReader applies the season's CSV settings to the reader.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	switch settings.Delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Vendor exports re-saved by spreadsheet editors have ragged rows and
	// loose quoting; tolerate both and let normalization sort out content.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// extractHeaders extracts and, for multi-line headers, merges the header
// rows into a single header list.
func extractHeaders(allRows [][]string, settings config.CSVSettings) ([]string, error) {
	if settings.HeaderRows <= 0 {
		return nil, fmt.Errorf("header_rows must be at least 1")
	}
	if len(allRows) < settings.HeaderRows {
		return nil, fmt.Errorf("file has fewer rows than header_rows setting")
	}

	if settings.HeaderRows == 1 {
		return cleanHeaders(allRows[0]), nil
	}

	maxCols := 0
	for i := 0; i < settings.HeaderRows; i++ {
		if len(allRows[i]) > maxCols {
			maxCols = len(allRows[i])
		}
	}

	headers := make([]string, maxCols)
	for col := 0; col < maxCols; col++ {
		var parts []string
		for row := 0; row < settings.HeaderRows; row++ {
			if col < len(allRows[row]) {
				if value := strings.TrimSpace(allRows[row][col]); value != "" {
					parts = append(parts, value)
				}
			}
		}
		headers[col] = strings.Join(parts, " ")
	}

	return cleanHeaders(headers), nil
}

// cleanHeaders trims headers and names blank ones by position so row maps
// never collide on the empty key.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("COLUMN_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty reports whether a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
