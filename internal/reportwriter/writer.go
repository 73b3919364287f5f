// =============================================================================
// Cookie Audit - Report Writer
// =============================================================================
//
// This module renders a reconciliation report for its two consumers: the
// council's bulk-review tooling, which ingests XML, and the troop web
// application, which reads JSON. Both renderings carry the same content;
// the structures below only exist to pin the XML element layout.
//
// XML STRUCTURE:
//   <reconciliation run_id="..." generated_at="..." source="...">
//     <summary totalAuditRows=".." totalOrders=".." matchCount=".."
//              unmatchedCount=".."/>
//     <match kind="perfect" row="12">
//       <transaction id="34" orderNumber="da103"/>
//       <seller id="3">Jane Doe</seller>
//       <cookies matched="4" compared="4" percentage="100"/>
//       <reason>...</reason>
//     </match>
//   </reconciliation>
//
// =============================================================================

package reportwriter

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/troop1303/cookie-audit/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options contains rendering options.
type Options struct {
	// Indent is the indentation unit.
	Indent string

	// IncludeXMLDeclaration controls the leading <?xml ...?> line.
	IncludeXMLDeclaration bool
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// XML RENDERING
// =============================================================================

type xmlDocument struct {
	XMLName     xml.Name   `xml:"reconciliation"`
	RunID       string     `xml:"run_id,attr"`
	GeneratedAt string     `xml:"generated_at,attr"`
	Source      string     `xml:"source,attr"`
	Summary     xmlSummary `xml:"summary"`
	Matches     []xmlMatch `xml:"match"`
}

type xmlSummary struct {
	TotalAuditRows int `xml:"totalAuditRows,attr"`
	TotalOrders    int `xml:"totalOrders,attr"`
	MatchCount     int `xml:"matchCount,attr"`
	UnmatchedCount int `xml:"unmatchedCount,attr"`
}

type xmlMatch struct {
	Kind        string          `xml:"kind,attr"`
	Row         int             `xml:"row,attr"`
	Date        string          `xml:"date,attr,omitempty"`
	Type        string          `xml:"type,attr,omitempty"`
	Transaction *xmlTransaction `xml:"transaction,omitempty"`
	Seller      *xmlSeller      `xml:"seller,omitempty"`
	Cookies     *xmlCookies     `xml:"cookies,omitempty"`
	Reasons     []string        `xml:"reason"`
}

type xmlTransaction struct {
	ID          int64  `xml:"id,attr"`
	OrderNumber string `xml:"orderNumber,attr,omitempty"`
}

type xmlSeller struct {
	ID   int64  `xml:"id,attr"`
	Name string `xml:",chardata"`
}

type xmlCookies struct {
	Matched    int     `xml:"matched,attr"`
	Compared   int     `xml:"compared,attr"`
	Percentage float64 `xml:"percentage,attr"`
}

// GenerateXML renders the report as XML with default options.
func GenerateXML(report *types.Report) ([]byte, error) {
	return GenerateXMLWithOptions(report, DefaultOptions())
}

// GenerateXMLWithOptions renders the report as XML.
func GenerateXMLWithOptions(report *types.Report, options Options) ([]byte, error) {
	doc := xmlDocument{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Source:      report.SourceFile,
		Summary: xmlSummary{
			TotalAuditRows: report.TotalAuditRows,
			TotalOrders:    report.TotalOrders,
			MatchCount:     report.MatchCount,
			UnmatchedCount: report.UnmatchedCount(),
		},
	}

	for _, m := range report.Matches {
		entry := xmlMatch{
			Kind:    string(m.Kind),
			Row:     m.Record.RowNumber,
			Date:    m.Record.Date,
			Type:    m.Record.Type,
			Reasons: m.Reasons,
		}
		if m.Transaction != nil {
			entry.Transaction = &xmlTransaction{
				ID:          m.Transaction.ID,
				OrderNumber: m.Transaction.OrderNumber,
			}
		}
		if m.Seller != nil {
			entry.Seller = &xmlSeller{ID: m.Seller.ID, Name: m.Seller.FullName()}
		}
		if m.Kind == types.MatchPartial {
			entry.Cookies = &xmlCookies{
				Matched:    m.NumberMatched,
				Compared:   m.TotalCookieTypes,
				Percentage: m.MatchPercentage,
			}
		}
		doc.Matches = append(doc.Matches, entry)
	}

	body, err := xml.MarshalIndent(doc, "", options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var buffer bytes.Buffer
	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}
	buffer.Write(body)
	buffer.WriteByte('\n')
	return buffer.Bytes(), nil
}

// =============================================================================
// JSON RENDERING
// =============================================================================

// GenerateJSON renders the report as indented JSON for the web layer.
func GenerateJSON(report *types.Report) ([]byte, error) {
	return GenerateJSONWithOptions(report, DefaultOptions())
}

// GenerateJSONWithOptions renders the report as JSON.
func GenerateJSONWithOptions(report *types.Report, options Options) ([]byte, error) {
	body, err := json.MarshalIndent(report, "", options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(body, '\n'), nil
}

// Generate renders the report in the named format: "xml" or "json".
func Generate(report *types.Report, format string, options Options) ([]byte, error) {
	switch format {
	case "xml":
		return GenerateXMLWithOptions(report, options)
	case "json":
		return GenerateJSONWithOptions(report, options)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}
