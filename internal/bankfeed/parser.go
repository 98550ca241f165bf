// Package bankfeed handles incoming deposit data: parsing uploaded bank
// statements and refreshing linked bank connections through a feed
// provider.
package bankfeed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

// StatementFormat selects the column mapping for an uploaded statement.
type StatementFormat string

const (
	FormatICICI   StatementFormat = "icici"
	FormatIDFC    StatementFormat = "idfc"
	FormatBofA    StatementFormat = "bofa"
	FormatGeneric StatementFormat = "generic"
)

// columnMapping names the header columns a format uses for each field.
// Matching is case-insensitive with surrounding whitespace ignored.
type columnMapping struct {
	date      []string
	credit    []string
	remarks   []string
	reference []string
}

var formatMappings = map[StatementFormat]columnMapping{
	FormatICICI: {
		date:      []string{"Value Date", "Transaction Date"},
		credit:    []string{"Deposit Amt.", "Credit"},
		remarks:   []string{"Transaction Remarks", "Narration"},
		reference: []string{"Cheque no.", "Tran. Id"},
	},
	FormatIDFC: {
		date:      []string{"Transaction Date", "Date"},
		credit:    []string{"Credit", "Deposit"},
		remarks:   []string{"Particulars", "Narration"},
		reference: []string{"Reference No", "Cheque No"},
	},
	FormatBofA: {
		date:      []string{"Date", "Posting Date"},
		credit:    []string{"Amount", "Credit"},
		remarks:   []string{"Description"},
		reference: []string{"Reference Number"},
	},
	FormatGeneric: {
		date:      []string{"Date", "Transaction Date", "Value Date"},
		credit:    []string{"Credit", "Amount", "Deposit"},
		remarks:   []string{"Remarks", "Description", "Narration", "Particulars"},
		reference: []string{"Reference", "Reference No", "Ref No"},
	},
}

// dateLayouts covers the date renderings the supported banks emit.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"01/02/2006",
	"02-Jan-2006",
	"02 Jan 2006",
	"2006/01/02",
}

// ParsedRow is one credit row extracted from a statement.
type ParsedRow struct {
	Date         time.Time
	Amount       domain.Amount
	CustomerName string
	Remarks      string
	Reference    string
}

// ParseResult carries the rows plus per-row skip diagnostics.
type ParseResult struct {
	Rows     []ParsedRow
	Skipped  int
	Warnings []string
}

// ParseFormat normalizes a client-supplied format label, defaulting to
// generic.
func ParseFormat(s string) StatementFormat {
	switch StatementFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatICICI:
		return FormatICICI
	case FormatIDFC:
		return FormatIDFC
	case FormatBofA:
		return FormatBofA
	default:
		return FormatGeneric
	}
}

// ParseStatement reads a CSV bank statement and extracts credit rows.
// Rows without a parseable date or a positive credit amount are skipped
// and reported in the result warnings.
func ParseStatement(r io.Reader, format StatementFormat) (*ParseResult, error) {
	mapping, ok := formatMappings[format]
	if !ok {
		mapping = formatMappings[FormatGeneric]
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement header: %w", err)
	}

	dateIdx := findColumn(header, mapping.date)
	creditIdx := findColumn(header, mapping.credit)
	remarksIdx := findColumn(header, mapping.remarks)
	refIdx := findColumn(header, mapping.reference)

	if dateIdx < 0 || creditIdx < 0 {
		return nil, fmt.Errorf("statement is missing required columns for format %q", format)
	}

	result := &ParseResult{}
	lineNo := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}

		date, err := parseDate(field(record, dateIdx))
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", lineNo, err))
			continue
		}

		amount, err := parseDecimal(field(record, creditIdx))
		if err != nil || !amount.IsPositive() {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: no credit amount", lineNo))
			continue
		}

		remarks := field(record, remarksIdx)
		result.Rows = append(result.Rows, ParsedRow{
			Date:         date,
			Amount:       domain.AmountFromDecimal(amount),
			CustomerName: CustomerFromRemarks(remarks),
			Remarks:      remarks,
			Reference:    field(record, refIdx),
		})
	}

	return result, nil
}

// CustomerFromRemarks derives a candidate customer name from the first
// token of the transaction remarks.
func CustomerFromRemarks(remarks string) string {
	fields := strings.Fields(remarks)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func findColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseDecimal strips thousands separators and currency noise before
// parsing.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}
