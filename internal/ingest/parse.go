package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Result is the outcome of normalizing one uploaded document.
type Result struct {
	Schema     Schema
	Candidates []*ledger.Transaction
	Rejections []Rejection
}

// ParseDocument reads raw delimited text and normalizes every row into a
// canonical candidate. Malformed rows are collected as rejections instead of
// failing the document; an unsupported header set is a validation error.
func ParseDocument(fileName, text string) (*Result, error) {
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, ledger.NewValidationError("empty document")
	}

	headerLine, _, _ := strings.Cut(text, "\n")
	delimiter := DetectDelimiter(fileName, headerLine)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, ledger.NewValidationError("unreadable header row: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	schema := DetectSchema(header)
	if schema == SchemaUnknown {
		return nil, ledger.NewValidationError("unsupported header set: expected cleaned CSV or native export columns")
	}

	result := &Result{Schema: schema}
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken line is a row-level defect, not a batch
			// failure.
			line++
			continue
		}
		line++

		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				record[name] = fields[i]
			}
		}

		var candidate *ledger.Transaction
		var reason RejectionReason
		if schema == SchemaCleaned {
			candidate, reason = normalizeCleaned(record)
		} else {
			candidate, reason = normalizeNative(record)
		}
		if candidate == nil {
			result.Rejections = append(result.Rejections, Rejection{
				Line:   line,
				Reason: reason,
				Record: record,
			})
			continue
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	if len(result.Candidates) == 0 {
		return nil, ledger.NewValidationError("no importable rows in document")
	}
	return result, nil
}
