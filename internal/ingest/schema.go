package ingest

import "strings"

// Schema identifies which of the two supported tabular layouts a document
// uses.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaCleaned is the app-friendly export: date, amount, description,
	// merchant, method, direction, raw_category, memo.
	SchemaCleaned
	// SchemaNative is the bank app's own export with localized headers.
	SchemaNative
)

func (s Schema) String() string {
	switch s {
	case SchemaCleaned:
		return "cleaned"
	case SchemaNative:
		return "native"
	}
	return "unknown"
}

// Native export column names.
const (
	nativeColDate     = "날짜"
	nativeColTime     = "시간"
	nativeColType     = "타입"
	nativeColMajor    = "대분류"
	nativeColMinor    = "소분류"
	nativeColContent  = "내용"
	nativeColAmount   = "금액"
	nativeColCurrency = "화폐"
	nativeColMethod   = "결제수단"
	nativeColMemo     = "메모"
)

// DetectSchema picks the schema variant from the header row. A document
// qualifies when it carries the variant's three required columns.
func DetectSchema(header []string) Schema {
	fields := make(map[string]bool, len(header))
	for _, name := range header {
		fields[strings.TrimSpace(name)] = true
	}

	if fields["date"] && fields["amount"] && fields["description"] {
		return SchemaCleaned
	}
	if fields[nativeColDate] && fields[nativeColAmount] && fields[nativeColContent] {
		return SchemaNative
	}
	return SchemaUnknown
}

// DetectDelimiter chooses between tab and comma, preferring the file
// extension and falling back to whichever character dominates the header
// line.
func DetectDelimiter(fileName, headerLine string) rune {
	lower := strings.ToLower(fileName)
	if strings.HasSuffix(lower, ".tsv") {
		return '\t'
	}
	if strings.HasSuffix(lower, ".csv") {
		return ','
	}
	if strings.Count(headerLine, "\t") > strings.Count(headerLine, ",") {
		return '\t'
	}
	return ','
}
