package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"storepulse/internal/scoring"
	dErrors "storepulse/pkg/domain-errors"
)

// Site code column labels seen across export generations.
var siteCodeLabels = []string{"Site Code", "Site_Code"}

// RawWave is one parsed wave export: the indexed header plus every data row
// keyed by trimmed column label.
type RawWave struct {
	Header   scoring.Header
	SiteCol  string
	Rows     []scoring.Row
	RowCount int
}

// ReadWave parses a raw wave export: semicolon-delimited, optional UTF-8
// BOM, one header row. Column labels are trimmed before keying so stray
// whitespace in the export never breaks item matching.
func ReadWave(r io.Reader) (*RawWave, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfigurationDefect, "read wave export")
	}
	if len(records) < 2 {
		return nil, dErrors.New(dErrors.CodeConfigurationDefect, "wave export has no data rows")
	}

	columns := make([]string, len(records[0]))
	for i, label := range records[0] {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(label, "\uFEFF"))
	}

	siteCol := ""
	for _, label := range siteCodeLabels {
		for _, col := range columns {
			if col == label {
				siteCol = label
				break
			}
		}
		if siteCol != "" {
			break
		}
	}
	if siteCol == "" {
		return nil, dErrors.New(dErrors.CodeConfigurationDefect, "wave export missing site code column")
	}

	rows := make([]scoring.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(scoring.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return &RawWave{
		Header:   scoring.NewHeader(columns),
		SiteCol:  siteCol,
		Rows:     rows,
		RowCount: len(rows),
	}, nil
}
