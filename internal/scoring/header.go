package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one raw audit event keyed by trimmed column label. Produced by an
// external source; read-only to the engine.
type Row map[string]string

// FinalScoreColumn is the single column carrying the authoritative overall
// score for the row.
const FinalScoreColumn = "Final Score"

// Header indexes the raw source's column labels so per-item and per-section
// lookups don't rescan the label list for every row.
type Header struct {
	columns       []string
	itemColumns   map[int]string
	sectionScores map[string]string
	finalScore    string
}

// NewHeader scans the column labels once. Item result columns embed the item
// code as "(<code>)" but exclude auxiliary columns whose label ends with
// "Text" or "mi)". Section score columns start with "(Section) <Letter>.".
func NewHeader(columns []string) Header {
	h := Header{
		columns:       columns,
		itemColumns:   make(map[int]string),
		sectionScores: make(map[string]string),
	}
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		if trimmed == FinalScoreColumn {
			h.finalScore = col
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "(Section) "); ok {
			if len(rest) >= 2 && rest[1] == '.' {
				h.sectionScores[rest[:1]] = col
			}
			continue
		}
		if strings.HasSuffix(trimmed, "Text") || strings.HasSuffix(trimmed, "mi)") {
			continue
		}
		if code, ok := extractItemCode(trimmed); ok {
			if _, dup := h.itemColumns[code]; !dup {
				h.itemColumns[code] = col
			}
		}
	}
	return h
}

// ItemColumn returns the quantitative result column for an item code.
func (h Header) ItemColumn(code int) (string, bool) {
	col, ok := h.itemColumns[code]
	return col, ok
}

// SectionScoreColumn returns the authoritative score column for a section letter.
func (h Header) SectionScoreColumn(letter string) (string, bool) {
	col, ok := h.sectionScores[letter]
	return col, ok
}

// FinalScore returns the authoritative overall score column, if present.
func (h Header) FinalScore() (string, bool) {
	return h.finalScore, h.finalScore != ""
}

// Columns returns the raw column labels in source order.
func (h Header) Columns() []string {
	return h.columns
}

// extractItemCode finds the first "(<digits>)" token in a column label.
func extractItemCode(label string) (int, bool) {
	for i := 0; i < len(label); i++ {
		if label[i] != '(' {
			continue
		}
		j := i + 1
		for j < len(label) && label[j] >= '0' && label[j] <= '9' {
			j++
		}
		if j > i+1 && j < len(label) && label[j] == ')' {
			code, err := strconv.Atoi(label[i+1 : j])
			if err == nil {
				return code, true
			}
		}
	}
	return 0, false
}

// ItemColumnFor formats the "(<code>)" marker used in column labels.
func ItemColumnFor(code int) string {
	return fmt.Sprintf("(%d)", code)
}

// ParseDecimal parses a source decimal, normalizing a comma separator to a
// dot first. Returns false for blank or non-numeric content.
func ParseDecimal(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
