package scoring

import (
	"storepulse/internal/taxonomy"
)

// RowResult is the full scoring outcome for one raw audit row.
type RowResult struct {
	Sections map[string]SectionResult

	// Overall is the value to persist: the authoritative Final Score when
	// the source supplies one, otherwise the weighted fold of the section
	// scores that exist for this row.
	Overall *float64

	// OverallAuthoritative is the parsed Final Score column, if any.
	OverallAuthoritative *float64

	// OverallComputed is the weighted fold of locally computed section
	// percentages. Diagnostic only; it backs reconciliation, never storage.
	OverallComputed *float64

	// Mismatches lists every computed-vs-authoritative divergence beyond
	// tolerance, section level and overall. Non-fatal.
	Mismatches []Mismatch
}

// FailedItems returns the row's failed items in section-letter order.
func (r RowResult) FailedItems(tax *taxonomy.Taxonomy) []FailedItem {
	var failed []FailedItem
	for _, sec := range tax.Sections() {
		failed = append(failed, r.Sections[sec.Letter].Failed...)
	}
	return failed
}

// ScoreRow scores every section of one row and reconciles the results
// against the authoritative values the source ships alongside the raw
// per-item cells. Pure: same taxonomy, header, and row always produce the
// same result.
func ScoreRow(tax *taxonomy.Taxonomy, header Header, row Row, tolerance float64) RowResult {
	result := RowResult{Sections: make(map[string]SectionResult, len(tax.Sections()))}
	weights := tax.Weights()

	computed := make(map[string]*float64)
	persisted := make(map[string]*float64)
	for _, sec := range tax.Sections() {
		sr := ScoreSection(sec, header, row)
		result.Sections[sec.Letter] = sr
		computed[sec.Letter] = sr.Computed
		persisted[sec.Letter] = sr.Score()

		if m := Reconcile(sec.Letter, sr.Computed, sr.Authoritative, tolerance, sec.Weight); m != nil {
			result.Mismatches = append(result.Mismatches, *m)
		}
	}

	result.OverallComputed = WeightedOverall(computed, weights)

	if col, ok := header.FinalScore(); ok {
		if v, parsed := ParseDecimal(row[col]); parsed {
			result.OverallAuthoritative = &v
		}
	}

	if m := Reconcile("overall", result.OverallComputed, result.OverallAuthoritative, tolerance, 0); m != nil {
		result.Mismatches = append(result.Mismatches, *m)
	}

	// Authoritative wins for anything persisted; the local fold is the
	// fallback when the source omits a Final Score.
	if result.OverallAuthoritative != nil {
		result.Overall = result.OverallAuthoritative
	} else {
		result.Overall = WeightedOverall(persisted, weights)
	}

	return result
}
