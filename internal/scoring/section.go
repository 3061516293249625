package scoring

import (
	"math"
	"regexp"

	"storepulse/internal/taxonomy"
	str "storepulse/pkg/string"
)

// FailedItemLabelCap bounds the stored length of free-text item labels. The
// cap is arbitrary but must stay deterministic so re-ingestion produces
// byte-identical failed-item lists.
const FailedItemLabelCap = 120

var itemCodePrefixRe = regexp.MustCompile(`^\(\d+\)\s*`)

// FailedItem is one failed checklist question inside a section.
type FailedItem struct {
	Section     string `json:"section"`
	SectionName string `json:"section_name"`
	Code        int    `json:"code"`
	Label       string `json:"item"`
}

// Mismatch records a computed-vs-authoritative divergence beyond tolerance.
// Diagnostic only: the authoritative value always wins downstream.
type Mismatch struct {
	Scope         string  `json:"scope"` // section letter, or "overall"
	Computed      float64 `json:"computed"`
	Authoritative float64 `json:"authoritative"`
	Diff          float64 `json:"diff"`
	Weight        int     `json:"weight"` // section weight in play; aids stale-weight triage
}

// SectionResult is the outcome of scoring one section of one row.
type SectionResult struct {
	Letter        string
	Name          string
	Computed      *float64 // nil when zero items were determinate
	Authoritative *float64 // nil when the source column is absent or unparseable
	Determinate   int
	Passed        int
	Failed        []FailedItem
	MissingItems  []int // taxonomy codes with no matching column in the source
}

// Score returns the value persisted for the section: the authoritative
// score when supplied, otherwise the computed percentage. Nil when neither
// exists.
func (r SectionResult) Score() *float64 {
	if r.Authoritative != nil {
		return r.Authoritative
	}
	return r.Computed
}

// ScoreSection computes one section of one row: the pass percentage over
// determinate items, the failed-item list, and the authoritative score
// extracted from the section's own column. Excluded items never count in
// either direction, whatever their raw value holds.
func ScoreSection(sec taxonomy.Section, header Header, row Row) SectionResult {
	result := SectionResult{Letter: sec.Letter, Name: sec.Name}

	for _, item := range sec.ScorableItems() {
		col, ok := header.ItemColumn(item.Code)
		if !ok {
			// Configuration defect: tracked item absent from the source.
			// Production scoring treats it as not applicable and moves on.
			result.MissingItems = append(result.MissingItems, item.Code)
			continue
		}
		score := InterpretItem(row[col])
		if !score.Determinate() {
			continue
		}
		result.Determinate++
		switch score {
		case Pass:
			result.Passed++
		case Fail:
			result.Failed = append(result.Failed, FailedItem{
				Section:     sec.Letter,
				SectionName: sec.Name,
				Code:        item.Code,
				Label:       str.Truncate(itemCodePrefixRe.ReplaceAllString(col, ""), FailedItemLabelCap),
			})
		}
	}

	if result.Determinate > 0 {
		pct := float64(result.Passed) / float64(result.Determinate) * 100
		result.Computed = &pct
	}

	if col, ok := header.SectionScoreColumn(sec.Letter); ok {
		if v, parsed := ParseDecimal(row[col]); parsed {
			result.Authoritative = &v
		}
	}

	return result
}

// WeightedOverall folds section scores into a 0-100 overall using the weight
// table, restricted to sections that actually carry a score. Nil when no
// section does.
func WeightedOverall(scores map[string]*float64, weights map[string]int) *float64 {
	var earned, possible float64
	for letter, score := range scores {
		if score == nil {
			continue
		}
		w := float64(weights[letter])
		if w <= 0 {
			continue
		}
		earned += *score / 100 * w
		possible += w
	}
	if possible == 0 {
		return nil
	}
	overall := earned / possible * 100
	return &overall
}

// Reconcile compares a computed score with its authoritative counterpart.
// Returns a Mismatch when both exist and diverge beyond tolerance.
func Reconcile(scope string, computed, authoritative *float64, tolerance float64, weight int) *Mismatch {
	if computed == nil || authoritative == nil {
		return nil
	}
	diff := math.Abs(*computed - *authoritative)
	if diff <= tolerance {
		return nil
	}
	return &Mismatch{
		Scope:         scope,
		Computed:      *computed,
		Authoritative: *authoritative,
		Diff:          diff,
		Weight:        weight,
	}
}

// Round2 rounds to two decimals, the precision of persisted scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
