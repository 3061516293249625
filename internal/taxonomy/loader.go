package taxonomy

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	dErrors "storepulse/pkg/domain-errors"
)

// The reference tables arrive as semicolon-delimited UTF-8 exports with a
// header row and an optional byte-order mark.
//
// Section Weight table: `<section label "X. ...">;<integer weight>`.
// Scorecard table: a `Section` column carrying the same letter-prefixed
// label and a `Journey` column whose value begins with `(<numeric code>)`.

var (
	sectionLetterRe = regexp.MustCompile(`([A-Z])\.`)
	journeyCodeRe   = regexp.MustCompile(`^\((\d+)\)`)
)

// LoaderOption customizes taxonomy loading.
type LoaderOption func(*loader)

// WithExcludedCodes marks item codes as tracked-but-not-counted. Exclusions
// are part of the reference data, fixed at load time, never computed.
func WithExcludedCodes(codes ...int) LoaderOption {
	return func(l *loader) {
		for _, code := range codes {
			l.excluded[code] = true
		}
	}
}

type loader struct {
	excluded map[int]bool
}

// Load reads the Section Weight and Scorecard tables and assembles the
// taxonomy. Either table being unreadable is fatal: without reference data
// no scoring run can proceed.
func Load(weights io.Reader, scorecard io.Reader, opts ...LoaderOption) (*Taxonomy, error) {
	l := &loader{excluded: make(map[int]bool)}
	for _, opt := range opts {
		opt(l)
	}

	weightTable, names, err := l.loadWeights(weights)
	if err != nil {
		return nil, err
	}
	items, err := l.loadScorecard(scorecard)
	if err != nil {
		return nil, err
	}

	sections := make([]Section, 0, len(weightTable))
	for letter, weight := range weightTable {
		sections = append(sections, Section{
			Letter: letter,
			Name:   names[letter],
			Weight: weight,
			Items:  items[letter],
		})
	}
	return New(sections)
}

func (l *loader) loadWeights(r io.Reader) (map[string]int, map[string]string, error) {
	records, err := readSemicolonCSV(r)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeConfigurationDefect, "read section weight table")
	}
	if len(records) < 2 {
		return nil, nil, dErrors.New(dErrors.CodeConfigurationDefect, "section weight table has no data rows")
	}

	weights := make(map[string]int)
	names := make(map[string]string)
	for _, row := range records[1:] { // skip header
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(row[0])
		weight, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if label == "" || err != nil || weight <= 0 {
			continue
		}
		m := sectionLetterRe.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		weights[m[1]] = weight
		names[m[1]] = label
	}
	if len(weights) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeConfigurationDefect, "section weight table yielded no sections")
	}
	return weights, names, nil
}

func (l *loader) loadScorecard(r io.Reader) (map[string][]Item, error) {
	records, err := readSemicolonCSV(r)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfigurationDefect, "read scorecard table")
	}
	if len(records) < 2 {
		return nil, dErrors.New(dErrors.CodeConfigurationDefect, "scorecard table has no data rows")
	}

	header := records[0]
	sectionIdx, journeyIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Section":
			sectionIdx = i
		case "Journey":
			journeyIdx = i
		}
	}
	if sectionIdx < 0 || journeyIdx < 0 {
		return nil, dErrors.New(dErrors.CodeConfigurationDefect, "scorecard table missing Section or Journey column")
	}

	items := make(map[string][]Item)
	seen := make(map[int]bool)
	for _, row := range records[1:] {
		if len(row) <= sectionIdx || len(row) <= journeyIdx {
			continue
		}
		sectionRaw := strings.TrimSpace(row[sectionIdx])
		journeyRaw := strings.TrimSpace(row[journeyIdx])
		if sectionRaw == "" || journeyRaw == "" {
			continue
		}
		letterMatch := sectionLetterRe.FindStringSubmatch(sectionRaw)
		codeMatch := journeyCodeRe.FindStringSubmatch(journeyRaw)
		if letterMatch == nil || codeMatch == nil {
			continue
		}
		code, err := strconv.Atoi(codeMatch[1])
		if err != nil || seen[code] {
			continue // dedupe by code across the whole table
		}
		seen[code] = true
		letter := letterMatch[1]
		items[letter] = append(items[letter], Item{
			Code:     code,
			Label:    journeyRaw,
			Excluded: l.excluded[code],
		})
	}
	return items, nil
}

// readSemicolonCSV parses a semicolon-delimited table, tolerating ragged
// rows and stripping a UTF-8 byte-order mark if present.
func readSemicolonCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	content := strings.TrimPrefix(string(data), "\uFEFF")

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}
