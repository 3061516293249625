// Package scoring turns raw audit cells into item, section, and overall
// scores. Everything here is pure computation over already-loaded data:
// no I/O, no clock, no persistence.
package scoring

import "strings"

// ItemScore is the ternary outcome of interpreting one raw audit cell.
type ItemScore int

const (
	NotApplicable ItemScore = iota
	Pass
	Fail
)

// String returns the score name for logs and reports.
func (s ItemScore) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "not_applicable"
	}
}

// Determinate reports whether the score counts toward a section percentage.
func (s ItemScore) Determinate() bool {
	return s == Pass || s == Fail
}

// InterpretItem maps one raw cell value onto the ternary item score. The
// source system writes a binary result in either a fractional marker
// ("(1/1)" / "(0/1)") or a percentage marker ("100.00" / "0.00"); anything
// else (blank cells, qualitative text, unrecognized formats) is not
// applicable. Total by construction: never errors, always returns one of
// the three values. The 100.00 check must run before the 0.00 check since
// "100.00" contains "0.00".
func InterpretItem(raw string) ItemScore {
	if raw == "" {
		return NotApplicable
	}
	if strings.Contains(raw, "(1/1)") || strings.Contains(raw, "100.00") {
		return Pass
	}
	if strings.Contains(raw, "(0/1)") || strings.Contains(raw, "0.00") {
		return Fail
	}
	return NotApplicable
}
