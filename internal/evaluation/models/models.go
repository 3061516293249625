// Package models defines the persisted outcome of scoring one raw audit
// row: the wave evaluation.
package models

import (
	"time"

	"storepulse/internal/scoring"
	id "storepulse/pkg/domain"
)

// SectionScore is one section's persisted score. Score is nil when the
// section had zero determinate items this wave; such sections are excluded
// from weighting.
type SectionScore struct {
	Letter string   `json:"letter"`
	Name   string   `json:"name"`
	Score  *float64 `json:"score"`
}

// WaveEvaluation is the computed result of scoring one store at one wave.
//
// # Identity Invariant
//
// Exactly one evaluation exists per (StoreID, Wave) pair. Re-ingesting the
// same wave for the same store overwrites the record in place (idempotent
// upsert); it never duplicates. Stores enforce this, keeping the original
// ID across overwrites so references from action plans stay valid.
type WaveEvaluation struct {
	ID           id.EvaluationID
	StoreID      id.StoreID
	Wave         string
	OverallScore float64 // 0-100, 2 decimals, authoritative when supplied
	Sections     []SectionScore
	FailedItems  []scoring.FailedItem // ordered by section letter; may be empty
	IngestedAt   time.Time
}

// SectionScore returns the persisted score for a section letter, nil when
// the section carried no score this wave or is unknown.
func (e *WaveEvaluation) SectionScore(letter string) *float64 {
	for _, s := range e.Sections {
		if s.Letter == letter {
			return s.Score
		}
	}
	return nil
}

// FailedItemsForSection returns the failed items recorded under one section.
func (e *WaveEvaluation) FailedItemsForSection(letter string) []scoring.FailedItem {
	var failed []scoring.FailedItem
	for _, item := range e.FailedItems {
		if item.Section == letter {
			failed = append(failed, item)
		}
	}
	return failed
}

// FailedCodes returns the set of failed item codes across all sections.
// Used for recurrence classification against prior waves.
func (e *WaveEvaluation) FailedCodes() map[int]bool {
	codes := make(map[int]bool, len(e.FailedItems))
	for _, item := range e.FailedItems {
		codes[item.Code] = true
	}
	return codes
}
