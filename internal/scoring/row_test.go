package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/taxonomy"
)

func twoSectionTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Section{
		{
			Letter: "A", Name: "A. Storefront", Weight: 4,
			Items: []taxonomy.Item{
				{Code: 101, Label: "(101) Signage"},
				{Code: 102, Label: "(102) Glass"},
			},
		},
		{
			Letter: "B", Name: "B. Greeting", Weight: 6,
			Items: []taxonomy.Item{
				{Code: 201, Label: "(201) Greeted"},
			},
		},
	})
	require.NoError(t, err)
	return tax
}

func twoSectionHeader() Header {
	return NewHeader([]string{
		"Site Code",
		"(101) Signage",
		"(102) Glass",
		"(201) Greeted",
		"(Section) A. Storefront",
		"(Section) B. Greeting",
		"Final Score",
	})
}

func TestScoreRow_AuthoritativeOverallWins(t *testing.T) {
	tax := twoSectionTaxonomy(t)
	row := Row{
		"(101) Signage":           "Ya (1/1)",
		"(102) Glass":             "Tidak (0/1)",
		"(201) Greeted":           "Ya (1/1)",
		"(Section) A. Storefront": "50,00",
		"(Section) B. Greeting":   "100,00",
		"Final Score":             "91,00",
	}

	res := ScoreRow(tax, twoSectionHeader(), row, 0.1)

	require.NotNil(t, res.Overall)
	assert.InDelta(t, 91.00, *res.Overall, 1e-9)

	// Local recompute: (0.5*4 + 1.0*6) / 10 * 100 = 80; diverges from 91 by
	// more than tolerance, so an overall mismatch is reported - but the
	// authoritative value is still what gets persisted.
	require.NotNil(t, res.OverallComputed)
	assert.InDelta(t, 80.0, *res.OverallComputed, 1e-9)

	var overallMismatch *Mismatch
	for i := range res.Mismatches {
		if res.Mismatches[i].Scope == "overall" {
			overallMismatch = &res.Mismatches[i]
		}
	}
	require.NotNil(t, overallMismatch)
	assert.InDelta(t, 11.0, overallMismatch.Diff, 1e-9)
}

func TestScoreRow_FallbackWhenFinalScoreAbsent(t *testing.T) {
	tax := twoSectionTaxonomy(t)
	header := NewHeader([]string{
		"(101) Signage", "(102) Glass", "(201) Greeted",
		"(Section) A. Storefront", "(Section) B. Greeting",
	})
	row := Row{
		"(101) Signage":           "Ya (1/1)",
		"(102) Glass":             "Ya (1/1)",
		"(201) Greeted":           "Tidak (0/1)",
		"(Section) A. Storefront": "100,00",
		"(Section) B. Greeting":   "0,00",
	}

	res := ScoreRow(tax, header, row, 0.1)

	assert.Nil(t, res.OverallAuthoritative)
	require.NotNil(t, res.Overall)
	// (1.0*4 + 0.0*6) / 10 * 100 = 40
	assert.InDelta(t, 40.0, *res.Overall, 1e-9)
}

func TestScoreRow_SectionMismatchReported(t *testing.T) {
	tax := twoSectionTaxonomy(t)
	row := Row{
		"(101) Signage":           "Ya (1/1)",
		"(102) Glass":             "Ya (1/1)",
		"(Section) A. Storefront": "50,00", // computed is 100
	}

	res := ScoreRow(tax, twoSectionHeader(), row, 0.1)

	require.NotEmpty(t, res.Mismatches)
	assert.Equal(t, "A", res.Mismatches[0].Scope)
	assert.Equal(t, 4, res.Mismatches[0].Weight)

	// Authoritative section score still wins for persistence.
	require.NotNil(t, res.Sections["A"].Score())
	assert.InDelta(t, 50.0, *res.Sections["A"].Score(), 1e-9)
}

func TestScoreRow_WithinToleranceIsClean(t *testing.T) {
	tax := twoSectionTaxonomy(t)
	row := Row{
		"(101) Signage":           "Ya (1/1)",
		"(102) Glass":             "Ya (1/1)",
		"(201) Greeted":           "Ya (1/1)",
		"(Section) A. Storefront": "100,00",
		"(Section) B. Greeting":   "99,95",
		"Final Score":             "99,99",
	}

	res := ScoreRow(tax, twoSectionHeader(), row, 0.1)
	assert.Empty(t, res.Mismatches)
}

func TestScoreRow_FailedItemsInSectionOrder(t *testing.T) {
	tax := twoSectionTaxonomy(t)
	row := Row{
		"(101) Signage": "Tidak (0/1)",
		"(102) Glass":   "Ya (1/1)",
		"(201) Greeted": "Tidak (0/1)",
	}

	res := ScoreRow(tax, twoSectionHeader(), row, 0.1)
	failed := res.FailedItems(tax)
	require.Len(t, failed, 2)
	assert.Equal(t, "A", failed[0].Section)
	assert.Equal(t, 101, failed[0].Code)
	assert.Equal(t, "B", failed[1].Section)
	assert.Equal(t, 201, failed[1].Code)
}
