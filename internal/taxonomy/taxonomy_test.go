package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "storepulse/pkg/domain-errors"
)

func TestNew_Invariants(t *testing.T) {
	t.Run("orders sections by letter", func(t *testing.T) {
		tax, err := New([]Section{
			{Letter: "C", Name: "C. Comfort", Weight: 8},
			{Letter: "A", Name: "A. Storefront", Weight: 4},
			{Letter: "B", Name: "B. Greeting", Weight: 9},
		})
		require.NoError(t, err)
		letters := make([]string, 0, 3)
		for _, sec := range tax.Sections() {
			letters = append(letters, sec.Letter)
		}
		assert.Equal(t, []string{"A", "B", "C"}, letters)
	})

	t.Run("rejects empty taxonomy", func(t *testing.T) {
		_, err := New(nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		_, err := New([]Section{{Letter: "A", Weight: 0}})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
	})

	t.Run("rejects item code owned by two sections", func(t *testing.T) {
		_, err := New([]Section{
			{Letter: "A", Weight: 4, Items: []Item{{Code: 101}}},
			{Letter: "B", Weight: 9, Items: []Item{{Code: 101}}},
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
	})
}

func TestScorableItems_FiltersExclusions(t *testing.T) {
	sec := Section{
		Letter: "F", Weight: 11,
		Items: []Item{
			{Code: 1, Label: "a"},
			{Code: 2, Label: "b", Excluded: true},
			{Code: 3, Label: "c"},
		},
	}
	items := sec.ScorableItems()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Code)
	assert.Equal(t, 3, items[1].Code)
}

const weightsCSV = "\uFEFFSection;Weight\n" +
	"A. Tampilan Tampak Depan Outlet;4\n" +
	"B. Sambutan Hangat;9\n" +
	"garbage row\n" +
	"C. Suasana Outlet;8\n"

const scorecardCSV = "Wave;Section;Journey\n" +
	"W1;A. Tampilan Tampak Depan Outlet;(759166) Signage menyala\n" +
	"W1;A. Tampilan Tampak Depan Outlet;(759167) Kaca bersih\n" +
	"W2;A. Tampilan Tampak Depan Outlet;(759166) Signage menyala\n" + // dup code, ignored
	"W1;B. Sambutan Hangat;(759174) Disambut dalam 10 detik\n" +
	"W1;C. Suasana Outlet;(759181) Musik sesuai\n" +
	"W1;;(759999) Tanpa section\n"

func TestLoad(t *testing.T) {
	tax, err := Load(
		strings.NewReader(weightsCSV),
		strings.NewReader(scorecardCSV),
		WithExcludedCodes(759167),
	)
	require.NoError(t, err)

	require.Len(t, tax.Sections(), 3)
	assert.Equal(t, map[string]int{"A": 4, "B": 9, "C": 8}, tax.Weights())

	secA, ok := tax.Section("A")
	require.True(t, ok)
	assert.Equal(t, "A. Tampilan Tampak Depan Outlet", secA.Name)
	require.Len(t, secA.Items, 2) // dedup by code
	assert.True(t, secA.Items[1].Excluded)
	assert.Len(t, secA.ScorableItems(), 1)

	assert.Equal(t, "B. Sambutan Hangat", tax.SectionName("B"))
	assert.Equal(t, "Z", tax.SectionName("Z"))
}

func TestLoad_EmptyWeightTableIsFatal(t *testing.T) {
	_, err := Load(strings.NewReader("Section;Weight\n"), strings.NewReader(scorecardCSV))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
}

func TestLoad_ScorecardMissingColumns(t *testing.T) {
	_, err := Load(strings.NewReader(weightsCSV), strings.NewReader("Foo;Bar\nx;y\n"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
}
