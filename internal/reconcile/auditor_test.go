package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepulse/internal/platform/config"
	"storepulse/internal/platform/logger"
	"storepulse/internal/taxonomy"
	dErrors "storepulse/pkg/domain-errors"
)

const waveHeader = "Site Code;(101) Greets the customer;(102) Offers the promo of the month;" +
	"(201) Floor is clean;(Section) A. Service Quality;(Section) B. Cleanliness;Final Score\n"

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.New([]taxonomy.Section{
		{Letter: "A", Name: "A. Service Quality", Weight: 4, Items: []taxonomy.Item{
			{Code: 101, Label: "Greets the customer"},
			{Code: 102, Label: "Offers the promo of the month"},
		}},
		{Letter: "B", Name: "B. Cleanliness", Weight: 6, Items: []taxonomy.Item{
			{Code: 201, Label: "Floor is clean"},
		}},
	})
	require.NoError(t, err)
	return tax
}

func newAuditor(t *testing.T) *Auditor {
	t.Helper()
	return New(testTaxonomy(t), config.DefaultPolicy(), logger.New())
}

func TestRun_CleanExportPasses(t *testing.T) {
	a := newAuditor(t)

	// 50 computed, 50,00 authoritative; rounding noise within tolerance.
	export := waveHeader +
		"S-001;(0/1);(1/1);(1/1);50,00;100,00;80,00\n" +
		"S-002;(1/1);(1/1);(1/1);100,00;100,00;100,00\n"

	report, err := a.Run(context.Background(), "Wave 2", strings.NewReader(export), 0, 42)
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Equal(t, 2, report.Checked)
	assert.Empty(t, report.Findings)
}

func TestRun_WithinToleranceIsClean(t *testing.T) {
	a := newAuditor(t)

	// Section A authoritative drifts by 0.05, overall by 0.02: both inside
	// the 0.1 band.
	export := waveHeader + "S-001;(0/1);(1/1);(1/1);50,05;100,00;80,02\n"

	report, err := a.Run(context.Background(), "Wave 2", strings.NewReader(export), 0, 1)
	require.NoError(t, err)
	assert.True(t, report.Passed)
}

func TestRun_MismatchReported(t *testing.T) {
	a := newAuditor(t)

	// Section A authoritative 75 vs computed 50: stale weight or edited sheet.
	export := waveHeader + "S-001;(0/1);(1/1);(1/1);75,00;100,00;90,00\n"

	report, err := a.Run(context.Background(), "Wave 2", strings.NewReader(export), 0, 7)
	require.NoError(t, err)
	assert.False(t, report.Passed)
	require.NotEmpty(t, report.Findings)
	assert.Equal(t, 1, report.Findings[0].RowNumber)
	assert.Equal(t, "S-001", report.Findings[0].StoreCode)
	assert.Equal(t, "A", report.Findings[0].Scope)
	assert.Equal(t, 4, report.Findings[0].Weight)
}

func TestRun_SamplingIsDeterministic(t *testing.T) {
	a := newAuditor(t)

	var rows strings.Builder
	rows.WriteString(waveHeader)
	for i := 0; i < 20; i++ {
		rows.WriteString("S-001;(1/1);(1/1);(1/1);100,00;100,00;100,00\n")
	}

	first, err := a.Run(context.Background(), "Wave 2", strings.NewReader(rows.String()), 5, 99)
	require.NoError(t, err)
	second, err := a.Run(context.Background(), "Wave 2", strings.NewReader(rows.String()), 5, 99)
	require.NoError(t, err)

	assert.Equal(t, 5, first.Checked)
	assert.Equal(t, first.Checked, second.Checked)
	assert.Equal(t, 20, first.RowsTotal)
}

func TestRun_CoverageFailureIsFatal(t *testing.T) {
	a := newAuditor(t)

	// Item 201 has no column in this export.
	export := "Site Code;(101) Greets the customer;(102) Offers the promo of the month;Final Score\n" +
		"S-001;(1/1);(1/1);100,00\n"

	_, err := a.Run(context.Background(), "Wave 2", strings.NewReader(export), 0, 1)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfigurationDefect))
	assert.Contains(t, err.Error(), "(201)")
}
