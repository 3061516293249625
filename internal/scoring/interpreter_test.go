package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretItem(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ItemScore
	}{
		{"fractional pass marker", "Ya (1/1)", Pass},
		{"fractional fail marker", "Tidak (0/1)", Fail},
		{"percentage pass marker", "100.00", Pass},
		{"percentage fail marker", "0.00", Fail},
		{"pass marker embedded in text", "Terpenuhi (1/1) catatan", Pass},
		{"hundred contains zero but is a pass", "Skor: 100.00%", Pass},
		{"empty cell", "", NotApplicable},
		{"qualitative text", "Kasir ramah dan cekatan", NotApplicable},
		{"unrecognized format", "N/A", NotApplicable},
		{"bare number without marker", "75.50", NotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterpretItem(tt.raw))
		})
	}
}

// The interpreter is pure: repeated calls on the same input agree.
func TestInterpretItem_Deterministic(t *testing.T) {
	inputs := []string{"", "(1/1)", "(0/1)", "100.00", "0.00", "garbage", "(1/1) (0/1)"}
	for _, in := range inputs {
		first := InterpretItem(in)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, InterpretItem(in))
		}
		assert.Contains(t, []ItemScore{Pass, Fail, NotApplicable}, first)
	}
}

func TestItemScoreDeterminate(t *testing.T) {
	assert.True(t, Pass.Determinate())
	assert.True(t, Fail.Determinate())
	assert.False(t, NotApplicable.Determinate())
}
