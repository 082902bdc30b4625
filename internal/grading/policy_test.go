package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentagePolicy(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Grade
	}{
		{name: "exactly 90", value: 90.0, want: GradeA},
		{name: "just below 90", value: 89.99, want: GradeB},
		{name: "exactly 75", value: 75, want: GradeB},
		{name: "just below 75", value: 74.99, want: GradeC},
		{name: "exactly 60", value: 60.0, want: GradeC},
		{name: "just below 60", value: 59.99, want: GradeFail},
		{name: "zero", value: 0, want: GradeFail},
		{name: "negative", value: -5, want: GradeFail},
		{name: "above scale", value: 140, want: GradeA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyPercentage.Grade(tt.value))
		})
	}
}

func TestRawTotalPolicy(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Grade
	}{
		{name: "exactly 270", value: 270, want: GradeA},
		{name: "269", value: 269, want: GradeB},
		{name: "exactly 210", value: 210, want: GradeB},
		{name: "209", value: 209, want: GradeC},
		{name: "exactly 150", value: 150, want: GradeC},
		{name: "149", value: 149, want: GradeFail},
		{name: "perfect", value: 300, want: GradeA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyRawTotal.Grade(tt.value))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("percentage")
	require.NoError(t, err)
	assert.Equal(t, PolicyPercentage, p)

	p, err = ParsePolicy("raw_total")
	require.NoError(t, err)
	assert.Equal(t, PolicyRawTotal, p)

	_, err = ParsePolicy("curve")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestUnknownPolicyAlwaysFails(t *testing.T) {
	assert.Equal(t, GradeFail, Policy("bogus").Grade(100))
	assert.False(t, Policy("bogus").Valid())
}
