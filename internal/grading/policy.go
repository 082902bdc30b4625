// Package grading maps numeric results to letter grades.
package grading

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned when a policy name is not recognised.
var ErrUnknownPolicy = errors.New("unknown grading policy")

// Grade is a letter outcome.
type Grade string

const (
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeFail Grade = "Fail"
)

// Policy names a grading strategy. Both strategies are in use and the
// choice is configuration, never an implicit code path.
type Policy string

const (
	// PolicyRawTotal grades the raw total of the fixed three-subject,
	// 100-points-each scheme.
	PolicyRawTotal Policy = "raw_total"

	// PolicyPercentage grades a percentage of the configured maximum.
	PolicyPercentage Policy = "percentage"
)

// AllPolicies lists every supported policy.
var AllPolicies = []Policy{PolicyRawTotal, PolicyPercentage}

// band is a contiguous range starting at min (inclusive).
type band struct {
	min   float64
	grade Grade
}

// Bands are ordered from the highest lower bound down.
var bands = map[Policy][]band{
	PolicyRawTotal: {
		{min: 270, grade: GradeA},
		{min: 210, grade: GradeB},
		{min: 150, grade: GradeC},
	},
	PolicyPercentage: {
		{min: 90, grade: GradeA},
		{min: 75, grade: GradeB},
		{min: 60, grade: GradeC},
	},
}

// Grade maps value to a letter. Values are not range checked: anything
// below the lowest band is Fail, anything above the scale is A.
func (p Policy) Grade(value float64) Grade {
	for _, b := range bands[p] {
		if value >= b.min {
			return b.grade
		}
	}
	return GradeFail
}

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	_, ok := bands[p]
	return ok
}

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
	return p, nil
}
