package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/resultbook/internal/grading"
	"github.com/stemsi/resultbook/internal/model"
)

const (
	maths   = 1
	english = 2
)

func fixture() Input {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return Input{
		ClassName: "5A",
		ExamName:  "PT1",
		Roster: []model.Student{
			{AdmissionNo: "2025-001", Name: "Alice", ClassName: "5A"},
			{AdmissionNo: "2025-002", Name: "Bob", ClassName: "5A"},
			{AdmissionNo: "2025-003", Name: "Cara", ClassName: "5A"},
		},
		Subjects: []model.ExamSubject{
			{ID: maths, SubjectName: "Maths", MaxMarks: 100},
			{ID: english, SubjectName: "English", MaxMarks: 100},
		},
		Marks: []model.Mark{
			{ID: 1, AdmissionNo: "2025-001", ExamSubjectID: maths, Score: 80, CreatedAt: t0},
			{ID: 2, AdmissionNo: "2025-001", ExamSubjectID: english, Score: 70, CreatedAt: t0},
			{ID: 3, AdmissionNo: "2025-002", ExamSubjectID: maths, Score: 50, CreatedAt: t0},
		},
	}
}

func TestAggregateMarkDriven(t *testing.T) {
	rows := NewAggregator("", "").Aggregate(fixture())

	require.Len(t, rows, 2, "students without marks are left out")

	alice := rows[0]
	assert.Equal(t, 1, alice.Rank)
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 150, alice.TotalScore)
	assert.Equal(t, 200, alice.TotalMax)
	assert.Equal(t, 75.0, alice.Percentage)
	assert.Equal(t, grading.GradeB, alice.Grade)
	assert.Equal(t, 0, alice.MissingSubjects)

	bob := rows[1]
	assert.Equal(t, 2, bob.Rank)
	assert.Equal(t, 50, bob.TotalScore)
	assert.Equal(t, 100, bob.TotalMax, "only the recorded Maths mark counts toward the max")
	assert.Equal(t, 50.0, bob.Percentage)
	assert.Equal(t, grading.GradeFail, bob.Grade)
	assert.Equal(t, 1, bob.MissingSubjects)
}

func TestAggregateSubjectDriven(t *testing.T) {
	rows := NewAggregator(grading.PolicyPercentage, model.TotalMaxSubjectDriven).Aggregate(fixture())

	require.Len(t, rows, 3)

	assert.Equal(t, "Alice", rows[0].Name)
	assert.Equal(t, 200, rows[0].TotalMax)

	bob := rows[1]
	assert.Equal(t, "Bob", bob.Name)
	assert.Equal(t, 50, bob.TotalScore)
	assert.Equal(t, 200, bob.TotalMax)
	assert.Equal(t, 25.0, bob.Percentage)
	assert.Equal(t, grading.GradeFail, bob.Grade)

	cara := rows[2]
	assert.Equal(t, 3, cara.Rank)
	assert.Equal(t, 0, cara.TotalScore)
	assert.Equal(t, 0.0, cara.Percentage)
	assert.Equal(t, 2, cara.MissingSubjects)
}

func TestAggregateDuplicateMarks(t *testing.T) {
	in := fixture()
	later := in.Marks[2].CreatedAt.Add(time.Hour)
	in.Marks = append(in.Marks, model.Mark{ID: 4, AdmissionNo: "2025-002", ExamSubjectID: maths, Score: 60, CreatedAt: later})

	t.Run("mark driven counts every row", func(t *testing.T) {
		rows := NewAggregator("", model.TotalMaxMarkDriven).Aggregate(in)
		require.Len(t, rows, 2)
		assert.Equal(t, "Bob", rows[1].Name)
		assert.Equal(t, 110, rows[1].TotalScore)
		assert.Equal(t, 200, rows[1].TotalMax)
		assert.Equal(t, 1, rows[1].MissingSubjects)
	})

	t.Run("subject driven keeps the latest", func(t *testing.T) {
		rows := NewAggregator("", model.TotalMaxSubjectDriven).Aggregate(in)
		require.Len(t, rows, 3)
		assert.Equal(t, "Bob", rows[1].Name)
		assert.Equal(t, 60, rows[1].TotalScore)
		assert.Equal(t, 200, rows[1].TotalMax)
	})
}

func TestAggregateRawTotalPolicy(t *testing.T) {
	rows := NewAggregator(grading.PolicyRawTotal, "").Aggregate(fixture())

	require.Len(t, rows, 2)
	assert.Equal(t, grading.GradeC, rows[0].Grade, "150 is the lower bound of C")
	assert.Equal(t, grading.GradeFail, rows[1].Grade)
}

func TestAggregateTieBreak(t *testing.T) {
	in := Input{
		Roster: []model.Student{
			{AdmissionNo: "2025-003", Name: "Zed"},
			{AdmissionNo: "2025-002", Name: "Amy"},
			{AdmissionNo: "2025-001", Name: "Amy"},
		},
		Subjects: []model.ExamSubject{{ID: maths, MaxMarks: 100}},
		Marks: []model.Mark{
			{ID: 1, AdmissionNo: "2025-003", ExamSubjectID: maths, Score: 70},
			{ID: 2, AdmissionNo: "2025-002", ExamSubjectID: maths, Score: 70},
			{ID: 3, AdmissionNo: "2025-001", ExamSubjectID: maths, Score: 70},
		},
	}

	rows := NewAggregator("", "").Aggregate(in)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2025-001", "2025-002", "2025-003"},
		[]string{rows[0].AdmissionNo, rows[1].AdmissionNo, rows[2].AdmissionNo})
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestAggregateEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		in   func() Input
	}{
		{"empty roster", func() Input { in := fixture(); in.Roster = nil; return in }},
		{"no subjects", func() Input { in := fixture(); in.Subjects = nil; return in }},
		{"no marks", func() Input { in := fixture(); in.Marks = nil; return in }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := NewAggregator("", "").Aggregate(tt.in())
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		})
	}
}

func TestAggregateIgnoresForeignMarks(t *testing.T) {
	in := fixture()
	in.Marks = append(in.Marks,
		model.Mark{ID: 9, AdmissionNo: "2024-099", ExamSubjectID: maths, Score: 99},
		model.Mark{ID: 10, AdmissionNo: "2025-001", ExamSubjectID: 42, Score: 99},
	)

	rows := NewAggregator("", "").Aggregate(in)

	require.Len(t, rows, 2)
	assert.Equal(t, 150, rows[0].TotalScore)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(10, 0))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(50, 50))
}
