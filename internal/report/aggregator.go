// Package report ranks students of a class by their results in one exam.
package report

import (
	"math"
	"sort"

	"github.com/stemsi/resultbook/internal/grading"
	"github.com/stemsi/resultbook/internal/model"
)

// Input is everything needed to build one class report. Marks whose
// subject is not configured for the exam and class, or whose student is
// not on the roster, are ignored.
type Input struct {
	ClassName string
	ExamName  string
	Roster    []model.Student
	Subjects  []model.ExamSubject
	Marks     []model.Mark
}

// Aggregator turns an Input into ranked report rows.
type Aggregator struct {
	Policy grading.Policy
	Mode   model.TotalMaxMode
}

// NewAggregator returns an Aggregator, falling back to the percentage
// policy and mark driven totals for empty values.
func NewAggregator(policy grading.Policy, mode model.TotalMaxMode) Aggregator {
	if policy == "" {
		policy = grading.PolicyPercentage
	}
	if mode == "" {
		mode = model.TotalMaxMarkDriven
	}
	return Aggregator{Policy: policy, Mode: mode}
}

type tally struct {
	student  model.Student
	score    int
	max      int
	recorded map[int]bool
}

// Aggregate computes one row per reported student. It has no side effects
// and returns an empty, non-nil slice when the roster or the subject
// configuration is empty.
func (a Aggregator) Aggregate(in Input) []model.ReportRow {
	rows := []model.ReportRow{}
	if len(in.Roster) == 0 || len(in.Subjects) == 0 {
		return rows
	}

	maxBySubject := make(map[int]int, len(in.Subjects))
	configuredMax := 0
	for _, s := range in.Subjects {
		if _, dup := maxBySubject[s.ID]; dup {
			continue
		}
		maxBySubject[s.ID] = s.MaxMarks
		configuredMax += s.MaxMarks
	}

	tallies := make(map[string]*tally, len(in.Roster))
	order := make([]string, 0, len(in.Roster))
	for _, st := range in.Roster {
		if _, ok := tallies[st.AdmissionNo]; ok {
			continue
		}
		tallies[st.AdmissionNo] = &tally{student: st, recorded: map[int]bool{}}
		order = append(order, st.AdmissionNo)
	}

	marks := relevantMarks(in.Marks, tallies, maxBySubject)
	if a.Mode == model.TotalMaxSubjectDriven {
		marks = latestPerSubject(marks)
	}

	for _, m := range marks {
		t := tallies[m.AdmissionNo]
		t.score += m.Score
		t.max += maxBySubject[m.ExamSubjectID]
		t.recorded[m.ExamSubjectID] = true
	}

	for _, no := range order {
		t := tallies[no]
		if a.Mode != model.TotalMaxSubjectDriven && len(t.recorded) == 0 {
			continue
		}
		totalMax := t.max
		if a.Mode == model.TotalMaxSubjectDriven {
			totalMax = configuredMax
		}
		pct := Percentage(t.score, totalMax)
		rows = append(rows, model.ReportRow{
			AdmissionNo:     t.student.AdmissionNo,
			Name:            t.student.Name,
			TotalScore:      t.score,
			TotalMax:        totalMax,
			Percentage:      pct,
			Grade:           a.grade(t.score, pct),
			MissingSubjects: len(maxBySubject) - len(t.recorded),
		})
	}

	Rank(rows)
	return rows
}

func (a Aggregator) grade(total int, pct float64) grading.Grade {
	if a.Policy == grading.PolicyRawTotal {
		return a.Policy.Grade(float64(total))
	}
	return a.Policy.Grade(pct)
}

// Percentage is score*100/outOf rounded to two decimals, or 0 when outOf is 0.
func Percentage(score, outOf int) float64 {
	if outOf <= 0 {
		return 0
	}
	return math.Round(float64(score)*100/float64(outOf)*100) / 100
}

// Rank sorts rows by total score descending, then name and admission
// number ascending, and assigns consecutive 1-based ranks.
func Rank(rows []model.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].AdmissionNo < rows[j].AdmissionNo
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

func relevantMarks(marks []model.Mark, tallies map[string]*tally, subjects map[int]int) []model.Mark {
	out := make([]model.Mark, 0, len(marks))
	for _, m := range marks {
		if _, ok := tallies[m.AdmissionNo]; !ok {
			continue
		}
		if _, ok := subjects[m.ExamSubjectID]; !ok {
			continue
		}
		out = append(out, m)
	}
	return out
}

// latestPerSubject keeps the most recently recorded mark for each
// student and subject. Later IDs win when timestamps are equal.
func latestPerSubject(marks []model.Mark) []model.Mark {
	type key struct {
		admissionNo string
		subjectID   int
	}
	latest := make(map[key]int, len(marks))
	keys := make([]key, 0, len(marks))
	for i, m := range marks {
		k := key{m.AdmissionNo, m.ExamSubjectID}
		j, seen := latest[k]
		if !seen {
			latest[k] = i
			keys = append(keys, k)
			continue
		}
		prev := marks[j]
		if m.CreatedAt.After(prev.CreatedAt) || (m.CreatedAt.Equal(prev.CreatedAt) && m.ID > prev.ID) {
			latest[k] = i
		}
	}
	out := make([]model.Mark, 0, len(keys))
	for _, k := range keys {
		out = append(out, marks[latest[k]])
	}
	return out
}
