package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/admission"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
	"github.com/stemsi/resultbook/internal/repository"
)

var testLog = zerolog.New(io.Discard)

// memStudents mirrors the students table, including the per-year lock held
// while an admission number is assigned.
type memStudents struct {
	mu       sync.RWMutex
	students []model.Student
	nextID   int
}

func (m *memStudents) MaxYearSerial(_ context.Context, year int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxLocked(year), nil
}

func (m *memStudents) maxLocked(year int) int {
	top := 0
	for _, s := range m.students {
		if s.AdmissionYear == year && s.YearSerial > top {
			top = s.YearSerial
		}
	}
	return top
}

type lockedSource struct{ m *memStudents }

func (l lockedSource) MaxYearSerial(_ context.Context, year int) (int, error) {
	return l.m.maxLocked(year), nil
}

func (m *memStudents) Register(ctx context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	serial, no, err := admission.NewGenerator(lockedSource{m}).Next(ctx, s.AdmissionYear)
	if err != nil {
		return err
	}
	for _, existing := range m.students {
		if existing.AdmissionNo == no {
			return repository.ErrDuplicateAdmissionNo
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.YearSerial = serial
	s.AdmissionNo = no
	s.CreatedAt = time.Now()
	m.students = append(m.students, *s)
	return nil
}

func (m *memStudents) GetByAdmissionNo(_ context.Context, no string) (*model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.AdmissionNo == no {
			cp := s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStudents) List(_ context.Context, f repository.StudentFilter) ([]model.Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Student
	for _, s := range m.students {
		if f.ClassName != "" && s.ClassName != f.ClassName {
			continue
		}
		if f.Query != "" && s.AdmissionNo != f.Query && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, s)
	}
	total := len(out)
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memStudents) Classes(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := map[string]bool{}
	for _, s := range m.students {
		set[s.ClassName] = true
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

type memExams struct {
	mu        sync.RWMutex
	exams     []model.Exam
	subjects  []model.ExamSubject
	names     map[int]string
	inUse     map[int]bool
	subjectID int
}

func newMemExams() *memExams {
	return &memExams{names: map[int]string{1: "Maths", 2: "English", 3: "Science"}, inUse: map[int]bool{}}
}

func (m *memExams) Create(_ context.Context, e *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.exams {
		if x.Name == e.Name {
			return repository.ErrDuplicate
		}
	}
	e.ID = len(m.exams) + 1
	e.CreatedAt = time.Now()
	m.exams = append(m.exams, *e)
	return nil
}

func (m *memExams) List(_ context.Context) ([]model.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Exam(nil), m.exams...), nil
}

func (m *memExams) GetByName(_ context.Context, name string) (*model.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.exams {
		if e.Name == name {
			cp := e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memExams) GetByID(_ context.Context, id int) (*model.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.exams {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memExams) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inUse[id] {
		return repository.ErrInUse
	}
	for i, e := range m.exams {
		if e.ID == id {
			m.exams = append(m.exams[:i], m.exams[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memExams) SubjectsForClass(_ context.Context, examID int, className string) ([]model.ExamSubject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.ExamSubject
	for _, es := range m.subjects {
		if es.ExamID == examID && es.ClassName == className {
			out = append(out, es)
		}
	}
	return out, nil
}

func (m *memExams) GetExamSubject(_ context.Context, id int) (*model.ExamSubject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, es := range m.subjects {
		if es.ID == id {
			cp := es
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memExams) ReplaceSubjects(ctx context.Context, examID int, className string, inputs []model.ExamSubjectInput) ([]model.ExamSubject, error) {
	m.mu.Lock()
	for _, in := range inputs {
		if _, ok := m.names[in.SubjectID]; !ok {
			m.mu.Unlock()
			return nil, repository.ErrNotFound
		}
	}
	existing := map[int]model.ExamSubject{}
	kept := m.subjects[:0]
	for _, es := range m.subjects {
		if es.ExamID == examID && es.ClassName == className {
			existing[es.SubjectID] = es
			continue
		}
		kept = append(kept, es)
	}
	m.subjects = kept
	for _, in := range inputs {
		es, ok := existing[in.SubjectID]
		if !ok {
			m.subjectID++
			es = model.ExamSubject{ID: m.subjectID, ExamID: examID, ClassName: className, SubjectID: in.SubjectID, SubjectName: m.names[in.SubjectID]}
		}
		es.MaxMarks = in.MaxMarks
		m.subjects = append(m.subjects, es)
	}
	m.mu.Unlock()
	return m.SubjectsForClass(ctx, examID, className)
}

type memMarks struct {
	mu    sync.Mutex
	marks []model.Mark
}

func (m *memMarks) InsertMany(_ context.Context, marks []model.Mark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range marks {
		marks[i].ID = len(m.marks) + i + 1
		marks[i].CreatedAt = time.Now()
	}
	m.marks = append(m.marks, marks...)
	return nil
}

func (m *memMarks) ListForStudent(_ context.Context, admissionNo string, _ *int) ([]model.MarkDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MarkDetail
	for _, mk := range m.marks {
		if mk.AdmissionNo == admissionNo {
			out = append(out, model.MarkDetail{Mark: mk})
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) ReportChanged(_ context.Context, examName, className string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, examName+"/"+className)
	return nil
}

// staticSource serves report input from the fakes above.
type staticSource struct {
	students *memStudents
	exams    *memExams
	marks    *memMarks
	calls    int
}

func (s *staticSource) LoadInput(ctx context.Context, exam *model.Exam, className string) (report.Input, error) {
	s.calls++
	roster, _, _ := s.students.List(ctx, repository.StudentFilter{ClassName: className, Limit: 1000})
	subjects, _ := s.exams.SubjectsForClass(ctx, exam.ID, className)
	s.marks.mu.Lock()
	marks := append([]model.Mark(nil), s.marks.marks...)
	s.marks.mu.Unlock()
	return report.Input{ClassName: className, ExamName: exam.Name, Roster: roster, Subjects: subjects, Marks: marks}, nil
}

type memSettings struct {
	mu   sync.Mutex
	rows map[string]string
}

func (m *memSettings) GetAll(_ context.Context) ([]model.AppSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AppSetting
	for k, v := range m.rows {
		out = append(out, model.AppSetting{Key: k, Value: v})
	}
	return out, nil
}

func (m *memSettings) UpsertMany(_ context.Context, settings map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]string{}
	}
	for k, v := range settings {
		m.rows[k] = v
	}
	return nil
}

type memReportCache struct {
	mu       sync.Mutex
	versions map[string]int64
	rosters  map[string]int64
	entries  map[string]*model.Report
}

func newMemReportCache() *memReportCache {
	return &memReportCache{versions: map[string]int64{}, rosters: map[string]int64{}, entries: map[string]*model.Report{}}
}

func (c *memReportCache) Version(_ context.Context, examName, className string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[examName+"/"+className] + c.rosters[className], nil
}

func (c *memReportCache) Get(_ context.Context, key string) (*model.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memReportCache) Set(_ context.Context, key string, rep *model.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = rep
	return nil
}

func (c *memReportCache) ReportChanged(_ context.Context, examName, className string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[examName+"/"+className]++
	return nil
}

func (c *memReportCache) RosterChanged(_ context.Context, className string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rosters[className]++
	return nil
}

type memOperators struct {
	mu  sync.Mutex
	ops map[string]*model.Operator
}

func (m *memOperators) GetByUsername(_ context.Context, username string) (*model.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if op, ok := m.ops[username]; ok {
		cp := *op
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memOperators) GetByID(_ context.Context, id int) (*model.Operator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.ops {
		if op.ID == id {
			cp := *op
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOperators) Upsert(_ context.Context, o *model.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ops == nil {
		m.ops = map[string]*model.Operator{}
	}
	if existing, ok := m.ops[o.Username]; ok {
		o.ID = existing.ID
	} else {
		o.ID = len(m.ops) + 1
	}
	cp := *o
	m.ops[o.Username] = &cp
	return nil
}

type memExportJobs struct {
	mu    sync.Mutex
	jobs  map[string]model.ExportJob
	queue []string
}

func newMemExportJobs() *memExportJobs {
	return &memExportJobs{jobs: map[string]model.ExportJob{}}
}

func (m *memExportJobs) Save(_ context.Context, job *model.ExportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memExportJobs) Get(_ context.Context, id string) (*model.ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrExportNotFound
	}
	return &job, nil
}

func (m *memExportJobs) Enqueue(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, id)
	return nil
}

type memQuickResults struct {
	results []model.QuickResult
}

func (m *memQuickResults) Create(_ context.Context, q *model.QuickResult) error {
	q.ID = len(m.results) + 1
	m.results = append(m.results, *q)
	return nil
}

func (m *memQuickResults) Search(_ context.Context, term string, limit int) ([]model.QuickResult, error) {
	var out []model.QuickResult
	for _, r := range m.results {
		if term == "" || strings.Contains(strings.ToLower(r.Name), strings.ToLower(term)) {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func intPtr(v int) *int { return &v }
