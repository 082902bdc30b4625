package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
	"github.com/stemsi/resultbook/internal/service"
	ws "github.com/stemsi/resultbook/internal/websocket"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeUpdates struct {
	events *eventLog
	ch     chan *redis.Message
	once   sync.Once
	done   chan struct{}
}

func (f *fakeUpdates) Receive(context.Context) (interface{}, error) {
	f.events.add("subscribed")
	return &redis.Subscription{Kind: "subscribe", Count: 2}, nil
}

func (f *fakeUpdates) Channel(...redis.ChannelOption) <-chan *redis.Message { return f.ch }

func (f *fakeUpdates) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

func (f *fakeUpdates) closed() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

type fakeSubscriber struct{ updates *fakeUpdates }

func (f fakeSubscriber) Subscribe(context.Context, string, string) service.ReportUpdates {
	return f.updates
}

// loggingSource records every build. mu guards the stubs it reads.
type loggingSource struct {
	stubSource
	events *eventLog
	mu     *sync.Mutex
}

func (s loggingSource) LoadInput(ctx context.Context, exam *model.Exam, className string) (report.Input, error) {
	s.events.add("build")
	s.mu.Lock()
	defer s.mu.Unlock()
	in, err := s.stubSource.LoadInput(ctx, exam, className)
	in.Marks = append([]model.Mark(nil), in.Marks...)
	return in, err
}

type streamServer struct {
	url      string
	mu       *sync.Mutex
	events   *eventLog
	updates  *fakeUpdates
	students *stubStudents
	marks    *stubMarks
}

func newStreamServer(t *testing.T) *streamServer {
	t.Helper()
	log := zerolog.New(io.Discard)
	events := &eventLog{}
	updates := &fakeUpdates{events: events, ch: make(chan *redis.Message, 1), done: make(chan struct{})}
	students := &stubStudents{}
	exams := newStubExams()
	marks := &stubMarks{}
	cfg := &config.Config{GradingPolicy: "percentage", ReportTotalMaxMode: "mark_driven"}

	examSvc := service.NewExamService(exams, nil, log)
	settingSvc := service.NewSettingService(stubSettings{}, cfg, log)
	mu := &sync.Mutex{}
	source := loggingSource{stubSource: stubSource{students, exams, marks}, events: events, mu: mu}
	reportSvc := service.NewReportService(examSvc, source, settingSvc, nil, log)

	r := gin.New()
	r.GET("/stream", NewWSHandler(reportSvc, fakeSubscriber{updates}, log, nil).ReportStream)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &streamServer{
		url:      "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream",
		mu:       mu,
		events:   events,
		updates:  updates,
		students: students,
		marks:    marks,
	}
}

func readReportEvent(t *testing.T, conn *websocket.Conn) ws.ReportEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev ws.ReportEvent
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, ws.EventReport, ev.Event)
	require.NotNil(t, ev.Report)
	return ev
}

func TestReportStreamSubscribesBeforeInitialBuild(t *testing.T) {
	s := newStreamServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(s.url+"?class_name=5A&exam_name=PT1", nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()

	initial := readReportEvent(t, conn)
	assert.Equal(t, "initial", initial.Reason)
	assert.True(t, initial.Report.Empty)
	assert.Equal(t, []string{"subscribed", "build"}, s.events.list())

	s.mu.Lock()
	s.students.students = append(s.students.students, model.Student{ID: 1, AdmissionNo: "2025-001", Name: "Alice", ClassName: "5A"})
	s.marks.marks = append(s.marks.marks, model.Mark{ID: 1, AdmissionNo: "2025-001", ExamSubjectID: 10, Score: 40})
	s.mu.Unlock()
	s.updates.ch <- &redis.Message{Channel: "report:PT1:5A:updates", Payload: "1"}

	updated := readReportEvent(t, conn)
	assert.Equal(t, "update", updated.Reason)
	require.Len(t, updated.Report.Rows, 1)
	assert.Equal(t, "Alice", updated.Report.Rows[0].Name)
	assert.Equal(t, 80.0, updated.Report.Rows[0].Percentage)

	require.NoError(t, conn.Close())
	assert.Eventually(t, s.updates.closed, 5*time.Second, 10*time.Millisecond)
}

func TestReportStreamUnknownExam(t *testing.T) {
	s := newStreamServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(s.url+"?class_name=5A&exam_name=NOPE", nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Eventually(t, s.updates.closed, 5*time.Second, 10*time.Millisecond)
}
