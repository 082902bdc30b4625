package response

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/resultbook/internal/model"
)

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrDuplicateAdmissionNo)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrDuplicateAdmissionNo, body.Error.Code)
	assert.Equal(t, GetMessage(ErrDuplicateAdmissionNo), body.Error.Message)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, 3, NewPagination(1, 20, 41).TotalPages)
	assert.Equal(t, 0, NewPagination(1, 20, 0).TotalPages)
	assert.Equal(t, 0, NewPagination(1, 0, 10).TotalPages)
}

func TestGetMessageUnknownCode(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("NOPE"))
}

func TestRequestIDReplacesUnsafeClientIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "plain", header: "abc-123_x.y", keep: true},
		{name: "empty", header: ""},
		{name: "spaces", header: "abc 123"},
		{name: "newline", header: "abc\nfake=1"},
		{name: "too long", header: strings.Repeat("a", maxRequestIDLen+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header["X-Request-Id"] = []string{tt.header}
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			if tt.keep {
				assert.Equal(t, tt.header, got)
				return
			}
			assert.NotEqual(t, tt.header, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestReportEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		rep    *model.Report
		notice string
	}{
		{name: "empty", rep: &model.Report{ClassName: "5A", ExamName: "PT1", Empty: true, Rows: []model.ReportRow{}}, notice: NoticeEmptyReport},
		{name: "ranked", rep: &model.Report{ClassName: "5A", ExamName: "PT1", Rows: []model.ReportRow{{Rank: 1, Name: "Alice"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			Report(c, tt.rep)

			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				Data struct {
					Report model.Report `json:"report"`
				} `json:"data"`
				Metadata Metadata `json:"metadata"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.notice, body.Metadata.Notice)
			assert.Equal(t, tt.rep.Empty, body.Data.Report.Empty)
			assert.Len(t, body.Data.Report.Rows, len(tt.rep.Rows))
		})
	}
}

func TestFailNoDataNamesClassAndExam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	FailNoData(c, "6B", "TE1")

	require.Equal(t, http.StatusNotFound, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrNoData, body.Error.Code)
	assert.Equal(t, map[string]string{"class_name": "6B", "exam_name": "TE1"}, body.Error.Fields)
}

func TestWorkbookHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Workbook(c, "5A_PT1_Report_20250309_140507.xlsx")

	assert.Equal(t, ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="5A_PT1_Report_20250309_140507.xlsx"`, w.Header().Get("Content-Disposition"))
}

func TestLoggerCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/reports", func(c *gin.Context) {
		log := Logger(c, zerolog.New(&buf))
		log.Info().Msg("hit")
	})

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("X-Request-ID", "req-9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-9", line["request_id"])
	assert.Equal(t, "/reports", line["path"])
}
