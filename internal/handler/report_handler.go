package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/report"
	"github.com/stemsi/resultbook/internal/response"
	"github.com/stemsi/resultbook/internal/service"
	"github.com/stemsi/resultbook/internal/validator"
)

// ReportHandler serves class reports and their spreadsheet exports.
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
	log           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		log:           log.With().Str("component", "report_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/reports?class_name=5A&exam_name=PT1&mode=mark_driven
// Returns the ranked report. A class without data yields an empty report, not an error.
func (h *ReportHandler) Get(c *gin.Context) {
	var q model.ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rep, err := h.reportService.Build(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Report(c, rep)
}

// ExportXLSX godoc
// GET /api/v1/reports/export.xlsx?class_name=5A&exam_name=PT1
// Streams the report as a workbook. Refused with NO_DATA when the report is empty.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	var q model.ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	rep, err := h.reportService.Build(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if rep.Empty {
		response.FailNoData(c, rep.ClassName, rep.ExamName)
		return
	}

	name := report.ExportFileName(rep.ClassName, rep.ExamName, time.Now())
	response.Workbook(c, name)
	if err := report.WriteWorkbook(c.Writer, rep.Rows); err != nil {
		// Headers are already out; all we can do is log.
		log := response.Logger(c, h.log)
		log.Error().Err(err).Str("file", name).Msg("failed to stream workbook")
	}
}

// CreateExport godoc
// POST /api/v1/reports/exports
// Queues a workbook export for the export worker.
func (h *ReportHandler) CreateExport(c *gin.Context) {
	var q model.ReportQuery
	if fields := validator.Bind(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.exportService.Enqueue(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// ExportStatus godoc
// GET /api/v1/reports/exports/:id
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	job, err := h.exportService.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"job": job})
}

// ExportFile godoc
// GET /api/v1/reports/exports/:id/file
func (h *ReportHandler) ExportFile(c *gin.Context) {
	path, name, err := h.exportService.File(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Type", response.ContentTypeXLSX)
	c.FileAttachment(path, name)
}
