package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/repository"
	"github.com/stemsi/resultbook/internal/response"
	"github.com/stemsi/resultbook/internal/service"
)

type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

// errorMappings is checked in order with errors.Is.
var errorMappings = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrInvalidRole, http.StatusBadRequest, response.ErrValidation},
	{service.ErrStudentNotFound, http.StatusNotFound, response.ErrStudentNotFound},
	{service.ErrInvalidAdmissionYear, http.StatusBadRequest, response.ErrInvalidAdmissionYear},
	{service.ErrInvalidClassName, http.StatusBadRequest, response.ErrValidation},
	{repository.ErrDuplicateAdmissionNo, http.StatusConflict, response.ErrDuplicateAdmissionNo},
	{service.ErrSubjectNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrSubjectExists, http.StatusConflict, response.ErrConflict},
	{service.ErrSubjectInUse, http.StatusConflict, response.ErrDependencyExists},
	{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
	{service.ErrExamExists, http.StatusConflict, response.ErrConflict},
	{service.ErrExamHasMarks, http.StatusConflict, response.ErrDependencyExists},
	{service.ErrNoSubjectsSelected, http.StatusBadRequest, response.ErrNoSubjectsSelected},
	{service.ErrDuplicateSubject, http.StatusBadRequest, response.ErrValidation},
	{service.ErrSubjectNotInExam, http.StatusBadRequest, response.ErrSubjectNotInExam},
	{service.ErrScoreOutOfRange, http.StatusBadRequest, response.ErrScoreOutOfRange},
	{service.ErrInvalidSetting, http.StatusBadRequest, response.ErrInvalidSetting},
	{service.ErrExportNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrExportNotReady, http.StatusConflict, response.ErrExportNotReady},
	{service.ErrNoData, http.StatusNotFound, response.ErrNoData},
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
}

// respondError writes the API error for err. Unmapped errors are logged
// and reported as internal errors.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	reqLog := response.Logger(c, log)
	reqLog.Error().Err(err).Msg("request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
