package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/response"
	"github.com/stemsi/resultbook/internal/service"
	"github.com/stemsi/resultbook/internal/validator"
	ws "github.com/stemsi/resultbook/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ReportSubscriber delivers a message whenever the report of an exam and class changes.
type ReportSubscriber interface {
	Subscribe(ctx context.Context, examName, className string) service.ReportUpdates
}

// WSHandler pushes live report updates to dashboards.
type WSHandler struct {
	reportService *service.ReportService
	updates       ReportSubscriber
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(reportService *service.ReportService, updates ReportSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		reportService: reportService,
		updates:       updates,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// ReportStream godoc
// WS /ws/v1/reports/stream?class_name=5A&exam_name=PT1
// Sends the current report, then a rebuilt one after every marks, subject
// or roster write for the pair.
func (h *WSHandler) ReportStream(c *gin.Context) {
	var q model.ReportQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// The subscription is confirmed before the initial build so no write
	// between the two goes unannounced.
	sub := h.updates.Subscribe(ctx, q.ExamName, q.ClassName)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		respondError(c, h.log, fmt.Errorf("subscribe report updates: %w", err))
		return
	}

	// Resolve the exam before upgrading so unknown exams get a plain 404.
	rep, err := h.reportService.Build(ctx, q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("exam_name", q.ExamName).
		Str("class_name", q.ClassName).
		Logger()
	wsLog.Info().Msg("Report viewer connected")

	if err := ws.WriteReport(conn, "initial", rep); err != nil {
		return
	}

	// Only this goroutine writes to conn; the reader forwards actions.
	actions := make(chan ws.Action, 4)
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	updates := sub.Channel()
	for {
		var reason string
		select {
		case <-ctx.Done():
			wsLog.Debug().Msg("Report viewer disconnected")
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			reason = "update"
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
					return
				}
				continue
			case ws.ActionRefresh:
				reason = "refresh"
			default:
				if err := ws.WriteError(conn, "unknown action"); err != nil {
					return
				}
				continue
			}
		}

		rep, err := h.reportService.Build(ctx, q)
		if err != nil {
			wsLog.Error().Err(err).Msg("Failed to rebuild report")
			if err := ws.WriteError(conn, "failed to build report"); err != nil {
				return
			}
			continue
		}
		if err := ws.WriteReport(conn, reason, rep); err != nil {
			return
		}
	}
}
