package websocket

import "github.com/stemsi/resultbook/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
)

// RequestEnvelope is the only client message shape; actions carry no payload.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReport Event = "report"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

// ReportEvent carries a freshly built report. Reason is "initial", "update"
// or "refresh".
type ReportEvent struct {
	Event  Event         `json:"event"`
	Reason string        `json:"reason"`
	Report *model.Report `json:"report"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
