package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError       Event = "error"
	EventPong        Event = "pong"
	EventPlanChanged Event = "plan_changed"
)

// PlanChangedResponse forwards a plan-change notification to the client.
// Payload carries the service-level event as raw JSON; clients refetch
// the plan rather than patching from it.
type PlanChangedResponse struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
