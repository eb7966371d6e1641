// Package dispatch routes typed control requests to their handlers. It is
// the shared front door for every surface that can ask for a submission:
// the CLI, the HTTP server, and tests.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"promptfan/internal/logging"
)

// Request is a typed control message with a type-specific payload.
type Request struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the uniform reply shape every handler produces.
type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func fail(format string, args ...interface{}) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}

// Handler processes one request type.
type Handler func(ctx context.Context, payload json.RawMessage) Response

// Dispatcher routes requests by their type tag.
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates an empty dispatcher; register handlers with Handle.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string]Handler{}}
}

// Handle registers the handler for a type tag, replacing any previous one.
func (d *Dispatcher) Handle(typ string, h Handler) {
	d.handlers[typ] = h
}

// Dispatch routes the request. An unknown type tag is a structured failure
// naming the tag, never a panic or a dropped reply.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	h, found := d.handlers[req.Type]
	if !found {
		logging.Server("rejected unknown request type %q", req.Type)
		return fail("unknown request type: %s", req.Type)
	}
	return h(ctx, req.Payload)
}

// DispatchRaw decodes a JSON-encoded request and routes it.
func (d *Dispatcher) DispatchRaw(ctx context.Context, raw []byte) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fail("malformed request: %v", err)
	}
	return d.Dispatch(ctx, req)
}
