package dispatch

import (
	"context"
	"encoding/json"
	"errors"

	"promptfan/internal/orchestrator"
	"promptfan/internal/registry"
	"promptfan/internal/store"
)

// Request type tags.
const (
	TypeSubmitQuery   = "SUBMIT_QUERY"
	TypeListProviders = "LIST_PROVIDERS"
	TypeListHistory   = "LIST_HISTORY"
	TypeClearHistory  = "CLEAR_HISTORY"
)

// SubmitPayload carries a query and the destinations to fan it out to.
type SubmitPayload struct {
	Query          string   `json:"query"`
	DestinationIDs []string `json:"destinationIds"`
}

// Submitter runs a fan-out submission; satisfied by orchestrator.Orchestrator.
type Submitter interface {
	Submit(ctx context.Context, query string, ids []string) ([]orchestrator.Outcome, error)
}

// ProviderSource lists the configured destinations and the query history.
type ProviderSource interface {
	Load() (store.State, error)
	ClearHistory() error
}

// Register wires the standard handler set onto the dispatcher.
func Register(d *Dispatcher, sub Submitter, src ProviderSource) {
	d.Handle(TypeSubmitQuery, submitHandler(sub))
	d.Handle(TypeListProviders, listProvidersHandler(src))
	d.Handle(TypeListHistory, listHistoryHandler(src))
	d.Handle(TypeClearHistory, clearHistoryHandler(src))
}

// submitHandler validates the payload and runs the submission. Validation
// failures come back as structured errors; per-destination injection
// failures do not fail the request.
func submitHandler(sub Submitter) Handler {
	return func(ctx context.Context, payload json.RawMessage) Response {
		var p SubmitPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fail("malformed submit payload: %v", err)
		}
		outcomes, err := sub.Submit(ctx, p.Query, p.DestinationIDs)
		switch {
		case errors.Is(err, orchestrator.ErrEmptyQuery),
			errors.Is(err, orchestrator.ErrNoDestinations),
			errors.Is(err, orchestrator.ErrNoValidDestinations):
			return fail("%s", err)
		case err != nil:
			return fail("submission failed: %v", err)
		}
		return ok(outcomes)
	}
}

type providerListing struct {
	Providers []registry.Destination `json:"providers"`
}

func listProvidersHandler(src ProviderSource) Handler {
	return func(context.Context, json.RawMessage) Response {
		state, err := src.Load()
		if err != nil {
			return fail("load state: %v", err)
		}
		return ok(providerListing{Providers: state.Destinations})
	}
}

type historyListing struct {
	History []string `json:"history"`
}

func listHistoryHandler(src ProviderSource) Handler {
	return func(context.Context, json.RawMessage) Response {
		state, err := src.Load()
		if err != nil {
			return fail("load state: %v", err)
		}
		return ok(historyListing{History: state.History})
	}
}

func clearHistoryHandler(src ProviderSource) Handler {
	return func(context.Context, json.RawMessage) Response {
		if err := src.ClearHistory(); err != nil {
			return fail("clear history: %v", err)
		}
		return ok(nil)
	}
}
