package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"promptfan/internal/orchestrator"
	"promptfan/internal/registry"
	"promptfan/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	gotQuery string
	gotIDs   []string
	outcomes []orchestrator.Outcome
	err      error
}

func (f *fakeSubmitter) Submit(_ context.Context, query string, ids []string) ([]orchestrator.Outcome, error) {
	f.gotQuery = query
	f.gotIDs = ids
	return f.outcomes, f.err
}

type fakeSource struct {
	state   store.State
	loadErr error
	cleared bool
}

func (f *fakeSource) Load() (store.State, error) { return f.state, f.loadErr }

func (f *fakeSource) ClearHistory() error {
	f.cleared = true
	return nil
}

func newDispatcher(sub *fakeSubmitter, src *fakeSource) *Dispatcher {
	d := NewDispatcher()
	Register(d, sub, src)
	return d
}

func submitReq(t *testing.T, query string, ids []string) Request {
	t.Helper()
	payload, err := json.Marshal(SubmitPayload{Query: query, DestinationIDs: ids})
	require.NoError(t, err)
	return Request{Type: TypeSubmitQuery, Payload: payload}
}

func TestDispatchUnknownTypeNamesTheTag(t *testing.T) {
	d := newDispatcher(&fakeSubmitter{}, &fakeSource{})

	res := d.Dispatch(context.Background(), Request{Type: "OPEN_PORTAL"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "OPEN_PORTAL")
}

func TestDispatchSubmitQuery(t *testing.T) {
	sub := &fakeSubmitter{outcomes: []orchestrator.Outcome{
		{Destination: "chatgpt", Placed: true, Injected: true},
	}}
	d := newDispatcher(sub, &fakeSource{})

	res := d.Dispatch(context.Background(), submitReq(t, "what is raft", []string{"chatgpt"}))
	require.True(t, res.Success, "error: %s", res.Error)
	assert.Equal(t, "what is raft", sub.gotQuery)
	assert.Equal(t, []string{"chatgpt"}, sub.gotIDs)
}

func TestDispatchSubmitValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"empty query", orchestrator.ErrEmptyQuery, "query is empty"},
		{"no selection", orchestrator.ErrNoDestinations, "no destinations selected"},
		{"all unknown", orchestrator.ErrNoValidDestinations, "no valid destinations selected"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDispatcher(&fakeSubmitter{err: tc.err}, &fakeSource{})
			res := d.Dispatch(context.Background(), submitReq(t, "q", []string{"x"}))
			assert.False(t, res.Success)
			assert.Equal(t, tc.want, res.Error)
		})
	}
}

func TestDispatchSubmitMalformedPayload(t *testing.T) {
	d := newDispatcher(&fakeSubmitter{}, &fakeSource{})

	res := d.Dispatch(context.Background(), Request{
		Type:    TypeSubmitQuery,
		Payload: json.RawMessage(`{"query": 42}`),
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "malformed submit payload")
}

func TestDispatchListProviders(t *testing.T) {
	src := &fakeSource{state: store.State{
		Destinations: []registry.Destination{{ID: "claude", DisplayName: "Claude"}},
	}}
	d := newDispatcher(&fakeSubmitter{}, src)

	res := d.Dispatch(context.Background(), Request{Type: TypeListProviders})
	require.True(t, res.Success)
	listing, isListing := res.Data.(providerListing)
	require.True(t, isListing)
	require.Len(t, listing.Providers, 1)
	assert.Equal(t, "claude", listing.Providers[0].ID)
}

func TestDispatchListProvidersLoadError(t *testing.T) {
	d := newDispatcher(&fakeSubmitter{}, &fakeSource{loadErr: errors.New("disk gone")})

	res := d.Dispatch(context.Background(), Request{Type: TypeListProviders})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk gone")
}

func TestDispatchHistoryRoundTrip(t *testing.T) {
	src := &fakeSource{state: store.State{History: []string{"newest", "older"}}}
	d := newDispatcher(&fakeSubmitter{}, src)

	res := d.Dispatch(context.Background(), Request{Type: TypeListHistory})
	require.True(t, res.Success)
	assert.Equal(t, historyListing{History: []string{"newest", "older"}}, res.Data)

	res = d.Dispatch(context.Background(), Request{Type: TypeClearHistory})
	require.True(t, res.Success)
	assert.True(t, src.cleared)
}

func TestDispatchRawMalformedJSON(t *testing.T) {
	d := newDispatcher(&fakeSubmitter{}, &fakeSource{})

	res := d.DispatchRaw(context.Background(), []byte(`{not json`))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "malformed request")
}

func TestDispatchRawRoutesByTag(t *testing.T) {
	d := newDispatcher(&fakeSubmitter{}, &fakeSource{state: store.State{History: []string{}}})

	res := d.DispatchRaw(context.Background(), []byte(`{"type":"LIST_HISTORY"}`))
	assert.True(t, res.Success)
}
