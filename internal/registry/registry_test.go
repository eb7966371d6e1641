package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, ValidateList(Defaults()))
}

func TestValidateRejectsBadDestinations(t *testing.T) {
	tests := []struct {
		name string
		dest Destination
	}{
		{
			name: "empty id",
			dest: Destination{ID: " ", NewConversationURL: "https://a.example/", InputLocator: "textarea", SubmitLocator: "button"},
		},
		{
			name: "relative url",
			dest: Destination{ID: "x", NewConversationURL: "/chat", InputLocator: "textarea", SubmitLocator: "button"},
		},
		{
			name: "missing input locator",
			dest: Destination{ID: "x", NewConversationURL: "https://a.example/", SubmitLocator: "button"},
		},
		{
			name: "missing submit locator",
			dest: Destination{ID: "x", NewConversationURL: "https://a.example/", InputLocator: "textarea"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.dest.Validate())
		})
	}
}

func TestValidateListRejectsDuplicateIDs(t *testing.T) {
	dests := []Destination{
		{ID: "a", NewConversationURL: "https://a.example/", InputLocator: "textarea", SubmitLocator: "button"},
		{ID: "a", NewConversationURL: "https://b.example/", InputLocator: "textarea", SubmitLocator: "button"},
	}
	assert.Error(t, ValidateList(dests))
}

func TestResolvePreservesRequestOrderAndDropsUnknown(t *testing.T) {
	dests := Defaults()

	resolved := Resolve(dests, []string{"gemini", "nope", "chatgpt", "gemini"})
	require.Len(t, resolved, 2)
	assert.Equal(t, "gemini", resolved[0].ID)
	assert.Equal(t, "chatgpt", resolved[1].ID)
}

func TestResolveIgnoresEnabledFlag(t *testing.T) {
	dests := Defaults()
	require.True(t, SetEnabled(dests, "chatgpt", false))

	// Selection is caller intent, not registry state.
	resolved := Resolve(dests, []string{"chatgpt"})
	require.Len(t, resolved, 1)
	assert.False(t, resolved[0].Enabled)
}

func TestSetEnabledUnknownID(t *testing.T) {
	assert.False(t, SetEnabled(Defaults(), "nope", true))
}

func TestReorder(t *testing.T) {
	dests := []Destination{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	out := Reorder(dests, []string{"c", "a", "ghost"})
	require.Len(t, out, 3)
	assert.Equal(t, "c", out[0].ID)
	assert.Equal(t, "a", out[1].ID)
	assert.Equal(t, "b", out[2].ID)
}
