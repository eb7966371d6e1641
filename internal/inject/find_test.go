package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidatesPutDestinationSelectorsFirst(t *testing.T) {
	sels := candidates("#prompt, div.editor", []string{"textarea", "div.editor"})

	assert.Equal(t, []string{"#prompt", "div.editor", "textarea"}, sels)
}

func TestCandidatesSkipEmptyParts(t *testing.T) {
	sels := candidates(" , #a,, ", []string{"#b"})

	assert.Equal(t, []string{"#a", "#b"}, sels)
}

func TestCandidatesGenericOnlyWhenLocatorEmpty(t *testing.T) {
	sels := candidates("", genericInputSelectors)

	assert.Equal(t, genericInputSelectors, sels)
}
