// Package registry holds the catalog of chat-assistant destinations a query
// can be fanned out to. Selectors are best-effort heuristics against pages
// whose markup this tool does not control.
package registry

import (
	"fmt"
	"net/url"
	"strings"
)

// Destination describes one target chat page: where to open a fresh
// conversation and how to find its input and submit controls.
type Destination struct {
	ID                 string `json:"id" yaml:"id"`
	DisplayName        string `json:"display_name" yaml:"display_name"`
	NewConversationURL string `json:"new_conversation_url" yaml:"new_conversation_url"`
	InputLocator       string `json:"input_locator" yaml:"input_locator"`
	SubmitLocator      string `json:"submit_locator" yaml:"submit_locator"`
	Enabled            bool   `json:"enabled" yaml:"enabled"`
	URLMatchPattern    string `json:"url_match_pattern" yaml:"url_match_pattern"`
}

// Validate enforces the structural invariants a destination must satisfy
// before it can be persisted.
func (d Destination) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("destination id is empty")
	}
	if strings.TrimSpace(d.InputLocator) == "" {
		return fmt.Errorf("destination %s: input locator is empty", d.ID)
	}
	if strings.TrimSpace(d.SubmitLocator) == "" {
		return fmt.Errorf("destination %s: submit locator is empty", d.ID)
	}
	u, err := url.Parse(d.NewConversationURL)
	if err != nil {
		return fmt.Errorf("destination %s: invalid url: %w", d.ID, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("destination %s: url %q is not absolute", d.ID, d.NewConversationURL)
	}
	return nil
}

// ValidateList checks every destination and the cross-list uniqueness
// invariant on ids.
func ValidateList(dests []Destination) error {
	seen := make(map[string]bool, len(dests))
	for _, d := range dests {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate destination id: %s", d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// Resolve maps requested ids to destinations, preserving request order.
// Unknown ids are dropped silently; the caller decides whether an empty
// result is an error. The caller-supplied id list is authoritative: a
// destination's Enabled flag is not consulted here, it only drives which
// ids UI surfaces offer.
func Resolve(dests []Destination, ids []string) []Destination {
	byID := make(map[string]Destination, len(dests))
	for _, d := range dests {
		byID[d.ID] = d
	}

	resolved := make([]Destination, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if d, ok := byID[id]; ok {
			resolved = append(resolved, d)
		}
	}
	return resolved
}

// SetEnabled toggles a destination in place. Returns false if the id is
// unknown.
func SetEnabled(dests []Destination, id string, enabled bool) bool {
	for i := range dests {
		if dests[i].ID == id {
			dests[i].Enabled = enabled
			return true
		}
	}
	return false
}

// Reorder rearranges destinations to match the given id order. Ids not in
// the list keep their relative order after the reordered ones; unknown ids
// are ignored.
func Reorder(dests []Destination, order []string) []Destination {
	byID := make(map[string]Destination, len(dests))
	for _, d := range dests {
		byID[d.ID] = d
	}

	out := make([]Destination, 0, len(dests))
	placed := make(map[string]bool, len(dests))
	for _, id := range order {
		if d, ok := byID[id]; ok && !placed[id] {
			out = append(out, d)
			placed[id] = true
		}
	}
	for _, d := range dests {
		if !placed[d.ID] {
			out = append(out, d)
		}
	}
	return out
}
