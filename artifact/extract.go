package artifact

import "strings"

// OpeningMarker is the fenced marker a model response must contain to be
// treated as interactive output. The routing contract asks the model to wrap
// component source in this fence.
const OpeningMarker = "```interactive"

// closingFence terminates the interactive block. Anything after it is dropped.
const closingFence = "```"

// Extraction is the result of splitting a raw model response.
//
// Invariant: when the raw response contains no recognizable interactive
// marker, Narrative equals the full response and Code/Document are empty.
type Extraction struct {
	Narrative string // Text portion, trimmed
	Code      string // Raw interactive component source, trimmed
	Document  string // Fully-assembled standalone document (set by Build)
	Ref       string // Storage reference, if persisted
	Malformed bool   // Marker present but no reachable closing fence
}

// HasMarker reports whether the raw response opens an interactive code block.
func HasMarker(raw string) bool {
	return strings.Contains(raw, OpeningMarker)
}

// Extract splits a raw model response into narrative text and interactive
// component source.
//
// Marker absent: Narrative is the full response verbatim. Marker present but
// no closing fence after it: Malformed is set and Narrative is the full
// response unchanged, so callers never see a partial or garbled split.
func Extract(raw string) Extraction {
	idx := strings.Index(raw, OpeningMarker)
	if idx < 0 {
		return Extraction{Narrative: raw}
	}
	rest := raw[idx+len(OpeningMarker):]
	end := strings.Index(rest, closingFence)
	if end < 0 {
		return Extraction{Narrative: raw, Malformed: true}
	}
	return Extraction{
		Narrative: strings.TrimSpace(raw[:idx]),
		Code:      strings.TrimSpace(rest[:end]),
	}
}
