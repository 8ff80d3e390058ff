// Package artifact turns model output into self-contained, browser-renderable
// documents.
//
// Extract separates narrative text from an embedded interactive code block.
// Package assembles the extracted component source into a complete standalone
// HTML document with charting, diagramming and mapping libraries loaded by
// CDN reference. Store implementations persist packaged documents; the
// canonical ArtifactStore interface lives in the core package so callers can
// substitute alternative persistence layers in tests or production.
package artifact
