// Package pipeline contains the two finite-state machines that turn an
// inbound query into a final response: the conversation pipeline
// (route -> generate -> extract) and the research pipeline
// (plan -> search -> synthesize).
//
// Each stage is a step function over exclusively-owned state; callers create
// one fresh state per request and the step functions record their progress in
// an append-only status trail returned to the caller. All external calls
// (model invocation, web search, artifact storage) go through injected
// interfaces so both machines are testable without any network dependency.
package pipeline
