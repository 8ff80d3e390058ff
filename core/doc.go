// Package core defines the shared domain contracts of the interactive-learning
// orchestration core: role-tagged conversation messages, search result tuples,
// the artifact persistence interface and the error taxonomy used across the
// pipelines. Higher layers (model, pipeline, search, retrieval) depend on this
// package so they stay decoupled from each other and from concrete backends.
package core
