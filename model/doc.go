// Package model defines the provider-agnostic gateway for language model
// backends.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Select interchangeable backends by logical name via a Registry
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (Gemini, OpenAI, Anthropic) implement the Model interface from
// this package so the pipelines remain decoupled from vendor SDKs. The
// gateway is stateless across calls: all conversational context is supplied
// by the caller in Request.Messages.
package model
