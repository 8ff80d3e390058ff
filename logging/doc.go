// Package logging provides a tiny abstraction over structured loggers so the
// orchestration core can emit diagnostics without binding callers to a single
// logging library. Adapters are provided for the standard library slog and for
// uber-go/zap; NoOpLogger discards everything and is the default in tests.
package logging
