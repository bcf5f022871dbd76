// Package logging assembles structured slog loggers shared across regolith
// commands and components.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized field keys so resolver, installer,
// and CLI code tag log lines the same way. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
