// Package logging provides structured logging using Go's standard library
// log/slog. It outputs logs in JSON format and is used by the conf package
// for debug traces of configure calls and advisory unused-key reports.
package logging
