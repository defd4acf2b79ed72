// Package logging assembles the structured slog loggers used across
// mediaprobe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides a capture handler so a probe run can replay its own
// log lines into the rendered report. Prefer these constructors over
// hand-rolled slog setup so every component emits data with the same shape.
package logging
