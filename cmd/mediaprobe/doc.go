// Package main hosts the mediaprobe CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into probe
// runs, report rendering, cache maintenance, and configuration scaffolding.
// It centralizes configuration resolution and structured logging setup so
// subcommands can focus on flag wiring and output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
