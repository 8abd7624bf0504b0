// Package logging wraps log/slog construction for the CLI.
//
// It builds console or JSON handlers from config, fans output to stderr and
// a log file, and exposes small attribute helpers so call sites stay terse.
package logging
