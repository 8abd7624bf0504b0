// Package services defines shared utilities consumed by the transcription
// pipeline and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (usage, not found, fetch, probe, transcription)
//     consistent across the CLI.
//   - Exit-code plumbing so the process can mirror a failing external
//     tool's status.
//   - A synchronous command runner that converts subprocess exits into a
//     structured {exit code, stdout, stderr} result at a single point.
package services
