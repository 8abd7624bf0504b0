// Package staging manages per-run scratch directories for downloaded audio.
//
// A Workspace is acquired at the start of a transcription run and released
// on every exit path; audio worth retaining is copied out before release,
// never left behind by accident. CleanStale sweeps workspaces abandoned by
// interrupted runs out of the staging directory.
package staging
