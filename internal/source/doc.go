// Package source classifies and resolves transcription inputs.
//
// Classify turns the CLI's --file-path/--url pair into a tagged Source
// (local file, direct media URL, or video-hosting page) exactly once;
// Resolver then materializes that Source as a local audio path, fetching
// remote sources into a staging directory and validating the result with
// ffprobe before transcription is attempted.
package source
