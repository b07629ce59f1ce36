// Package logtail reads the tail of telly's JSON log file and renders the
// records as readable lines for the logs subcommand.
//
// Read keeps a ring buffer of the last N lines, so memory stays bounded by
// N rather than by file size. Parse decodes one zap production-encoder
// record; Format applies a minimum level and renders each record as
//
//	2025-10-08 21:01:05 WARN  [telly.browser] search failed query=lost
//
// Lines that are not JSON pass through untouched at info level.
package logtail
