// Package logtail reads the tail of docket's log file and splits slog text
// records into fields for the activity overlay.
//
// Read keeps a ring buffer of maxLines entries, so memory is bounded by the
// number of lines requested rather than by file size. A missing file is not
// an error; it simply has no lines yet.
//
//	lines, err := logtail.Read(cfg.LogPath(), 200)
//	entries := logtail.ParseLines(lines)
//
// Parse understands the key=value format written by slog.TextHandler. Lines
// that do not fit (a panic trace, say) are kept verbatim in Message.
package logtail
