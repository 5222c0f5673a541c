package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID        = "run_id"
	KeyStage        = "stage"
	KeyDurationMS   = "duration_ms"
	KeyRepo         = "repository"
	KeyURL          = "url"
	KeyRef          = "ref"
	KeyPolicy       = "policy"
	KeyRevision     = "revision"
	KeyArchitecture = "architecture"
	KeyVersion      = "version"
	KeyPath         = "path"
	KeyFile         = "file"
	KeyPage         = "page"
	KeyCommand      = "command"
	KeyDir          = "dir"
	KeyCount        = "count"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Ref(r string) slog.Attr          { return slog.String(KeyRef, r) }
func Policy(p string) slog.Attr       { return slog.String(KeyPolicy, p) }
func Revision(r string) slog.Attr     { return slog.String(KeyRevision, r) }
func Architecture(a string) slog.Attr { return slog.String(KeyArchitecture, a) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
