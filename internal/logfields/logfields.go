package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyRepo       = "repository"
	KeyBranch     = "branch"
	KeyStage      = "stage"
	KeyPageID     = "page_id"
	KeyPageTitle  = "page_title"
	KeyAttempt    = "attempt"
	KeyEventType  = "event_type"
	KeyAction     = "action"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func PageID(id string) slog.Attr      { return slog.String(KeyPageID, id) }
func PageTitle(t string) slog.Attr    { return slog.String(KeyPageTitle, t) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func EventType(t string) slog.Attr    { return slog.String(KeyEventType, t) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// HTTP request helpers shared by server middleware.
func Method(m string) slog.Attr     { return slog.String("method", m) }
func Path(p string) slog.Attr       { return slog.String("path", p) }
func HTTPStatus(c int) slog.Attr    { return slog.Int("status", c) }
func UserAgent(ua string) slog.Attr { return slog.String("user_agent", ua) }
func RemoteAddr(a string) slog.Attr { return slog.String("remote_addr", a) }
