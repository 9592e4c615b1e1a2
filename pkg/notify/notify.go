// Package notify defines the user-feedback collaborator used by coordinators.
//
// A [Notifier] receives short status messages. Messages may carry a key; a
// later message with the same key replaces the earlier one, and [Notifier.Destroy]
// removes whatever is showing under a key. Coordinators use the "export" key
// for the preparing → success/error sequence of an export and the "share" key
// for the preparing message of a share.
//
// The package ships a log-backed notifier for headless use and a [Recorder]
// for tests. The CLI provides a terminal notifier with spinners.
package notify

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelLoading
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelLoading:
		return "loading"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification keys.
const (
	KeyExport = "export"
	KeyShare  = "share"
)

// User-facing messages.
const (
	MsgDownloadSuccess  = "File downloaded successfully."
	MsgShareSuccess     = "Widget shared successfully."
	MsgExportError      = "Unable to export data right now. Please try again."
	MsgShareError       = "Unable to share widget right now. Please try again."
	MsgNoData           = "No data available to export."
	MsgPreparingExport  = "Preparing export..."
	MsgPreparingShare   = "Preparing to share..."
	MsgElementNotFound  = "Graph element not found"
	MsgWidgetNotEnabled = "Export is not available for this widget."
)

// Notification is one user-visible message.
type Notification struct {
	Level   Level
	Message string
	Key     string // optional; replaces any message showing under the same key
}

// Notifier displays notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(n Notification)
	Destroy(key string)
}

// =============================================================================
// Log-backed Notifier
// =============================================================================

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier that logs to l.
// A nil logger discards everything.
func NewLogNotifier(l *log.Logger) *LogNotifier {
	if l == nil {
		l = log.New(io.Discard)
	}
	return &LogNotifier{logger: l}
}

// Notify logs n at a level matching its severity.
func (n *LogNotifier) Notify(note Notification) {
	kv := []any{}
	if note.Key != "" {
		kv = append(kv, "key", note.Key)
	}
	switch note.Level {
	case LevelWarning:
		n.logger.Warn(note.Message, kv...)
	case LevelError:
		n.logger.Error(note.Message, kv...)
	case LevelLoading:
		n.logger.Debug(note.Message, kv...)
	default:
		n.logger.Info(note.Message, kv...)
	}
}

// Destroy is a no-op for log output.
func (n *LogNotifier) Destroy(key string) {
	n.logger.Debug("notification dismissed", "key", key)
}

// =============================================================================
// Discard
// =============================================================================

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) {}
func (discard) Destroy(string)      {}

// =============================================================================
// Recorder
// =============================================================================

// Event is a recorded Notify or Destroy call.
type Event struct {
	Notification
	Destroyed bool // true for Destroy calls; only Key is set
}

// Recorder captures notifications in call order. It is intended for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify records n.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Notification: n})
}

// Destroy records the dismissal of key.
func (r *Recorder) Destroy(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Notification: Notification{Key: key}, Destroyed: true})
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Levels returns the level of every recorded Notify call, skipping Destroy calls.
func (r *Recorder) Levels() []Level {
	var out []Level
	for _, e := range r.Events() {
		if !e.Destroyed {
			out = append(out, e.Level)
		}
	}
	return out
}

// Count returns how many Notify calls had the given level.
func (r *Recorder) Count(level Level) int {
	n := 0
	for _, l := range r.Levels() {
		if l == level {
			n++
		}
	}
	return n
}

// Last returns the most recent Notify call, if any.
func (r *Recorder) Last() (Notification, bool) {
	events := r.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if !events[i].Destroyed {
			return events[i].Notification, true
		}
	}
	return Notification{}, false
}

// Reset clears all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
