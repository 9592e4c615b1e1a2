package cli

import (
	"context"
	"sync"

	"github.com/matzehuels/widgetshare/pkg/notify"
)

// termNotifier renders notifications on the terminal. A keyed loading
// notification shows a spinner until another notification under the same
// key replaces it or the key is destroyed.
type termNotifier struct {
	ctx      context.Context
	mu       sync.Mutex
	spinners map[string]*Spinner
}

var _ notify.Notifier = (*termNotifier)(nil)

func newTermNotifier(ctx context.Context) *termNotifier {
	return &termNotifier{ctx: ctx, spinners: make(map[string]*Spinner)}
}

func (n *termNotifier) Notify(note notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if note.Key != "" {
		n.stopLocked(note.Key)
	}

	switch note.Level {
	case notify.LevelLoading:
		if note.Key == "" {
			printInfo("%s", note.Message)
			return
		}
		s := newSpinnerWithContext(n.ctx, note.Message)
		s.Start()
		n.spinners[note.Key] = s
	case notify.LevelSuccess:
		printSuccess("%s", note.Message)
	case notify.LevelWarning:
		printWarning("%s", note.Message)
	case notify.LevelError:
		printError("%s", note.Message)
	default:
		printInfo("%s", note.Message)
	}
}

func (n *termNotifier) Destroy(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopLocked(key)
}

// Close stops every spinner still running.
func (n *termNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for key := range n.spinners {
		n.stopLocked(key)
	}
}

// active reports whether a spinner is running under key.
func (n *termNotifier) active(key string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.spinners[key]
	return ok
}

func (n *termNotifier) stopLocked(key string) {
	if s, ok := n.spinners[key]; ok {
		s.Stop()
		delete(n.spinners, key)
	}
}
