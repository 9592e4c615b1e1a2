package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/widgetshare/pkg/notify"
)

func TestTermNotifierKeyedLoading(t *testing.T) {
	out, _ := captureOutput(t)
	n := newTermNotifier(context.Background())
	defer n.Close()

	n.Notify(notify.Notification{Level: notify.LevelLoading, Message: notify.MsgPreparingExport, Key: notify.KeyExport})
	if !n.active(notify.KeyExport) {
		t.Fatal("keyed loading should start a spinner")
	}

	n.Notify(notify.Notification{Level: notify.LevelSuccess, Message: notify.MsgDownloadSuccess, Key: notify.KeyExport})
	if n.active(notify.KeyExport) {
		t.Error("notification under the same key should stop the spinner")
	}
	if !strings.Contains(out.String(), notify.MsgDownloadSuccess) {
		t.Errorf("success not printed: %q", out.String())
	}
}

func TestTermNotifierDestroy(t *testing.T) {
	captureOutput(t)
	n := newTermNotifier(context.Background())

	n.Notify(notify.Notification{Level: notify.LevelLoading, Message: notify.MsgPreparingShare, Key: notify.KeyShare})
	n.Destroy(notify.KeyShare)
	if n.active(notify.KeyShare) {
		t.Error("Destroy should stop the spinner")
	}

	// Destroying an unknown key is a no-op.
	n.Destroy("missing")
}

func TestTermNotifierLevels(t *testing.T) {
	out, _ := captureOutput(t)
	n := newTermNotifier(context.Background())
	defer n.Close()

	n.Notify(notify.Notification{Level: notify.LevelLoading, Message: "unkeyed loading"})
	n.Notify(notify.Notification{Level: notify.LevelWarning, Message: notify.MsgNoData})
	n.Notify(notify.Notification{Level: notify.LevelError, Message: notify.MsgShareError})
	n.Notify(notify.Notification{Level: notify.LevelInfo, Message: "fyi"})

	for _, s := range []string{"unkeyed loading", notify.MsgNoData, notify.MsgShareError, "fyi"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}
	if n.active("") {
		t.Error("unkeyed loading should not start a spinner")
	}
}

func TestTermNotifierClose(t *testing.T) {
	captureOutput(t)
	n := newTermNotifier(context.Background())

	n.Notify(notify.Notification{Level: notify.LevelLoading, Message: "a", Key: "a"})
	n.Notify(notify.Notification{Level: notify.LevelLoading, Message: "b", Key: "b"})
	n.Close()

	if n.active("a") || n.active("b") {
		t.Error("Close should stop every spinner")
	}
}
