package notify

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Notify(Notification{Level: LevelLoading, Message: MsgPreparingShare, Key: KeyShare})
	r.Destroy(KeyShare)
	r.Notify(Notification{Level: LevelSuccess, Message: MsgShareSuccess})

	events := r.Events()
	require.Len(t, events, 3)
	assert.True(t, events[1].Destroyed)
	assert.Equal(t, KeyShare, events[1].Key)

	assert.Equal(t, []Level{LevelLoading, LevelSuccess}, r.Levels())
	assert.Equal(t, 1, r.Count(LevelSuccess))
	assert.Equal(t, 0, r.Count(LevelError))

	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, MsgShareSuccess, last.Message)

	r.Reset()
	_, ok = r.Last()
	assert.False(t, ok)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))

	n.Notify(Notification{Level: LevelWarning, Message: MsgNoData})
	n.Notify(Notification{Level: LevelError, Message: MsgExportError, Key: KeyExport})
	n.Notify(Notification{Level: LevelLoading, Message: MsgPreparingExport})

	out := buf.String()
	assert.Contains(t, out, MsgNoData)
	assert.Contains(t, out, MsgExportError)
	assert.Contains(t, out, "key=export")
	assert.NotContains(t, out, MsgPreparingExport, "loading messages log at debug")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "loading", LevelLoading.String())
	assert.Equal(t, "success", LevelSuccess.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "error", LevelError.String())
}
