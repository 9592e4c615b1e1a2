// Package coordinator sequences exports and shares for dashboard widgets.
//
// A coordinator owns one busy flag per widget. Every operation runs the same
// steps:
//
//  1. Guard: missing table rows or a detached graph element produce a
//     warning notification and an unsuccessful [Outcome]; the flag is not
//     raised.
//  2. Raise the flag and show a keyed "preparing" notification.
//  3. Encode the artifact. Exports then save it through the downloader;
//     shares hand it to the [share.Dispatcher].
//  4. Replace the preparing message with a success or error notification.
//     A share the user cancelled produces no notification at all.
//  5. Lower the flag on every exit path.
//
// A second call while the flag is raised is rejected with
// ALREADY_IN_PROGRESS instead of racing the first.
//
// [ForKind] picks the coordinator matching a widget kind.
package coordinator

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/notify"
	"github.com/matzehuels/widgetshare/pkg/observability"
	"github.com/matzehuels/widgetshare/pkg/share"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// Deps are the collaborators a coordinator works with. Nil fields get
// defaults: a default encoder, a dispatcher without native share support
// that saves through Downloader, a discarding notifier and logger.
type Deps struct {
	Encoder    *export.Encoder
	Dispatcher *share.Dispatcher
	Downloader share.Downloader
	Notifier   notify.Notifier
	Logger     *log.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Encoder == nil {
		d.Encoder = export.NewEncoder(export.WithLogger(d.Logger))
	}
	if d.Notifier == nil {
		d.Notifier = notify.Discard
	}
	if d.Dispatcher == nil {
		d.Dispatcher = share.NewDispatcher(nil, d.Downloader, share.WithDispatcherLogger(d.Logger))
	}
	return d
}

// Outcome is the result of one coordinator operation.
type Outcome struct {
	Success   bool
	Cancelled bool
	Kind      widget.Kind
	Artifact  *export.Artifact
	Share     share.Result // set by share operations that reached the dispatcher
	Err       error
}

// failed shapes a failed operation on a widget of the given kind. A nil err
// becomes an internal error so failures always carry a cause.
func failed(kind widget.Kind, err error) Outcome {
	r := export.ErrorResult(err, kind)
	return Outcome{Kind: r.Kind, Err: r.Err}
}

// Result returns the outcome in the export result shape.
func (o Outcome) Result() export.Result {
	return export.Result{Success: o.Success, Artifact: o.Artifact, Err: o.Err, Kind: o.Kind}
}

// Message returns the user-facing error text, or "" on success.
func (o Outcome) Message() string { return o.Result().Message() }

// core holds what table and graph coordinators share.
type core struct {
	deps Deps
	busy Busy
}

func newCore(deps Deps) *core {
	return &core{deps: deps.withDefaults()}
}

// IsExporting reports whether an export or share is in flight.
func (c *core) IsExporting() bool { return c.busy.Busy() }

// Subscribe calls fn whenever the busy flag changes.
func (c *core) Subscribe(fn func(bool)) (unsubscribe func()) { return c.busy.Subscribe(fn) }

func (c *core) notify(level notify.Level, msg, key string) {
	c.deps.Notifier.Notify(notify.Notification{Level: level, Message: msg, Key: key})
}

// guardFailed reports a missing input without raising the flag.
func (c *core) guardFailed(kind widget.Kind, err error, msg string) Outcome {
	c.notify(notify.LevelWarning, msg, "")
	return failed(kind, err)
}

func (c *core) inProgress(kind widget.Kind) Outcome {
	c.deps.Logger.Debug("operation rejected, another one is in flight")
	return failed(kind, errors.New(errors.ErrCodeAlreadyInProgress, "an export or share is already in progress"))
}

// fail surfaces err under key. Validation and missing-element errors are
// warnings carrying their own message; everything else is logged and shown
// as the generic message.
func (c *core) fail(err error, key, generic string, kv ...any) {
	if errors.IsWarning(err) {
		c.notify(notify.LevelWarning, errors.UserMessage(err), key)
		return
	}
	c.deps.Logger.Error(generic, append(kv, "err", err)...)
	c.notify(notify.LevelError, generic, key)
}

type encodeFunc func(ctx context.Context) (*export.Artifact, error)

// export runs encode and saves the artifact to the device.
func (c *core) export(ctx context.Context, kind widget.Kind, f widget.Format, encode encodeFunc) Outcome {
	if !c.busy.TryStart() {
		return c.inProgress(kind)
	}
	defer c.busy.Done()

	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, kind.String(), f.String())
	c.notify(notify.LevelLoading, notify.MsgPreparingExport, notify.KeyExport)

	a, err := encode(ctx)
	if err == nil {
		err = c.download(ctx, a)
	}
	hooks.OnExportComplete(ctx, kind.String(), f.String(), a.Size(), time.Since(start), err)

	if err != nil {
		c.fail(err, notify.KeyExport, notify.MsgExportError, "widget", kind, "format", f)
		return failed(kind, err)
	}

	c.deps.Logger.Debug("export complete", "widget", kind, "file", a.Filename, "bytes", a.Size(), "cached", a.Cached)
	c.notify(notify.LevelSuccess, notify.MsgDownloadSuccess, notify.KeyExport)
	return Outcome{Success: true, Kind: kind, Artifact: a}
}

func (c *core) download(ctx context.Context, a *export.Artifact) error {
	if c.deps.Downloader == nil {
		return errors.New(errors.ErrCodeDownload, "no downloader configured")
	}
	err := c.deps.Downloader.Download(ctx, share.Download{
		Data:        a.Data,
		Filename:    a.Filename,
		ContentType: a.ContentType,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "download %s", a.Filename)
	}
	return nil
}

// share runs encode and hands the artifact to the dispatcher.
func (c *core) share(ctx context.Context, kind widget.Kind, p widget.Platform, title string, encode encodeFunc) Outcome {
	if !c.busy.TryStart() {
		return c.inProgress(kind)
	}
	defer c.busy.Done()

	c.notify(notify.LevelLoading, notify.MsgPreparingShare, notify.KeyShare)

	a, err := encode(ctx)
	if err != nil {
		c.fail(err, notify.KeyShare, notify.MsgShareError, "widget", kind, "platform", p)
		return failed(kind, err)
	}
	c.deps.Notifier.Destroy(notify.KeyShare)

	res, err := c.deps.Dispatcher.Share(ctx, a, p, title)
	out := Outcome{Kind: kind, Artifact: a, Share: res}
	switch {
	case err != nil:
		c.fail(err, notify.KeyShare, notify.MsgShareError, "widget", kind, "platform", p)
		out.Err = err
	case res.Cancelled:
		out.Cancelled = true
	default:
		c.deps.Logger.Debug("share complete", "widget", kind, "platform", p, "method", res.Method)
		c.notify(notify.LevelSuccess, notify.MsgShareSuccess, "")
		out.Success = true
	}
	return out
}

// unsupported rejects a format the widget kind cannot produce.
func (c *core) unsupported(kind widget.Kind, f widget.Format) Outcome {
	err := errors.New(errors.ErrCodeInvalidFormat, "%s widgets cannot be exported as %s", kind, f)
	c.notify(notify.LevelWarning, errors.UserMessage(err), notify.KeyExport)
	return failed(kind, err)
}
