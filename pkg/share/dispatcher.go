package share

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/objecturl"
	"github.com/matzehuels/widgetshare/pkg/observability"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// =============================================================================
// States and Methods
// =============================================================================

// State is a step of a single share run.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateNativeSharing
	StateFallbackDownloading
	StateSucceeded
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePreparing:
		return "preparing"
	case StateNativeSharing:
		return "native-sharing"
	case StateFallbackDownloading:
		return "fallback-downloading"
	case StateSucceeded:
		return "succeeded"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Method is the path a share took.
type Method int

const (
	MethodNone Method = iota
	MethodNativeShare
	MethodMailtoFallback
	MethodWhatsAppRedirect
	MethodTelegramRedirect
	MethodDownloadOnly
)

func (m Method) String() string {
	switch m {
	case MethodNativeShare:
		return "native-share"
	case MethodMailtoFallback:
		return "mailto-fallback"
	case MethodWhatsAppRedirect:
		return "whatsapp-redirect"
	case MethodTelegramRedirect:
		return "telegram-redirect"
	case MethodDownloadOnly:
		return "download-only"
	default:
		return ""
	}
}

// fallbackMethod maps a platform to its fallback branch.
func fallbackMethod(p widget.Platform) Method {
	switch p {
	case widget.PlatformEmail:
		return MethodMailtoFallback
	case widget.PlatformWhatsApp:
		return MethodWhatsAppRedirect
	case widget.PlatformTelegram:
		return MethodTelegramRedirect
	default:
		return MethodDownloadOnly
	}
}

// Result is the outcome of one share call.
type Result struct {
	Success   bool
	Cancelled bool
	Platform  widget.Platform
	Method    Method
}

// =============================================================================
// Downloads
// =============================================================================

// Download is a save-to-device request. URL is set when the bytes are also
// reachable through a transient object reference.
type Download struct {
	Data        []byte
	Filename    string
	ContentType string
	URL         string
}

// Downloader performs a save-to-device action.
type Downloader interface {
	Download(ctx context.Context, d Download) error
}

// DownloaderFunc adapts a function to [Downloader].
type DownloaderFunc func(ctx context.Context, d Download) error

// Download calls f.
func (f DownloaderFunc) Download(ctx context.Context, d Download) error { return f(ctx, d) }

// =============================================================================
// Dispatcher
// =============================================================================

// Default delays.
const (
	DefaultStartDelay              = 500 * time.Millisecond
	DefaultRevokeDelay             = 10 * time.Second
	DefaultDownloadOnlyRevokeDelay = time.Second
)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithObjects registers fallback downloads in reg so downloaders receive a
// URL. References are revoked after the configured delay.
func WithObjects(reg *objecturl.Registry) DispatcherOption {
	return func(d *Dispatcher) { d.objects = reg }
}

// WithStartDelay sets the pause after triggering a download before the
// deep link opens. The pause gives the download time to start; it does not
// confirm completion.
func WithStartDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.startDelay = delay }
}

// WithRevokeDelays sets how long object references live after a redirect
// branch and after a download-only share.
func WithRevokeDelays(redirect, downloadOnly time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.revokeDelay, d.downloadOnlyDelay = redirect, downloadOnly }
}

// WithDefaultTexts overrides the payload defaults used for empty titles and
// texts.
func WithDefaultTexts(title, text string) DispatcherOption {
	return func(d *Dispatcher) { d.defaultTitle, d.defaultText = title, text }
}

// WithObserver calls fn on every state transition.
func WithObserver(fn func(State)) DispatcherOption {
	return func(d *Dispatcher) { d.observe = fn }
}

// WithDispatcherLogger sets the dispatcher logger.
func WithDispatcherLogger(l *log.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = l }
}

// Dispatcher shares artifacts natively or through the download-and-redirect
// fallback. Each call is an independent run; calls do not block each other.
type Dispatcher struct {
	env        Environment
	downloader Downloader
	objects    *objecturl.Registry

	startDelay        time.Duration
	revokeDelay       time.Duration
	downloadOnlyDelay time.Duration
	defaultTitle      string
	defaultText       string

	observe func(State)
	logger  *log.Logger
}

// NewDispatcher creates a dispatcher for env that saves fallback files
// through dl.
func NewDispatcher(env Environment, dl Downloader, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		env:               env,
		downloader:        dl,
		startDelay:        DefaultStartDelay,
		revokeDelay:       DefaultRevokeDelay,
		downloadOnlyDelay: DefaultDownloadOnlyRevokeDelay,
		defaultTitle:      DefaultTitle,
		defaultText:       DefaultText,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.observe == nil {
		d.observe = func(State) {}
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	return d
}

// Share runs a through the share state machine for platform p.
//
// A nil artifact fails with NO_ARTIFACT before any state change. Native
// share cancellation returns Result{Cancelled: true} and a nil error; other
// native failures are returned as SHARE_ERROR. On the fallback path only
// the download step can fail (DOWNLOAD_ERROR); a deep link that fails to
// open is logged and the share still succeeds.
func (d *Dispatcher) Share(ctx context.Context, a *export.Artifact, p widget.Platform, title string) (Result, error) {
	if a == nil {
		return Result{Platform: p}, errors.New(errors.ErrCodeNoArtifact, "No file to share")
	}

	start := time.Now()
	hooks := observability.Share()
	hooks.OnShareStart(ctx, p.String())

	d.observe(StatePreparing)
	res, err := d.run(ctx, a, p, title)
	switch {
	case err != nil:
		d.observe(StateFailed)
	case res.Cancelled:
		d.observe(StateCancelled)
	default:
		d.observe(StateSucceeded)
	}
	d.observe(StateIdle)

	hooks.OnShareComplete(ctx, p.String(), res.Method.String(), res.Cancelled, time.Since(start), err)
	return res, err
}

func (d *Dispatcher) run(ctx context.Context, a *export.Artifact, p widget.Platform, title string) (Result, error) {
	if CanShareArtifact(d.env, a) {
		return d.native(ctx, a, p, title)
	}
	return d.fallback(ctx, a, p, title)
}

func (d *Dispatcher) native(ctx context.Context, a *export.Artifact, p widget.Platform, title string) (Result, error) {
	d.observe(StateNativeSharing)
	res := Result{Platform: p, Method: MethodNativeShare}

	payload := d.payload(a, title, fmt.Sprintf("Check out this %s", title))
	if err := d.env.Share(ctx, payload); err != nil {
		if stderrors.Is(err, ErrAborted) {
			d.logger.Debug("native share cancelled", "platform", p)
			res.Cancelled = true
			return res, nil
		}
		return res, errors.Wrap(errors.ErrCodeShare, err, "native share")
	}

	res.Success = true
	return res, nil
}

// payload builds a native share request, using the dispatcher's defaults
// for an empty title.
func (d *Dispatcher) payload(a *export.Artifact, title, text string) Payload {
	if title == "" {
		title, text = d.defaultTitle, d.defaultText
	}
	return BuildPayload(a, title, text)
}

func (d *Dispatcher) fallback(ctx context.Context, a *export.Artifact, p widget.Platform, title string) (Result, error) {
	d.observe(StateFallbackDownloading)
	method := fallbackMethod(p)
	res := Result{Platform: p, Method: method}

	revoke := d.revokeDelay
	if method == MethodDownloadOnly {
		d.logger.Warn("no share target for platform, downloading only", "platform", p)
		revoke = d.downloadOnlyDelay
	}

	if err := d.download(ctx, a, revoke); err != nil {
		return res, err
	}

	var target string
	switch method {
	case MethodMailtoFallback:
		target = MailtoURL(title)
	case MethodWhatsAppRedirect:
		target = WhatsAppURL(ShareText(title), d.env != nil && d.env.IsMobile())
	case MethodTelegramRedirect:
		target = TelegramURL(ShareText(title))
	}
	if target != "" && d.env != nil && ctx.Err() == nil {
		if err := d.env.Open(ctx, target); err != nil {
			d.logger.Warn("could not open share target", "platform", p, "err", err)
		}
	}

	res.Success = true
	return res, nil
}

// download saves a to the device and waits the start delay. With an object
// registry the bytes are also published under a transient URL that is
// revoked after revoke. Once the downloader has accepted the file, a
// cancelled ctx only cuts the delay short.
func (d *Dispatcher) download(ctx context.Context, a *export.Artifact, revoke time.Duration) error {
	if d.downloader == nil {
		return errors.New(errors.ErrCodeDownload, "no downloader configured")
	}

	ext := a.Extension()
	if ext == "" {
		ext = "pdf"
	}
	req := Download{
		Data:        a.Data,
		Filename:    a.Filename,
		ContentType: MimeType(ext),
	}

	if d.objects != nil {
		obj := d.objects.Create(a.Data, a.Filename, req.ContentType)
		req.URL = obj.URL
		defer d.objects.RevokeAfter(obj.ID, revoke)
	}

	if err := d.downloader.Download(ctx, req); err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "download %s", a.Filename)
	}
	d.logger.Debug("download started", "file", a.Filename, "bytes", a.Size())

	if d.startDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(d.startDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		d.logger.Debug("start delay interrupted", "file", a.Filename, "err", ctx.Err())
	}
	return nil
}
