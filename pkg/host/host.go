// Package host implements the desktop side of widget sharing: the share
// environment, URL opening, downloaders that save artifacts to disk or hand
// them to the browser, and clipboard access.
package host

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/share"
)

// =============================================================================
// Opener
// =============================================================================

// Opener opens a URL or file with the system's default handler.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// OpenerFunc adapts a function to [Opener].
type OpenerFunc func(ctx context.Context, target string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, target string) error { return f(ctx, target) }

// SystemOpener opens targets with xdg-open, open or start depending on the
// operating system. The command is started, not waited for.
func SystemOpener() Opener {
	return OpenerFunc(func(ctx context.Context, target string) error {
		name, args, err := openCommand(runtime.GOOS, target)
		if err != nil {
			return err
		}
		if err := exec.CommandContext(ctx, name, args...).Start(); err != nil {
			return fmt.Errorf("open %s: %w", target, err)
		}
		return nil
	})
}

func openCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "windows":
		// The empty title keeps start from treating a quoted target as one.
		return "cmd", []string{"/c", "start", `""`, target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	default:
		return "", nil, errors.New(errors.ErrCodeUnsupported, "cannot open URLs on %s", goos)
	}
}

// =============================================================================
// Desktop environment
// =============================================================================

var mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// Desktop is the share environment of a desktop session. It has no native
// share sheet, so every share takes the download-and-redirect path.
type Desktop struct {
	UserAgent string // consulted by IsMobile; empty means desktop
	Opener    Opener // SystemOpener when nil
}

var _ share.Environment = (*Desktop)(nil)

// NewDesktop creates a desktop environment.
func NewDesktop(userAgent string, opener Opener) *Desktop {
	return &Desktop{UserAgent: userAgent, Opener: opener}
}

// SupportsNativeShare reports false.
func (d *Desktop) SupportsNativeShare() bool { return false }

// CanShare reports false.
func (d *Desktop) CanShare(share.Payload) (bool, error) { return false, nil }

// IsMobile matches the user agent against common mobile platforms.
func (d *Desktop) IsMobile() bool { return IsMobileUserAgent(d.UserAgent) }

// Share always fails; there is no native share sheet.
func (d *Desktop) Share(context.Context, share.Payload) error {
	return errors.New(errors.ErrCodeUnsupported, "native share is not available on this host")
}

// Open opens url with the configured opener.
func (d *Desktop) Open(ctx context.Context, url string) error {
	opener := d.Opener
	if opener == nil {
		opener = SystemOpener()
	}
	return opener.Open(ctx, url)
}

// IsMobileUserAgent reports whether ua names a mobile platform.
func IsMobileUserAgent(ua string) bool {
	return mobileUA.MatchString(ua)
}

// =============================================================================
// Clipboard
// =============================================================================

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return errors.New(errors.ErrCodeUnsupported, "clipboard is not available on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "copy to clipboard")
	}
	return nil
}
