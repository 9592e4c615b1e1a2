// Package share routes exported artifacts to external channels.
//
// Sharing prefers the host's native share sheet. When the host has none, or
// refuses the file, the dispatcher falls back to downloading the artifact to
// the device and opening a platform deep link (mail compose, WhatsApp,
// Telegram) so the user can attach it by hand.
//
// # Host environment
//
// Everything the dispatcher needs from the host sits behind [Environment],
// so tests and the desktop CLI supply their own implementations.
//
// # Cancellation
//
// A host reports that the user dismissed the share sheet by returning an
// error matching [ErrAborted]. The dispatcher turns that into a result with
// Cancelled set; it is never reported as a failure.
package share

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/matzehuels/widgetshare/pkg/export"
)

// ErrAborted is returned by [Environment.Share] when the user cancels.
var ErrAborted = stderrors.New("share aborted by user")

// Default payload texts.
const (
	DefaultTitle = "Widget Export"
	DefaultText  = "Sharing widget from dashboard"
)

// Environment is the host capability provider.
type Environment interface {
	// SupportsNativeShare reports whether the host exposes both a share
	// action and a capability check for it.
	SupportsNativeShare() bool

	// CanShare asks the host whether p can be shared natively.
	CanShare(p Payload) (bool, error)

	// IsMobile reports whether the host looks like a mobile device.
	IsMobile() bool

	// Share invokes the native share action.
	Share(ctx context.Context, p Payload) error

	// Open navigates to url in a new window or the default handler.
	Open(ctx context.Context, url string) error
}

// Payload is the native share request.
type Payload struct {
	Title string
	Text  string
	Files []*export.Artifact
}

// IsNativeShareSupported reports whether env can share natively.
func IsNativeShareSupported(env Environment) bool {
	return env != nil && env.SupportsNativeShare()
}

// CanShareArtifact reports whether a can go through the native share sheet.
// Host errors and panics count as "not shareable".
func CanShareArtifact(env Environment, a *export.Artifact) (ok bool) {
	if a == nil || !IsNativeShareSupported(env) {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	ok, err := env.CanShare(Payload{Files: []*export.Artifact{a}})
	return err == nil && ok
}

// BuildPayload assembles a native share request for a, substituting the
// default title and text when empty. A nil artifact yields no files.
func BuildPayload(a *export.Artifact, title, text string) Payload {
	p := Payload{Title: title, Text: text}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Text == "" {
		p.Text = DefaultText
	}
	if a != nil {
		p.Files = []*export.Artifact{a}
	}
	return p
}

var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"csv":  "text/csv",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// MimeType maps a file extension (with or without the dot, any case) to its
// content type. Unknown extensions map to application/octet-stream.
func MimeType(ext string) string {
	if t, ok := mimeTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return t
	}
	return "application/octet-stream"
}
