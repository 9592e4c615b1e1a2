package share

import (
	"fmt"
	"strings"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/widget"
)

// =============================================================================
// Deep Links
// =============================================================================

// Deep-link targets.
const (
	whatsAppMobileURL  = "whatsapp://send?text="
	whatsAppDesktopURL = "https://web.whatsapp.com/send?text="
	whatsAppAPIURL     = "https://api.whatsapp.com/send?text="
	telegramShareURL   = "https://t.me/share/url"
)

// ShareText is the message sent along with a deep link.
func ShareText(title string) string {
	return fmt.Sprintf("Check out this %s!", title)
}

// MailBody is the compose body used when a file was downloaded for the user
// to attach by hand.
func MailBody(title string) string {
	return "Hi,\n\nI'm sharing \"" + title + "\" with you.\n\n" +
		"The file has been downloaded to your device. Please attach it to this email.\n\n" +
		"Best regards"
}

// MailtoURL returns a compose link with subject title and the attach-by-hand
// body.
func MailtoURL(title string) string {
	return "mailto:?subject=" + EscapeComponent(title) + "&body=" + EscapeComponent(MailBody(title))
}

// WhatsAppURL returns the WhatsApp deep link for text. Mobile hosts get the
// app scheme, desktop hosts get WhatsApp Web.
func WhatsAppURL(text string, mobile bool) string {
	if mobile {
		return whatsAppMobileURL + EscapeComponent(text)
	}
	return whatsAppDesktopURL + EscapeComponent(text)
}

// TelegramURL returns the Telegram share link for text.
func TelegramURL(text string) string {
	return telegramShareURL + "?text=" + EscapeComponent(text)
}

// LinkFor builds a share URL for a plain link rather than a file.
func LinkFor(p widget.Platform, link, title, text string) (string, error) {
	encTitle := EscapeComponent(title)
	encLink := EscapeComponent(link)

	switch p {
	case widget.PlatformWhatsApp:
		return whatsAppAPIURL + encTitle + "%20" + encLink, nil
	case widget.PlatformTelegram:
		return telegramShareURL + "?url=" + encLink + "&text=" + encTitle, nil
	case widget.PlatformEmail:
		return "mailto:?subject=" + encTitle + "&body=" + EscapeComponent(text) + "%20" + encLink, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidPlatform, "no share link for platform %s", p)
	}
}

// EscapeComponent percent-encodes s for use inside a URL query component.
// Letters, digits and -_.!~*'() pass through; every other byte of the UTF-8
// encoding becomes an uppercase %XX escape, so spaces are %20 rather than +.
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
