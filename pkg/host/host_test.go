package host

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/objecturl"
	"github.com/matzehuels/widgetshare/pkg/share"
)

type recordingOpener struct {
	targets []string
	err     error
}

func (o *recordingOpener) Open(_ context.Context, target string) error {
	o.targets = append(o.targets, target)
	return o.err
}

func TestIsMobileUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", true},
		{"Mozilla/5.0 (Linux; Android 14; Pixel 8)", true},
		{"Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", true},
		{"Opera/9.80 (J2ME/MIDP; Opera Mini/9.80)", true},
		{"mozilla/5.0 (linux; android 14)", true},
		{"Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0", false},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMobileUserAgent(tt.ua), tt.ua)
	}
}

func TestDesktopEnvironment(t *testing.T) {
	opener := &recordingOpener{}
	env := NewDesktop("", opener)

	assert.False(t, env.SupportsNativeShare())
	ok, err := env.CanShare(share.Payload{})
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.False(t, env.IsMobile())
	assert.True(t, NewDesktop("iPhone", opener).IsMobile())

	err = env.Share(context.Background(), share.Payload{})
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))

	require.NoError(t, env.Open(context.Background(), "https://t.me/share/url?url=&text=hi"))
	assert.Equal(t, []string{"https://t.me/share/url?url=&text=hi"}, opener.targets)
}

func TestOpenCommand(t *testing.T) {
	name, args, err := openCommand("linux", "mailto:?subject=x")
	require.NoError(t, err)
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{"mailto:?subject=x"}, args)

	name, _, err = openCommand("darwin", "x")
	require.NoError(t, err)
	assert.Equal(t, "open", name)

	name, args, err = openCommand("windows", "x")
	require.NoError(t, err)
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", `""`, "x"}, args)

	_, _, err = openCommand("plan9", "x")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestDiskDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Downloads")
	dl := NewDiskDownloader(dir)
	ctx := context.Background()

	d := share.Download{Data: []byte("a,b"), Filename: "report.csv", ContentType: "text/csv"}
	require.NoError(t, dl.Download(ctx, d))
	require.NoError(t, dl.Download(ctx, d))
	require.NoError(t, dl.Download(ctx, d))

	assert.Equal(t, []string{
		filepath.Join(dir, "report.csv"),
		filepath.Join(dir, "report (1).csv"),
		filepath.Join(dir, "report (2).csv"),
	}, dl.Saved())
	assert.Equal(t, filepath.Join(dir, "report (2).csv"), dl.Last())

	data, err := os.ReadFile(dl.Last())
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
}

func TestDiskDownloaderRejectsUnsafeNames(t *testing.T) {
	dl := NewDiskDownloader(t.TempDir())
	for _, name := range []string{"", "../escape.csv", "a/b.csv", ".hidden"} {
		err := dl.Download(context.Background(), share.Download{Filename: name})
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), name)
	}
	assert.Empty(t, dl.Saved())
	assert.Empty(t, dl.Last())
}

func TestDiskDownloaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDiskDownloader(t.TempDir()).Download(ctx, share.Download{Filename: "a.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBrowserDownloaderCreatesReference(t *testing.T) {
	reg := objecturl.NewRegistry("http://127.0.0.1:9000/")
	defer reg.Close()
	opener := &recordingOpener{}
	dl := NewBrowserDownloader(reg, opener, 20*time.Millisecond)

	err := dl.Download(context.Background(), share.Download{Data: []byte("%PDF-"), Filename: "q1.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)

	require.Len(t, opener.targets, 1)
	assert.True(t, strings.HasPrefix(opener.targets[0], "http://127.0.0.1:9000/objects/"))
	assert.Equal(t, 1, reg.Len())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, reg.Wait(ctx))
	assert.Zero(t, reg.Len())
}

func TestBrowserDownloaderUsesExistingURL(t *testing.T) {
	reg := objecturl.NewRegistry("http://localhost")
	defer reg.Close()
	opener := &recordingOpener{}
	dl := NewBrowserDownloader(reg, opener, 0)

	require.NoError(t, dl.Download(context.Background(), share.Download{Filename: "a.png", URL: "http://localhost/objects/x"}))
	assert.Equal(t, []string{"http://localhost/objects/x"}, opener.targets)
	assert.Zero(t, reg.Len())
}

func TestBrowserDownloaderErrors(t *testing.T) {
	err := (&BrowserDownloader{Opener: &recordingOpener{}}).Download(context.Background(), share.Download{Filename: "a.pdf"})
	assert.True(t, errors.Is(err, errors.ErrCodeDownload))

	reg := objecturl.NewRegistry("http://localhost")
	defer reg.Close()
	dl := NewBrowserDownloader(reg, &recordingOpener{err: stderrors.New("no browser")}, time.Millisecond)
	err = dl.Download(context.Background(), share.Download{Filename: "a.pdf"})
	assert.True(t, errors.Is(err, errors.ErrCodeDownload))
}
