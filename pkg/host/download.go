package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/widgetshare/pkg/errors"
	"github.com/matzehuels/widgetshare/pkg/objecturl"
	"github.com/matzehuels/widgetshare/pkg/share"
)

var (
	_ share.Downloader = (*DiskDownloader)(nil)
	_ share.Downloader = (*BrowserDownloader)(nil)
)

// maxDuplicates bounds the "name (n).ext" search.
const maxDuplicates = 1000

// DiskDownloader saves artifacts into a directory, the way a browser saves
// into the downloads folder. Existing files are never overwritten; the name
// gets a " (n)" suffix instead.
type DiskDownloader struct {
	Dir string

	mu    sync.Mutex
	saved []string
}

// NewDiskDownloader creates a downloader writing into dir.
func NewDiskDownloader(dir string) *DiskDownloader {
	return &DiskDownloader{Dir: dir}
}

// Download writes d.Data to Dir.
func (dl *DiskDownloader) Download(ctx context.Context, d share.Download) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.ValidateFilename(d.Filename); err != nil {
		return err
	}
	if err := os.MkdirAll(dl.Dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "create %s", dl.Dir)
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	path, f, err := createUnique(dl.Dir, d.Filename)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "save %s", d.Filename)
	}
	if _, err := f.Write(d.Data); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(errors.ErrCodeDownload, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "write %s", path)
	}

	dl.saved = append(dl.saved, path)
	return nil
}

// Saved returns the paths written so far, oldest first.
func (dl *DiskDownloader) Saved() []string {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return append([]string(nil), dl.saved...)
}

// Last returns the most recently written path, or "".
func (dl *DiskDownloader) Last() string {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if len(dl.saved) == 0 {
		return ""
	}
	return dl.saved[len(dl.saved)-1]
}

// createUnique exclusively creates name in dir, adding " (n)" before the
// extension while the name is taken.
func createUnique(dir, name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for n := 0; n < maxDuplicates; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, err
		}
	}
	return "", nil, fmt.Errorf("too many copies of %s", name)
}

// BrowserDownloader hands artifacts to the browser through transient object
// URLs served by an objecturl.Registry.
type BrowserDownloader struct {
	Registry    *objecturl.Registry
	Opener      Opener        // SystemOpener when nil
	RevokeAfter time.Duration // lifetime of references this downloader creates
}

// NewBrowserDownloader creates a browser downloader.
func NewBrowserDownloader(reg *objecturl.Registry, opener Opener, revokeAfter time.Duration) *BrowserDownloader {
	return &BrowserDownloader{Registry: reg, Opener: opener, RevokeAfter: revokeAfter}
}

// Download opens d.URL, creating a reference first when d has none.
// References created here are revoked after RevokeAfter.
func (dl *BrowserDownloader) Download(ctx context.Context, d share.Download) error {
	if err := errors.ValidateFilename(d.Filename); err != nil {
		return err
	}

	url := d.URL
	if url == "" {
		if dl.Registry == nil {
			return errors.New(errors.ErrCodeDownload, "no object server for browser downloads")
		}
		obj := dl.Registry.Create(d.Data, d.Filename, d.ContentType)
		url = obj.URL
		revoke := dl.RevokeAfter
		if revoke <= 0 {
			revoke = share.DefaultRevokeDelay
		}
		dl.Registry.RevokeAfter(obj.ID, revoke)
	}

	opener := dl.Opener
	if opener == nil {
		opener = SystemOpener()
	}
	if err := opener.Open(ctx, url); err != nil {
		return errors.Wrap(errors.ErrCodeDownload, err, "open %s", url)
	}
	return nil
}
