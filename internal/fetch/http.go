package fetch

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// userAgent identifies the installer to download hosts.
const userAgent = "xivshade/1.0"

// Download streams url into dest, creating parent directories as needed.
// Any non-2xx response is a fetch error.
func Download(url, dest string) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", url)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(xserrors.ErrFetchFailed, "downloading %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(xserrors.ErrFetchFailed, "downloading %s: %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, "creating download directory")
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "creating %s", dest)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return errors.Wrapf(xserrors.ErrFetchFailed, "writing %s: %v", dest, err)
	}

	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dest)
	}
	return nil
}
