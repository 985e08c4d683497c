// Package transfer ships packaged artifacts to pre-signed upload URLs.
// It implements domain.Uploader.
package transfer

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/shiplift-dev/shiplift/internal/domain"
)

// Uploader performs a single PUT of an artifact file. Upload URLs are
// single-use and time-boxed, so there is deliberately no retry; a failed
// upload needs a fresh deployment slot.
type Uploader struct {
	client *http.Client
}

// NewUploader creates an Uploader using http.DefaultClient.
func NewUploader() *Uploader {
	return &Uploader{client: http.DefaultClient}
}

// NewUploaderWithClient creates an Uploader with a custom HTTP client.
func NewUploaderWithClient(client *http.Client) *Uploader {
	return &Uploader{client: client}
}

// Upload PUTs the file at path to url. Any response outside the 2xx range
// is an error wrapping domain.ErrUploadFailed.
func (u *Uploader) Upload(ctx context.Context, url, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/zip")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %s", domain.ErrUploadFailed, resp.Status)
	}
	return nil
}
