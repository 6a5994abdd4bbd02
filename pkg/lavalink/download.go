package lavalink

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/audiolab/coreexp/internal/transport"
	"github.com/audiolab/coreexp/pkg/constants"
	"github.com/audiolab/coreexp/pkg/errors"
	"github.com/audiolab/coreexp/pkg/logging"
)

// Downloader fetches release artifacts into the node directory.
type Downloader struct {
	client *transport.Client
}

// NewDownloader creates a downloader with a client sized for long transfers.
func NewDownloader() *Downloader {
	return &Downloader{
		client: transport.NewWithHTTPClient(&http.Client{Timeout: constants.DownloadTimeout}),
	}
}

// NewDownloaderWithClient creates a downloader backed by the given transport
// client. Useful for tests.
func NewDownloaderWithClient(client *transport.Client) *Downloader {
	return &Downloader{client: client}
}

// Download fetches url into dest. The artifact is written to a temp file in
// the destination directory and moved into place only once the transfer
// completed, so a partial download never replaces a working jar.
func (d *Downloader) Download(ctx context.Context, url, dest string) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	logging.Ctx(ctx).Info().Str("url", url).Str("dest", dest).Msg("Downloading artifact")

	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	tmp, err := os.CreateTemp(dir, ".download_*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", dest, err)
	}

	logging.Ctx(ctx).Debug().Str("dest", dest).Msg("Artifact downloaded")
	return nil
}
