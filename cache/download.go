package cache

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"coursefetch/internal"
	"coursefetch/utils"
)

// Downloader streams remote assets into cache paths with progress
// callbacks. Writes are staged to a .part file and renamed into place
// on success, so an interrupted download never leaves a file that the
// existence check would mistake for a cached asset.
type Downloader struct {
	http    *utils.HTTPClient
	base    *url.URL
	fileOps *utils.FileOperations
	log     *internal.SecureLogger
}

var _ internal.AssetDownloader = (*Downloader)(nil)

// NewDownloader creates a downloader sharing the given HTTP client.
// Relative asset references resolve against the client's base URL.
func NewDownloader(httpClient *utils.HTTPClient) *Downloader {
	return &Downloader{
		http:    httpClient,
		base:    httpClient.BaseURL(),
		fileOps: utils.NewFileOperations(),
		log:     internal.GetLogger(),
	}
}

// Download fetches ref into destPath. If destPath already exists the
// download is skipped entirely, without any network call. onProgress,
// when non-nil, receives monotonically non-decreasing byte counts; the
// total is -1 when the server sent no Content-Length, and the final
// call reports done == total when it did.
func (d *Downloader) Download(ctx context.Context, ref, destPath string, onProgress internal.ProgressFunc) error {
	const op = "download"

	if d.fileOps.FileExists(destPath) {
		d.log.Debug("%s: %s already cached, skipping", op, destPath)
		if onProgress != nil {
			onProgress(0, 0)
		}
		return nil
	}

	resolved, err := utils.ResolveAssetRef(d.base, ref)
	if err != nil {
		return internal.NewInvalidRefError(op, ref)
	}

	resp, err := d.http.GetStream(ctx, resolved)
	if err != nil {
		return internal.NewDownloadError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return internal.NewStatusError(op, "download", resp.StatusCode)
	}

	// -1 drives an indeterminate progress display.
	total := resp.ContentLength

	partPath := destPath + ".part"
	if err := d.writeStream(ctx, resp.Body, partPath, total, onProgress); err != nil {
		// Leave no believed-valid cache entry behind.
		if removeErr := d.fileOps.RemoveIfExists(partPath); removeErr != nil {
			d.log.Warn("%s: failed to remove partial file %s: %v", op, partPath, removeErr)
		}
		return internal.NewDownloadError(op, err)
	}

	if err := d.fileOps.AtomicRename(partPath, destPath); err != nil {
		if removeErr := d.fileOps.RemoveIfExists(partPath); removeErr != nil {
			d.log.Warn("%s: failed to remove partial file %s: %v", op, partPath, removeErr)
		}
		return internal.NewDownloadError(op, err)
	}

	d.log.Info("%s: cached %s", op, destPath)
	return nil
}

// writeStream copies the response body to path, reporting progress per
// chunk and watching the context between reads.
func (d *Downloader) writeStream(ctx context.Context, src io.Reader, path string, total int64, onProgress internal.ProgressFunc) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create partial file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	buffer := make([]byte, 32*1024)
	var done int64

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, readErr := src.Read(buffer)
		if n > 0 {
			written, writeErr := file.Write(buffer[:n])
			done += int64(written)

			if writeErr != nil {
				return writeErr
			}
			if written != n {
				return fmt.Errorf("short write: wrote %d, expected %d", written, n)
			}

			if onProgress != nil {
				onProgress(done, total)
			}
		}

		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return readErr
		}
	}

	if total >= 0 && done != total {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d bytes", total, done)
	}

	// Snap indeterminate progress to completion.
	if onProgress != nil && total < 0 {
		onProgress(done, done)
	}

	return nil
}

// EmptyMarker writes a zero-byte cache file for an entity with no
// remote asset, so its downloaded state stays existence-keyed like
// every other entry.
func (d *Downloader) EmptyMarker(destPath string) error {
	if d.fileOps.FileExists(destPath) {
		return nil
	}
	return os.WriteFile(destPath, nil, 0644)
}
