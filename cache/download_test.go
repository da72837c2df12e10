package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"coursefetch/internal"
	"coursefetch/utils"
)

func newTestDownloader(t *testing.T, server *httptest.Server) *Downloader {
	t.Helper()

	httpClient, err := utils.NewHTTPClient(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}
	return NewDownloader(httpClient)
}

func TestDownloadWritesCacheFile(t *testing.T) {
	payload := []byte("lecture resource bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	if err := d.Download(context.Background(), server.URL+"/asset", dest, nil); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Cache file missing: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Cache content mismatch: %q", got)
	}

	// No stale staging file.
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error("Staging file should be renamed away")
	}
}

func TestDownloadSkipsWhenCached(t *testing.T) {
	var hits int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	if err := d.Download(context.Background(), server.URL+"/asset", dest, nil); err != nil {
		t.Fatalf("First download failed: %v", err)
	}
	if err := d.Download(context.Background(), server.URL+"/asset", dest, nil); err != nil {
		t.Fatalf("Second download failed: %v", err)
	}

	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("Second call must skip the network, got %d requests", got)
	}
}

func TestDownloadRelativeRefResolvesAgainstBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/img.png" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("png"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "c1")
	d := newTestDownloader(t, server)

	// Leading slash is normalized before joining.
	if err := d.Download(context.Background(), "/uploads/img.png", dest, nil); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
}

func TestDownloadProgressMonotonicAndComplete(t *testing.T) {
	payload := make([]byte, 200*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "204800")
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	var calls []int64
	var totals []int64
	onProgress := func(done, total int64) {
		calls = append(calls, done)
		totals = append(totals, total)
	}

	if err := d.Download(context.Background(), server.URL+"/asset", dest, onProgress); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if len(calls) == 0 {
		t.Fatal("Progress callback never invoked")
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] < calls[i-1] {
			t.Fatalf("Progress went backwards: %d after %d", calls[i], calls[i-1])
		}
	}
	last := len(calls) - 1
	if totals[last] != int64(len(payload)) {
		t.Errorf("Expected total %d, got %d", len(payload), totals[last])
	}
	if calls[last] != totals[last] {
		t.Errorf("Final call should report done == total, got %d/%d", calls[last], totals[last])
	}
}

func TestDownloadUnknownLengthSnapsToCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("chunk-one"))
		flusher.Flush() // Forces chunked encoding; no Content-Length.
		w.Write([]byte("chunk-two"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	var lastDone, lastTotal int64
	sawUnknown := false
	onProgress := func(done, total int64) {
		if total < 0 {
			sawUnknown = true
		}
		lastDone, lastTotal = done, total
	}

	if err := d.Download(context.Background(), server.URL+"/asset", dest, onProgress); err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if !sawUnknown {
		t.Error("Expected indeterminate progress while streaming")
	}
	if lastDone != lastTotal {
		t.Errorf("Completion should snap done == total, got %d/%d", lastDone, lastTotal)
	}
	if lastDone != int64(len("chunk-one")+len("chunk-two")) {
		t.Errorf("Unexpected final byte count: %d", lastDone)
	}
}

func TestDownloadFailureLeavesNoCacheEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Announce more bytes than are sent, then cut the stream.
		w.Header().Set("Content-Length", "1000000")
		w.Write([]byte("partial"))
	}))

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	err := d.Download(context.Background(), server.URL+"/asset", dest, nil)
	server.Close()
	if err == nil {
		t.Fatal("Expected download failure on truncated stream")
	}
	if !internal.IsType(err, internal.ErrDownloadFailed) {
		t.Errorf("Expected download failure type, got %v", err)
	}

	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Failed download must not leave a cache file")
	}
	if _, statErr := os.Stat(dest + ".part"); !os.IsNotExist(statErr) {
		t.Error("Failed download must not leave a partial file")
	}
}

func TestDownloadHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	err := d.Download(context.Background(), server.URL+"/missing", dest, nil)
	if err == nil {
		t.Fatal("Expected failure on 404")
	}
	if !internal.IsType(err, internal.ErrHTTPStatus) {
		t.Errorf("Expected status error, got %v", err)
	}
}

func TestDownloadCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("head"))
		flusher.Flush()
		<-release
	}))
	defer server.Close()
	defer close(release)

	dest := filepath.Join(t.TempDir(), "l1")
	d := newTestDownloader(t, server)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		cancel()
	}()

	err := d.Download(ctx, server.URL+"/asset", dest, nil)
	if err == nil {
		t.Fatal("Expected cancellation failure")
	}

	// Cancellation must not forge a cached entry.
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("Cancelled download must not leave a cache file")
	}
}

func TestEmptyMarker(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "l1")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	d := newTestDownloader(t, server)
	if err := d.EmptyMarker(dest); err != nil {
		t.Fatalf("EmptyMarker failed: %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("Marker file missing: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("Marker should be empty, got %d bytes", info.Size())
	}
}
