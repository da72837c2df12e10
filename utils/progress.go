package utils

import (
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"coursefetch/internal"
)

// ProgressTracker renders streamed download progress on a pb/v3 bar.
// When the total size is unknown (no Content-Length) the bar runs
// without a percentage and snaps to completion at Finish.
type ProgressTracker struct {
	bar        *pb.ProgressBar
	quiet      bool
	startTime  time.Time
	total      int64
	current    int64
	determined bool
	mutex      sync.Mutex
}

// NewProgressTracker creates a tracker in quiet or visible mode. The bar
// itself is started lazily on the first callback, once the total is
// known.
func NewProgressTracker(quiet bool) *ProgressTracker {
	return &ProgressTracker{
		quiet:     quiet,
		startTime: time.Now(),
		total:     -1,
	}
}

// Callback returns the progress function to hand to the downloader.
func (p *ProgressTracker) Callback() internal.ProgressFunc {
	return func(done, total int64) {
		p.update(done, total)
	}
}

func (p *ProgressTracker) update(done, total int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.current = done
	p.total = total

	if p.quiet {
		return
	}

	if p.bar == nil {
		tmpl := `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }}`
		if total < 0 {
			tmpl = `{{string . "prefix"}}{{counters . }} {{speed . }}`
		}
		bar := pb.ProgressBarTemplate(tmpl).Start64(max64(total, 0))
		bar.Set(pb.Bytes, true)
		bar.Set(pb.SIBytesPrefix, true)
		bar.Set("prefix", "Downloading: ")
		p.bar = bar
		p.determined = total >= 0
	}

	if p.determined {
		p.bar.SetCurrent(done)
	} else {
		p.bar.SetCurrent(done)
		p.bar.SetTotal(done)
	}
}

// Finish completes the bar and prints a short summary.
func (p *ProgressTracker) Finish() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bar != nil {
		if !p.determined {
			p.bar.SetTotal(p.current)
		}
		p.bar.SetCurrent(p.current)
		p.bar.Finish()
	}

	if !p.quiet {
		elapsed := time.Since(p.startTime).Round(time.Millisecond)
		fmt.Printf("Downloaded %s in %v\n", formatBytes(p.current), elapsed)
	}
}

// Current returns the last reported byte count.
func (p *ProgressTracker) Current() int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.current
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// formatBytes formats byte count as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
