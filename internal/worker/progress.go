package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const barWidth = 30

// Progress renders a one-line progress bar for a texture batch.
type Progress struct {
	started   time.Time
	out       io.Writer
	total     int
	completed int
	failed    int
	mu        sync.Mutex
	enabled   bool
}

// NewProgress creates a tracker for total textures. When enabled is false
// it only counts.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		total:   total,
		started: time.Now(),
		out:     os.Stderr,
		enabled: enabled,
	}
}

// Update records counts reported by the pool and redraws the bar.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	p.completed, p.total, p.failed = completed, total, failed
	line := p.line()
	p.mu.Unlock()

	if p.enabled {
		fmt.Fprint(p.out, line)
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

// Done terminates the progress line.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	line := p.line()
	p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

// Summary describes the finished batch.
func (p *Progress) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.started)
	return fmt.Sprintf("Generated %d/%d textures (%d failed) in %s (%.1f textures/sec)",
		p.completed-p.failed, p.total, p.failed, formatDuration(elapsed), rate(p.completed, elapsed))
}

// line formats the bar. Callers hold mu.
func (p *Progress) line() string {
	elapsed := time.Since(p.started)
	r := rate(p.completed, elapsed)

	filled := 0
	if p.total > 0 {
		filled = min(barWidth, p.completed*barWidth/p.total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\r[%s%s] %d/%d textures",
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), p.completed, p.total)
	if p.failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", p.failed)
	}
	fmt.Fprintf(&b, " - %.1f textures/sec", r)

	switch {
	case p.completed >= p.total:
		fmt.Fprintf(&b, " - Done in %s", formatDuration(elapsed))
	case r > 0:
		eta := time.Duration(float64(p.total-p.completed) / r * float64(time.Second))
		fmt.Fprintf(&b, " - ETA: %s", formatDuration(eta))
	}

	// Pad over leftovers of a longer previous line.
	b.WriteString("          ")
	return b.String()
}

func rate(n int, elapsed time.Duration) float64 {
	if n == 0 || elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
