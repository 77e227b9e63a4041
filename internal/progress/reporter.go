// Package progress formats periodic progress lines for long S3 transfers.
package progress

import (
	"fmt"
	"strings"
	"time"
)

// Phase is a stage of a transfer.
type Phase string

const PhaseUpload Phase = "Upload"

// Info is a snapshot of a transfer.
type Info struct {
	Phase     Phase
	Operation string
	Unit      string
	Done      int
	Total     int
	Bytes     int64
}

// Reporter throttles and formats progress lines.
type Reporter struct {
	startTime      time.Time
	lastReportTime time.Time
	reportInterval time.Duration
	now            func() time.Time
}

// NewReporter creates a reporter that emits at most once per interval.
func NewReporter(interval time.Duration) *Reporter {
	return newReporter(interval, time.Now)
}

func newReporter(interval time.Duration, now func() time.Time) *Reporter {
	start := now()
	return &Reporter{
		startTime:      start,
		lastReportTime: start,
		reportInterval: interval,
		now:            now,
	}
}

// ShouldReport is true once the interval has passed, and always for the final item.
func (r *Reporter) ShouldReport(info Info) bool {
	if info.Total > 0 && info.Done >= info.Total {
		return true
	}
	return r.now().Sub(r.lastReportTime) >= r.reportInterval
}

// Elapsed is the time since the reporter was created.
func (r *Reporter) Elapsed() time.Duration {
	return r.now().Sub(r.startTime)
}

// Report formats info and resets the throttle.
func (r *Reporter) Report(info Info) string {
	r.lastReportTime = r.now()
	elapsed := r.Elapsed()

	var sb strings.Builder
	percentage := 0.0
	if info.Total > 0 {
		percentage = float64(info.Done) / float64(info.Total) * 100
	}
	unit := info.Unit
	if unit == "" {
		unit = "items"
	}
	sb.WriteString(fmt.Sprintf("Progress: %d/%d %s (%.1f%%)", info.Done, info.Total, unit, percentage))

	if info.Phase != "" {
		sb.WriteString(fmt.Sprintf(" | Phase: %s", info.Phase))
	}
	sb.WriteString(fmt.Sprintf(" | Elapsed: %s", FormatDuration(elapsed)))
	if eta := CalculateETA(info.Done, info.Total, elapsed); eta > 0 {
		sb.WriteString(fmt.Sprintf(" | ETA: %s", FormatDuration(eta)))
	}
	if info.Bytes > 0 {
		sb.WriteString(fmt.Sprintf(" | %s", FormatBytes(info.Bytes)))
	}
	if info.Operation != "" {
		sb.WriteString(fmt.Sprintf("\n   Current: %s", info.Operation))
	}
	return sb.String()
}

// CalculateETA estimates time remaining based on current progress
func CalculateETA(completed, total int, elapsed time.Duration) time.Duration {
	if completed <= 0 || total <= 0 || completed >= total {
		return 0
	}

	averageTimePerItem := elapsed / time.Duration(completed)
	return averageTimePerItem * time.Duration(total-completed)
}

// FormatDuration formats a duration in a user-friendly way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
