package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestReporterThrottles(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := newReporter(5*time.Second, clock.now)

	info := Info{Done: 1, Total: 4, Unit: "parts"}
	assert.False(t, r.ShouldReport(info))

	clock.t = clock.t.Add(6 * time.Second)
	assert.True(t, r.ShouldReport(info))
	assert.Equal(t, "Progress: 1/4 parts (25.0%) | Elapsed: 6s | ETA: 18s", r.Report(info))
	assert.False(t, r.ShouldReport(info), "report resets the interval")

	assert.True(t, r.ShouldReport(Info{Done: 4, Total: 4}), "final item always reports")
}

func TestReportDetails(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := newReporter(time.Second, clock.now)
	clock.t = clock.t.Add(90 * time.Second)

	out := r.Report(Info{Phase: PhaseUpload, Operation: "css/site.css", Done: 3, Total: 3, Unit: "files", Bytes: 3 * 1024 * 1024})
	assert.Equal(t, "Progress: 3/3 files (100.0%) | Phase: Upload | Elapsed: 1m 30s | 3.0 MiB\n   Current: css/site.css", out)
}

func TestCalculateETA(t *testing.T) {
	assert.Equal(t, 30*time.Second, CalculateETA(1, 4, 10*time.Second))
	assert.Equal(t, time.Duration(0), CalculateETA(0, 4, 10*time.Second))
	assert.Equal(t, time.Duration(0), CalculateETA(4, 4, 10*time.Second))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "2h 5m", FormatDuration(125*time.Minute))
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.5 KiB", FormatBytes(1536))
	assert.Equal(t, "5.0 MiB", FormatBytes(5*1024*1024))
}
