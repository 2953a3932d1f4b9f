package pipeline

import (
	"testing"
	"time"
)

func TestStatsSnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.RecordSuccess(10)
	stats.RecordSuccess(20)
	stats.RecordSuccess(30)
	stats.RecordSuccess(40)

	snap := stats.Snapshot()
	if snap.WindowCount != 4 {
		t.Fatalf("expected window_count=4, got %d", snap.WindowCount)
	}
	if snap.MinMs != 10 {
		t.Fatalf("expected min=10, got %d", snap.MinMs)
	}
	if snap.MaxMs != 40 {
		t.Fatalf("expected max=40, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 25 {
		t.Fatalf("expected avg=25, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 25 {
		t.Fatalf("expected p50=25, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 38.5 {
		t.Fatalf("expected p95=38.5, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 39.7 {
		t.Fatalf("expected p99=39.7, got %f", snap.P99Ms)
	}
}

func TestStatsCountsAreCumulative(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.RecordSuccess(10)
	stats.RecordSuccess(20)
	stats.RecordFailure()

	snap := stats.Snapshot()
	if snap.Processed != 2 {
		t.Fatalf("expected documents_processed=2, got %d", snap.Processed)
	}
	if snap.Failed != 1 {
		t.Fatalf("expected documents_failed=1, got %d", snap.Failed)
	}
}

func TestStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.RecordSuccess(100)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.WindowCount != 0 {
		t.Fatalf("expected window_count=0 after prune, got %d", snap.WindowCount)
	}
	// Cumulative counters survive the window.
	if snap.Processed != 1 {
		t.Fatalf("expected documents_processed=1, got %d", snap.Processed)
	}

	stats.RecordSuccess(200)
	snap = stats.Snapshot()
	if snap.WindowCount != 1 {
		t.Fatalf("expected window_count=1 for fresh sample, got %d", snap.WindowCount)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewStats(time.Hour)
	stats.RecordSuccess(-10)
	snap := stats.Snapshot()
	if snap.WindowCount != 1 {
		t.Fatalf("expected window_count=1, got %d", snap.WindowCount)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	stats := NewStats(time.Hour)
	snap := stats.Snapshot()
	if snap.WindowCount != 0 || snap.Processed != 0 || snap.Failed != 0 {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestPercentileEdges(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	vals := []int64{7}
	if got := percentile(vals, 50); got != 7 {
		t.Errorf("expected single value, got %f", got)
	}
	vals = []int64{1, 2, 3}
	if got := percentile(vals, 0); got != 1 {
		t.Errorf("expected first value at pct=0, got %f", got)
	}
	if got := percentile(vals, 100); got != 3 {
		t.Errorf("expected last value at pct=100, got %f", got)
	}
}
