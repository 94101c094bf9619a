package main

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()

	t.Run("Counters", func(t *testing.T) {
		mc.RecordSampling(3)
		mc.RecordSampling(1)
		if got := mc.Summary().Counters[MetricSamplingAttempts]; got != 4 {
			t.Errorf("expected 4 sampling attempts, got %d", got)
		}
	})

	t.Run("Histograms", func(t *testing.T) {
		mc.RecordProofGeneration(1 * time.Second)
		mc.RecordProofGeneration(3 * time.Second)
		h := mc.Summary().Histograms[MetricProofGenerationTime]
		if h.Count != 2 || h.Min != 1 || h.Max != 3 || h.Avg != 2 {
			t.Errorf("unexpected histogram %+v", h)
		}
	})

	t.Run("Labels are order independent", func(t *testing.T) {
		a := makeKey("m", map[string]string{"a": "1", "b": "2"})
		b := makeKey("m", map[string]string{"b": "2", "a": "1"})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})

	t.Run("Gauge", func(t *testing.T) {
		mc.RecordCircuitCompile("encryption", time.Millisecond, 1234)
		m := mc.GetMetric(MetricConstraintCount, map[string]string{"circuit": "encryption"})
		if m == nil || m.Value != 1234 || m.Type != Gauge {
			t.Errorf("unexpected metric %+v", m)
		}
	})

	t.Run("Histogram window", func(t *testing.T) {
		for i := 0; i < maxHistogramValues+10; i++ {
			mc.RecordProofVerification(time.Millisecond)
		}
		if got := mc.Summary().Histograms[MetricProofVerifyTime].Count; got != maxHistogramValues {
			t.Errorf("expected %d values, got %d", maxHistogramValues, got)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		mc.Reset()
		s := mc.Summary()
		if len(s.Counters)+len(s.Gauges)+len(s.Histograms) != 0 {
			t.Errorf("metrics left after reset: %+v", s)
		}
	})
}

func TestMetricsConcurrent(t *testing.T) {
	mc := NewMetricsCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mc.RecordError("prove")
			}
		}()
	}
	wg.Wait()
	if got := mc.Summary().Counters[makeKey(MetricErrorCount, map[string]string{"type": "prove"})]; got != 800 {
		t.Fatalf("expected 800 errors, got %d", got)
	}
}
