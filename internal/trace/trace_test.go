package trace

import (
	"context"
	"testing"
)

func TestInitDisabled(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "false")

	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Enabled() {
		t.Fatal("tracing enabled despite LOG_TRACING_ENABLED=false")
	}

	_, span := StartSpan(context.Background(), "cycle")
	if span.SpanContext().IsValid() {
		t.Error("disabled tracer produced a recording span")
	}
	if _, _, ok := GetTraceFields(context.Background()); ok {
		t.Error("trace fields reported while disabled")
	}
}

func TestSampleRatio(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"", 1.0},
		{"0.25", 0.25},
		{"0", 0},
		{"1", 1.0},
		{"2.5", 1.0}, // clamped
		{"-1", 1.0},  // invalid, default
		{"abc", 1.0}, // invalid, default
	}
	for _, tt := range tests {
		t.Setenv("LOG_TRACE_SAMPLE", tt.value)
		if got := sampleRatio(); got != tt.want {
			t.Errorf("sampleRatio(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
