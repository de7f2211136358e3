package telemetry

import (
	"context"
	"testing"
)

func TestTracerBeforeSetupIsNoop(t *testing.T) {
	_, span := Tracer("world").Start(context.Background(), "level.generate")
	defer span.End()

	if span.IsRecording() {
		t.Error("span should not record before Setup")
	}
	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
}
