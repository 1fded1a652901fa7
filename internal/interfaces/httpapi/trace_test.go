package httpapi

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestStartHandlerSpan_NoParentIsNonRecording(t *testing.T) {
	ctx, span := startHandlerSpan(context.Background(), "GetFormation")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Fatalf("expected no span without a traced parent")
	}
	if trace.SpanFromContext(ctx) != span {
		t.Fatalf("expected context to be returned unchanged")
	}
}

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /readyz ", want: false},
		{path: "/LIVEZ", want: false},
		{path: "/v1/formations/7-a-side", want: true},
		{path: "/v1/events/e1/selection", want: true},
		{path: "/", want: true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}
