package observability

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func attrMap(attrs []attribute.KeyValue) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value.AsString()
	}

	return m
}

func TestResourceAttrs_SessionScoped(t *testing.T) {
	got := attrMap(resourceAttrs(&TelemetryConfig{
		Version:   "0.0.1",
		Commit:    "abc123",
		SessionID: "sess-42",
	}))

	if got["service.instance.id"] != "sess-42" {
		t.Errorf("service.instance.id = %q, want %q", got["service.instance.id"], "sess-42")
	}
	if got["session.id"] != "sess-42" {
		t.Errorf("session.id = %q, want %q", got["session.id"], "sess-42")
	}
	if got["service.commit"] != "abc123" {
		t.Errorf("service.commit = %q, want %q", got["service.commit"], "abc123")
	}
}

func TestResourceAttrs_OmitsEmptySession(t *testing.T) {
	got := attrMap(resourceAttrs(&TelemetryConfig{Version: "0.0.1"}))

	if _, ok := got["session.id"]; ok {
		t.Error("session.id set without a session")
	}
	if got["service.name"] == "" {
		t.Error("service.name missing")
	}
	if got["service.namespace"] != "replkit" {
		t.Errorf("service.namespace = %q, want %q", got["service.namespace"], "replkit")
	}
}
