package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = orig
	}()

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read output: %v", err)
	}
	return strings.TrimSpace(buf.String())
}

func TestWriteReservedKeysWin(t *testing.T) {
	out := captureStdout(t, func() {
		Warn("events.publish_failed", map[string]any{
			"msg":   "spoofed",
			"error": errors.New("queue down"),
		})
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	if payload["msg"] != "events.publish_failed" {
		t.Fatalf("expected msg to be preserved, got %v", payload["msg"])
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["error"] != "queue down" {
		t.Fatalf("expected error string, got %v", payload["error"])
	}
}
