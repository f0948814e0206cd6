package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInitWriterProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := InitWriter(&buf, false, "")

	log.Debug("hidden")
	log.Info("workout created", "user_id", "u1")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line written at info level: %q", line)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if entry["msg"] != "workout created" || entry["user_id"] != "u1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInitWriterDevelopmentUsesText(t *testing.T) {
	var buf bytes.Buffer
	log := InitWriter(&buf, true, "")

	log.Debug("verbose", "k", "v")

	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("expected text debug line, got %q", buf.String())
	}
}
