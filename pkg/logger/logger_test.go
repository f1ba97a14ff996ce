package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	decoder := json.NewDecoder(buf)
	for decoder.More() {
		entry := map[string]any{}
		if err := decoder.Decode(&entry); err != nil {
			t.Fatalf("decoding log line: %v", err)
		}
		out = append(out, entry)
	}
	return out
}

func TestInfoCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	logg.Info(context.Background(), "hello")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
	if lines[0]["service"] != "api" {
		t.Fatalf("expected service field, got %v", lines[0])
	}
}

func TestContextFieldsAccumulate(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithUserID(ctx, "user-1")
	ctx = logg.WithDepartment(ctx, "Physics")
	logg.Info(ctx, "scoped")

	lines := decodeLines(t, &buf)
	entry := lines[0]
	if entry["request_id"] != "req-1" || entry["user_id"] != "user-1" || entry["department"] != "Physics" {
		t.Fatalf("expected accumulated fields, got %v", entry)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "api", Level: zerolog.WarnLevel, Output: &buf})

	logg.Info(context.Background(), "dropped")
	logg.Warn(context.Background(), "kept")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected only warn line, got %d", len(lines))
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatal("expected info fallback for unknown level")
	}
	if ParseLevel("warn") != zerolog.WarnLevel {
		t.Fatal("expected warn level to parse")
	}
}
