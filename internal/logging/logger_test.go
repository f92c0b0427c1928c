package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &fields); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return fields
}

func TestWithStoryRedactsContent(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	logger := WithStory(WithSession(base, "s-1"), "ana", "a1", "https://cdn.example.com/a1.jpg?sig=abc123&w=400")
	logger.Info().Msg("story started")

	fields := decodeLine(t, &buf)
	if fields["session_id"] != "s-1" || fields["user_id"] != "ana" || fields["story_id"] != "a1" {
		t.Fatalf("unexpected context fields: %v", fields)
	}
	content, _ := fields["content"].(string)
	if strings.Contains(content, "abc123") {
		t.Fatalf("content not redacted: %q", content)
	}
	if !strings.Contains(content, "w=400") {
		t.Fatalf("content lost harmless params: %q", content)
	}
}

func TestWithStoryOmitsEmptyContent(t *testing.T) {
	var buf bytes.Buffer
	logger := WithStory(zerolog.New(&buf), "ana", "a1", "")
	logger.Info().Msg("x")

	if _, ok := decodeLine(t, &buf)["content"]; ok {
		t.Fatal("content field should be omitted")
	}
}

func TestWithUser(t *testing.T) {
	var buf bytes.Buffer
	logger := WithUser(zerolog.New(&buf), "ben")
	logger.Info().Msg("x")

	if got := decodeLine(t, &buf)["user_id"]; got != "ben" {
		t.Fatalf("user_id = %v, want ben", got)
	}
}

func TestInitJSONAndLevel(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	logger := Component("viewer")
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	logger.Warn().Msg("shown")
	if got := decodeLine(t, &buf)["component"]; got != "viewer" {
		t.Fatalf("component = %v, want viewer", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"trace":   zerolog.TraceLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
