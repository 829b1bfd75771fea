package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "true")
	out := sanitizeKVs([]interface{}{"gemini_api_key", "abc", "topic", "snack time"})
	if got := out[1]; got != "[REDACTED]" {
		t.Fatalf("api key: want=%q got=%v", "[REDACTED]", got)
	}
	if got := out[3]; got != "snack time" {
		t.Fatalf("topic: want=%q got=%v", "snack time", got)
	}
}

func TestSanitizeKVsHashesTeacherID(t *testing.T) {
	out := sanitizeKVs([]interface{}{"teacher_id", "teacher-42"})
	got, _ := out[1].(string)
	if !strings.HasPrefix(got, "hash:") {
		t.Fatalf("teacher_id: want hash prefix got=%q", got)
	}
	if strings.Contains(got, "teacher-42") {
		t.Fatalf("teacher_id leaked: %q", got)
	}
}

func TestSanitizeKVsSummarizesDataURL(t *testing.T) {
	payload := "data:image/png;base64," + strings.Repeat("A", 4096)
	out := sanitizeKVs([]interface{}{"image_url", payload})
	got, _ := out[1].(string)
	if got != "data:image/png;base64,[4096 bytes]" {
		t.Fatalf("image_url: got=%q", got)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 {
		t.Fatalf("len: want=3 got=%d", len(out))
	}
}
