package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"receipt_data", "MIIT...",
		"meal_type", "diner",
	})
	if len(out) != 6 {
		t.Fatalf("len: want=6 got=%d", len(out))
	}
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("expected secrets redacted, got %v", out)
	}
	if out[5] != "diner" {
		t.Fatalf("expected plain value kept, got %v", out[5])
	}
}

func TestSanitizeKVsHashesUserID(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "0b8f2c55-6f3e-4c1a-9d44-1f1e7a1b2c3d"})
	got, _ := out[1].(string)
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("unexpected hashed value: %q", got)
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"status", 200, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}
