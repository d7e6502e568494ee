package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandlerMasksSensitiveKeys verifies that cookie and credential
// attributes never reach the log output in clear text.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "cookie header", key: "cookie", value: "wordpress_logged_in=abc123"},
		{name: "clearance cookie", key: "cf_clearance", value: "tokenvalue"},
		{name: "authorization", key: "Authorization", value: "Bearer xyz"},
		{name: "keyword match", key: "session_cookie", value: "abc"},
		{name: "password keyword", key: "db_password", value: "hunter2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, true)
			logger.Info("fetch", tt.key, tt.value)

			out := buf.String()
			if strings.Contains(out, tt.value) {
				t.Errorf("sensitive value %q leaked into log output: %s", tt.value, out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in output: %s", out)
			}
		})
	}
}

// TestSecureHandlerPassesOrdinaryAttrs verifies normal attributes are untouched.
func TestSecureHandlerPassesOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("fetched article",
		"url", "https://www.nrinow.news/2025/03/20/fire-station",
		"images", 3,
	)

	out := buf.String()
	if !strings.Contains(out, "fire-station") {
		t.Errorf("ordinary attribute was altered: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("ordinary attribute was masked: %s", out)
	}
}

// TestSecureHandlerMasksGroupedAttrs verifies group attributes are sanitized
// recursively.
func TestSecureHandlerMasksGroupedAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, true)
	logger.Info("session opened",
		slog.Group("browser",
			slog.String("cookie", "secretvalue"),
			slog.String("mode", "minimized"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "secretvalue") {
		t.Errorf("grouped sensitive value leaked: %s", out)
	}
	if !strings.Contains(out, "minimized") {
		t.Errorf("grouped ordinary value was altered: %s", out)
	}
}

// TestSecureHandlerVerbosity verifies the level switch.
func TestSecureHandlerVerbosity(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, false)
	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("debug output at warn level: %s", buf.String())
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn output missing")
	}
}
