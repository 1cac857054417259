// FILE: faultline/src/internal/format/json_test.go
package format

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"faultline/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coreKeys = []string{KeyTimestamp, KeyLevel, KeyLogger, KeyMessage, KeyFunction, KeyLine}

func TestJSONFormatter_Format(t *testing.T) {
	logger := newTestLogger()
	event := testEvent()

	t.Run("CoreKeys", func(t *testing.T) {
		formatter, err := NewJSONFormatter(nil, logger)
		require.NoError(t, err)

		output, err := formatter.Format(event)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result), "Output should be valid JSON")

		for _, key := range coreKeys {
			assert.Contains(t, result, key)
		}
		assert.Equal(t, event.Time.Format(time.RFC3339Nano), result["timestamp"])
		assert.Equal(t, "ERROR", result["level"])
		assert.Equal(t, "app", result["logger"])
		assert.Equal(t, "payment failed", result["message"])
		assert.Equal(t, "(*Handler).Pay", result["function"])
		assert.Equal(t, float64(42), result["line"])
		assert.NotContains(t, result, "exception")
		assert.True(t, strings.HasSuffix(string(output), "\n"), "Output should end with a newline")
	})

	t.Run("ExceptionBlock", func(t *testing.T) {
		withExc := event
		withExc.Exception = &core.Exception{
			Type:    "StorageError",
			Message: "connection timeout",
			Trace:   "StorageError: connection timeout",
		}
		formatter, err := NewJSONFormatter(nil, logger)
		require.NoError(t, err)

		output, err := formatter.Format(withExc)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))

		exc, ok := result["exception"].(map[string]any)
		require.True(t, ok, "exception should be a nested object")
		assert.Equal(t, "StorageError", exc["type"])
		assert.Equal(t, "connection timeout", exc["message"])
		assert.NotEmpty(t, exc["trace"])
	})

	t.Run("ExtrasMergedWithoutOverwritingCoreKeys", func(t *testing.T) {
		withExtra := event
		withExtra.Extra = map[string]string{
			"request_id": "abc-123",
			"level":      "DEBUG",
			"message":    "spoofed",
			"exception":  "spoofed",
		}
		formatter, err := NewJSONFormatter(nil, logger)
		require.NoError(t, err)

		output, err := formatter.Format(withExtra)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))

		assert.Equal(t, "abc-123", result["request_id"])
		assert.Equal(t, "ERROR", result["level"], "Fixed key should take precedence")
		assert.Equal(t, "payment failed", result["message"])
		assert.NotContains(t, result, "exception")
	})

	t.Run("PrettyFormatting", func(t *testing.T) {
		formatter, err := NewJSONFormatter(map[string]any{"pretty": true}, logger)
		require.NoError(t, err)

		output, err := formatter.Format(event)
		require.NoError(t, err)

		assert.Contains(t, string(output), `  "level": "ERROR"`)
		assert.True(t, strings.HasSuffix(string(output), "\n"))
	})

	t.Run("CustomTimestampFormat", func(t *testing.T) {
		formatter, err := NewJSONFormatter(map[string]any{"timestamp_format": "2006-01-02"}, logger)
		require.NoError(t, err)

		output, err := formatter.Format(event)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, "2023-10-27", result["timestamp"])
	})
}

func TestJSONFormatter_EveryLevelParses(t *testing.T) {
	formatter, err := NewJSONFormatter(nil, newTestLogger())
	require.NoError(t, err)

	for _, sev := range core.Severities() {
		event := testEvent()
		event.Severity = sev
		event.Extra = map[string]string{"line": "spoofed", "user": "u1"}
		if sev >= core.SeverityError {
			event.Exception = &core.Exception{Type: "GenericError", Message: "boom", Trace: "GenericError: boom"}
		}

		output, err := formatter.Format(event)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result), sev.String())
		for _, key := range coreKeys {
			assert.Contains(t, result, key, sev.String())
		}
		assert.Equal(t, float64(42), result["line"])
		assert.Equal(t, sev.String(), result["level"])
		if sev >= core.SeverityError {
			exc, ok := result["exception"].(map[string]any)
			require.True(t, ok)
			assert.NotEmpty(t, exc)
		}
	}
}
