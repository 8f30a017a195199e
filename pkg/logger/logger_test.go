package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       Level
		expected    []string
		notExpected []string
	}{
		{
			name:     "debug level shows all",
			level:    DebugLevel,
			expected: []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", "debug message", "error message"},
		},
		{
			name:        "info level hides debug",
			level:       InfoLevel,
			expected:    []string{"[INFO]", "[WARN]", "[ERROR]"},
			notExpected: []string{"[DEBUG]", "debug message"},
		},
		{
			name:        "warn level hides debug and info",
			level:       WarnLevel,
			expected:    []string{"[WARN]", "[ERROR]"},
			notExpected: []string{"[DEBUG]", "[INFO]"},
		},
		{
			name:        "error level shows only errors",
			level:       ErrorLevel,
			expected:    []string{"[ERROR]"},
			notExpected: []string{"[DEBUG]", "[INFO]", "[WARN]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level)

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")

			output := buf.String()
			for _, want := range tt.expected {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
			for _, unwanted := range tt.notExpected {
				if strings.Contains(output, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, output)
				}
			}
		})
	}
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, ErrorLevel)

	l.Info("hidden")
	l.SetLevel(InfoLevel)
	l.Info("visible")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("message below level was logged: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("message at level was not logged: %s", output)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Warn("unclosed block %q in %s:%d:%d", "resource", "main.tf", 3, 42)

	output := buf.String()
	if !strings.Contains(output, `unclosed block "resource" in main.tf:3:42`) {
		t.Errorf("formatted message not found: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"Warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"verbose", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
