package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testLogger struct {
	entries []string
}

func (l *testLogger) Info(_ map[string]any, msg string)  { l.entries = append(l.entries, "INFO:"+msg) }
func (l *testLogger) Error(_ map[string]any, msg string) { l.entries = append(l.entries, "ERROR:"+msg) }
func (l *testLogger) Debug(_ map[string]any, msg string) { l.entries = append(l.entries, "DEBUG:"+msg) }
func (l *testLogger) Warn(_ map[string]any, msg string)  { l.entries = append(l.entries, "WARN:"+msg) }
func (l *testLogger) Panic(_ map[string]any, msg string) {}
func (l *testLogger) Fatal(_ map[string]any, msg string) {}

func TestActualZapLogger(t *testing.T) {
	Debug(map[string]any{"file": "a.json", "line": 42}, "test debug")
	Info(nil, "test info")
	Warn(nil, "test warn")
	Error(nil, "test error")

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic, but none occurred")
		}
	}()
	Panic(nil, "test panic")
}

func TestSetLoggerAndGlobalLogging(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	tlog := &testLogger{}
	SetLogger(tlog)

	Info(nil, "info msg")
	Error(nil, "error msg")
	Debug(nil, "debug msg")
	Warn(nil, "warn msg")

	assert.Equal(t, []string{
		"INFO:info msg",
		"ERROR:error msg",
		"DEBUG:debug msg",
		"WARN:warn msg",
	}, tlog.entries)
}

func TestConfigure(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	tests := []struct {
		env     string
		level   string
		wantErr bool
	}{
		{"dev", "debug", false},
		{"prod", "info", false},
		{"prod", "WARN", false},
		{"dev", "error", false},
		{"dev", "notalevel", true},
	}

	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			err := Configure(tt.env, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &zapLogger{}, GetLogger())
		})
	}
}

func TestZapLogger_FieldsAreSorted(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &zapLogger{base: zap.New(core)}

	l.Warn(map[string]any{"line": 7, "file": "query.log", "error": "boom"}, "querylog_malformed_line")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "querylog_malformed_line", entries[0].Message)

	keys := make([]string, 0, len(entries[0].Context))
	for _, f := range entries[0].Context {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"error", "file", "line"}, keys)
}

func TestNoopLogger_AllLevels(t *testing.T) {
	orig := GetLogger()
	defer SetLogger(orig)

	SetLogger(NewNoopLogger())

	Debug(nil, "debug message")
	Info(nil, "info message")
	Warn(nil, "warn message")
	Error(nil, "error message")
	Panic(nil, "panic message")
	Fatal(nil, "fatal message")
}
