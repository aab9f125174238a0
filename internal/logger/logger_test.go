package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf)

	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "sync started",
			fields:  Fields{"feed_url": "https://example.com/rss/"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false, // won't log (below INFO)
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "sync failed",
			err:     errors.New("connection refused"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Fatalf("log() logged = %v, want %v", logged, tt.want)
			}
			if !logged {
				return
			}

			var entry LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
			}
			if entry.Message != tt.message || entry.Level != string(tt.level) {
				t.Errorf("entry = %+v, want message %q level %s", entry, tt.message, tt.level)
			}
			if tt.err != nil && entry.Error != tt.err.Error() {
				t.Errorf("Error = %q, want %q", entry.Error, tt.err.Error())
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(LevelDebug, &buf)
	child := base.With(Fields{"run_id": "abc", "component": "ingest"})

	child.Warn("skipping item", Fields{"component": "scraper", "link": "https://example.com/x"})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := map[string]interface{}{"run_id": "abc", "component": "scraper", "link": "https://example.com/x"}
	for k, v := range want {
		if entry.Fields[k] != v {
			t.Errorf("field %s = %v, want %v", k, entry.Fields[k], v)
		}
	}

	buf.Reset()
	base.Info("no fields", nil)
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("With() leaked fields into the parent logger: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"", LevelInfo, false},
		{"verbose", "", true},
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

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.AddCounter("sync.inserted", 2)
	m.AddCounter("sync.inserted", 3)

	snapshot := m.GetSnapshot()
	counters := snapshot["counters"].(map[string]int64)

	if counters["sync.inserted"] != 5 {
		t.Errorf("Counter = %v, want 5", counters["sync.inserted"])
	}
	if got := m.Counter("sync.updated"); got != 0 {
		t.Errorf("Counter(unset) = %v, want 0", got)
	}
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics()

	m.SetGauge("store.records", 12)
	m.SetGauge("store.records", 14)

	snapshot := m.GetSnapshot()
	gauges := snapshot["gauges"].(map[string]float64)

	if gauges["store.records"] != 14 {
		t.Errorf("Gauge = %v, want 14", gauges["store.records"])
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("sync.duration", 100*time.Millisecond)
	m.RecordTiming("sync.duration", 200*time.Millisecond)
	m.RecordTiming("sync.duration", 150*time.Millisecond)

	snapshot := m.GetSnapshot()
	timings := snapshot["timings"].(map[string]map[string]interface{})

	syncTiming := timings["sync.duration"]
	if syncTiming["count"].(int) != 3 {
		t.Errorf("Timing count = %v, want 3", syncTiming["count"])
	}

	if syncTiming["min"].(string) != "100ms" {
		t.Errorf("Min timing = %v, want 100ms", syncTiming["min"])
	}

	if syncTiming["max"].(string) != "200ms" {
		t.Errorf("Max timing = %v, want 200ms", syncTiming["max"])
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	previous := Default()
	SetDefault(New(LevelDebug, &buf))
	defer SetDefault(previous)

	Default().Info("test info", Fields{"key": "value"})
	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("default logger output = %q, want the info line", buf.String())
	}

	before := defaultMetrics.Counter("test")
	AddCounter("test", 3)
	SetGauge("test", 42.0)
	RecordTiming("test", time.Second)

	if got := defaultMetrics.Counter("test") - before; got != 3 {
		t.Errorf("Counter delta = %d, want 3", got)
	}
	if GetMetricsSnapshot() == nil {
		t.Error("GetMetricsSnapshot() returned nil")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.minLevel, &buf)

			logger.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}
