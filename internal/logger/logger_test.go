package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRollingWriterDefaultsToWorkdirLogs(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	_, got, err := rollingWriter(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}

	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGot, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve got dir symlink failed: %v", err)
	}
	expectedDir := filepath.Join(realTmpDir, defaultLogDirName)
	if realGot != expectedDir {
		t.Fatalf("unexpected log dir: got=%s expected=%s", realGot, expectedDir)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if _, err := os.Stat(filepath.Dir(got)); err != nil {
		t.Fatalf("expected log dir to be created: %v", err)
	}
}

func TestNewReleaseWritesToConfiguredFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "release.log",
	}
	log := New("release", cfg)
	log.Info("release-log-test")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	if !strings.Contains(string(content), "release-log-test") {
		t.Fatalf("expected log content to contain message, got=%s", string(content))
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := Options{
		Dir:      tmpDir,
		Filename: "debug.log",
	}
	log := New("debug", cfg)
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestWithContextCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := L
	L = zap.New(core)
	t.Cleanup(func() { L = previous })

	ctx := WithRequest(context.Background(), "req-1")
	ctx = WithUser(ctx, 7)
	FromContext(ctx).Infow("order_created", "order_id", 12)

	entries := logs.FilterMessage("order_created").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["user_id"] != uint64(7) || fields["order_id"] != int64(12) {
		t.Fatalf("unexpected fields: %+v", fields)
	}
	if FromContext(context.Background()) == nil {
		t.Fatalf("expected global logger without scoped fields")
	}
}

func TestDomainFieldHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	previous := L
	L = zap.New(core)
	t.Cleanup(func() { L = previous })

	FromContext(WithOrder(context.Background(), 12, "VS20261018093000123456")).Infow("order_status_updated")
	FromContext(WithOrder(context.Background(), 13, "")).Infow("order_pending_number")
	FromContext(WithTask(context.Background(), "task-9", "order:created")).Debugw("worker_task_done")
	FromContext(WithEvent(context.Background(), "evt-1", 14)).Warnw("worker_order_created_notify_failed")
	ForRequest("req-2").Errorw("handler_error")
	ForRequest("").Infow("no_request")

	cases := []struct {
		message string
		want    map[string]interface{}
		absent  []string
	}{
		{"order_status_updated", map[string]interface{}{FieldOrderID: uint64(12), FieldOrderNumber: "VS20261018093000123456"}, nil},
		{"order_pending_number", map[string]interface{}{FieldOrderID: uint64(13)}, []string{FieldOrderNumber}},
		{"worker_task_done", map[string]interface{}{FieldTaskID: "task-9", FieldTaskType: "order:created"}, nil},
		{"worker_order_created_notify_failed", map[string]interface{}{FieldEventID: "evt-1", FieldOrderID: uint64(14)}, nil},
		{"handler_error", map[string]interface{}{FieldRequestID: "req-2"}, nil},
		{"no_request", map[string]interface{}{}, []string{FieldRequestID}},
	}
	for _, tc := range cases {
		entries := logs.FilterMessage(tc.message).All()
		if len(entries) != 1 {
			t.Fatalf("%s: expected one entry, got %d", tc.message, len(entries))
		}
		fields := entries[0].ContextMap()
		for key, want := range tc.want {
			if fields[key] != want {
				t.Fatalf("%s: field %s want %v got %v", tc.message, key, want, fields[key])
			}
		}
		for _, key := range tc.absent {
			if _, ok := fields[key]; ok {
				t.Fatalf("%s: field %s should be absent", tc.message, key)
			}
		}
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		raw   string
		debug bool
		want  zapcore.Level
	}{
		{raw: "", debug: true, want: zap.DebugLevel},
		{raw: "", debug: false, want: zap.InfoLevel},
		{raw: "warn", debug: true, want: zap.WarnLevel},
		{raw: "loud", debug: false, want: zap.InfoLevel},
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.raw, tc.debug).Level(); got != tc.want {
			t.Fatalf("resolveLevel(%q, %v) want %s got %s", tc.raw, tc.debug, tc.want, got)
		}
	}
}

func TestOptionsNormalized(t *testing.T) {
	got, err := Options{Dir: " /var/log/vestra ", Filename: " ", MaxSizeMB: -1, MaxBackups: 3}.normalized()
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if got.Dir != "/var/log/vestra" || got.Filename != defaultLogFilename {
		t.Fatalf("unexpected location %s/%s", got.Dir, got.Filename)
	}
	if got.MaxSizeMB != defaultLogMaxSizeMB || got.MaxBackups != 3 || got.MaxAgeDays != defaultLogMaxAgeDays {
		t.Fatalf("unexpected rotation %+v", got)
	}
}
