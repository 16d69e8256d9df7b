package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/scenesync/internal/config"
	"github.com/vango-dev/scenesync/pkg/capture"
	"github.com/vango-dev/scenesync/pkg/style"
)

func TestNewLogger(t *testing.T) {
	cfg := config.New()
	cfg.Log.Level = "debug"
	logger, err := newLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}

	cfg.Log.Level = "loud"
	if _, err := newLogger(cfg); errCode(err) != "E104" {
		t.Errorf("bad level: code = %q, want E104", errCode(err))
	}
}

func TestCaptureFactory(t *testing.T) {
	cfg := config.New()
	fn, err := captureFactory(cfg)
	if err != nil || fn != nil {
		t.Fatalf("no capture: got %v, %v", fn != nil, err)
	}

	dir := filepath.Join(t.TempDir(), "captures")
	cfg.Capture.Dir = dir
	fn, err = captureFactory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sink, err := fn("abc")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()
	fs, ok := sink.(*capture.FileSink)
	if !ok {
		t.Fatalf("sink = %T, want *capture.FileSink", sink)
	}
	if want := filepath.Join(dir, "abc.scn"); fs.Path() != want {
		t.Errorf("path = %q, want %q", fs.Path(), want)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("capture dir not created: %v", err)
	}

	cfg = config.New()
	cfg.Capture.Bucket = "frames"
	cfg.Capture.Prefix = "captures/"
	cfg.Capture.Region = "us-east-1"
	fn, err = captureFactory(cfg)
	if err != nil {
		t.Fatal(err)
	}
	sink, err = fn("abc")
	if err != nil {
		t.Fatal(err)
	}
	s3, ok := sink.(*capture.S3Sink)
	if !ok {
		t.Fatalf("sink = %T, want *capture.S3Sink", sink)
	}
	if !strings.HasSuffix(s3.Key(), "abc.scn") || !strings.HasPrefix(s3.Key(), "captures/") {
		t.Errorf("key = %q", s3.Key())
	}
}

func TestDemoApp(t *testing.T) {
	sheet := style.DefaultSheet()
	for _, name := range []string{"counter", "document"} {
		if h, err := demoApp(name, sheet); err != nil || h == nil {
			t.Errorf("demoApp(%q) = %v, %v", name, h != nil, err)
		}
	}
	if _, err := demoApp("todo", sheet); err == nil {
		t.Error("unknown app accepted")
	}
}
