package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/scenesync/internal/errors"
	"github.com/vango-dev/scenesync/pkg/events"
	"github.com/vango-dev/scenesync/pkg/protocol"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Path != DefaultScenePath {
		t.Errorf("Server.Path = %q, want %q", cfg.Server.Path, DefaultScenePath)
	}
	if cfg.UnbindMode() != events.UnbindExplicit {
		t.Errorf("UnbindMode() = %v, want explicit", cfg.UnbindMode())
	}
	if !cfg.StyleMemo() {
		t.Error("StyleMemo() = false, want true")
	}
	if cfg.Transport.MaxFramePayload != protocol.MaxPayloadSize {
		t.Errorf("MaxFramePayload = %d, want %d", cfg.Transport.MaxFramePayload, protocol.MaxPayloadSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	var se *errors.SceneError
	if !errors.As(err, &se) || se.Code != "E100" {
		t.Fatalf("Load() on empty dir = %v, want E100", err)
	}

	configJSON := `{
  "server": {"host": "0.0.0.0", "port": 9000},
  "engine": {"unbindMode": "noop", "styleMemo": false},
  "transport": {"maxFramePayload": 4096, "maxCommands": 128, "writeTimeout": "250ms"},
  "log": {"level": "debug", "json": true},
  "capture": {"bucket": "frames"},
  "stylesheet": "styles.yaml"
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got := cfg.Address(); got != "0.0.0.0:9000" {
		t.Errorf("Address() = %q", got)
	}
	if cfg.Server.Path != DefaultScenePath {
		t.Errorf("Server.Path = %q, want default", cfg.Server.Path)
	}
	if cfg.UnbindMode() != events.UnbindNoop {
		t.Errorf("UnbindMode() = %v, want noop", cfg.UnbindMode())
	}
	if cfg.StyleMemo() {
		t.Error("StyleMemo() = true, want false")
	}
	if cfg.WriteTimeout() != 250*time.Millisecond {
		t.Errorf("WriteTimeout() = %v", cfg.WriteTimeout())
	}
	if lvl, err := cfg.LogLevel(); err != nil || lvl != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, %v", lvl, err)
	}
	if cfg.Capture.Prefix != DefaultCapturePrefix {
		t.Errorf("Capture.Prefix = %q, want %q", cfg.Capture.Prefix, DefaultCapturePrefix)
	}
	if got, want := cfg.StylesheetPath(), filepath.Join(tmpDir, "styles.yaml"); got != want {
		t.Errorf("StylesheetPath() = %q, want %q", got, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var se *errors.SceneError
	if !errors.As(err, &se) || se.Code != "E101" {
		t.Fatalf("LoadFile() = %v, want E101", err)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save() without a path succeeded")
	}

	cfg.Server.Port = 8123
	cfg.Engine.UnbindMode = "noop"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Server.Port != 8123 || loaded.UnbindMode() != events.UnbindNoop {
		t.Errorf("reloaded config = %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"port too low", func(c *Config) { c.Server.Port = -1 }, "E102"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "E102"},
		{"unbind mode", func(c *Config) { c.Engine.UnbindMode = "lazy" }, "E103"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "E104"},
		{"payload too small", func(c *Config) { c.Transport.MaxFramePayload = 10 }, "E106"},
		{"payload too large", func(c *Config) { c.Transport.MaxFramePayload = 1 << 20 }, "E106"},
		{"negative commands", func(c *Config) { c.Transport.MaxCommands = -1 }, "E106"},
		{"write timeout", func(c *Config) { c.Transport.WriteTimeout = "soon" }, "E106"},
		{"capture both", func(c *Config) { c.Capture.Dir, c.Capture.Bucket = "out", "b" }, "E107"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			var se *errors.SceneError
			if !errors.As(err, &se) {
				t.Fatalf("Validate() = %v, want %s", err, tt.code)
			}
			if se.Code != tt.code {
				t.Errorf("Code = %q, want %q", se.Code, tt.code)
			}
		})
	}
}

func TestMetricsEnabled(t *testing.T) {
	cfg := New()
	if !cfg.MetricsEnabled() {
		t.Error("metrics disabled by default")
	}
	cfg.Server.MetricsPath = "-"
	if cfg.MetricsEnabled() {
		t.Error("metrics enabled with path \"-\"")
	}
}

func TestCaptureDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	cfg.configPath = filepath.Join(tmpDir, ConfigFileName)

	if cfg.CaptureDir() != "" {
		t.Errorf("CaptureDir() = %q, want empty", cfg.CaptureDir())
	}
	cfg.Capture.Dir = "frames"
	if got, want := cfg.CaptureDir(), filepath.Join(tmpDir, "frames"); got != want {
		t.Errorf("CaptureDir() = %q, want %q", got, want)
	}
	cfg.Capture.Dir = "/var/frames"
	if got := cfg.CaptureDir(); got != "/var/frames" {
		t.Errorf("CaptureDir() = %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nested); err == nil {
		t.Error("FindProjectRoot() found a root without a config file")
	}

	if err := New().SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists() = false after SaveTo")
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(tmpDir)
	got, _ := filepath.EvalSymlinks(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Host != DefaultHost || cfg.Server.Port != DefaultPort {
		t.Errorf("server defaults not applied: %+v", cfg.Server)
	}
	if cfg.Engine.StyleMemo == nil || !*cfg.Engine.StyleMemo {
		t.Error("StyleMemo default not applied")
	}
	if cfg.Transport.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %q", cfg.Transport.WriteTimeout)
	}
	if cfg.Capture.Prefix != "" {
		t.Errorf("Capture.Prefix = %q without a bucket", cfg.Capture.Prefix)
	}
}
