package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetState clears package globals between tests. The logger is a process
// singleton, so tests serialize through it.
func resetState() {
	CloseAll()
	logsDir = ""
	dataDir = ""
	config = loggingConfig{}
	logLevel = LevelInfo
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInitialize_NoConfigIsSilent(t *testing.T) {
	defer resetState()
	dir := t.TempDir()

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsDebugMode() {
		t.Error("expected production mode without config")
	}
	if _, err := os.Stat(filepath.Join(dir, "logs")); !os.IsNotExist(err) {
		t.Error("logs dir should not be created in production mode")
	}
}

func TestInitialize_DebugModeWritesFiles(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode")
	}

	Get(CategoryModules).Info("registered module %s", "demo.mod")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_modules.log") {
			found = true
			data, _ := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
			if !strings.Contains(string(data), "registered module demo.mod") {
				t.Errorf("log content missing message: %s", data)
			}
		}
	}
	if !found {
		t.Error("expected a modules log file")
	}
}

func TestCategoryFilter(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  debug_mode: true\n  categories:\n    shell: false\n")

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if IsCategoryEnabled(CategoryShell) {
		t.Error("shell category should be disabled")
	}
	if !IsCategoryEnabled(CategoryMemory) {
		t.Error("unlisted categories default to enabled")
	}

	// Disabled category yields a no-op logger that never panics.
	Get(CategoryShell).Info("should go nowhere")
}

func TestLevelFilter(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  debug_mode: true\n  level: warn\n")

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryHAL)
	l.Info("info suppressed")
	l.Warn("warn kept")
	CloseAll()

	entries, _ := os.ReadDir(filepath.Join(dir, "logs"))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_hal.log") {
			data, _ := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
			if strings.Contains(string(data), "info suppressed") {
				t.Error("info line should be filtered at warn level")
			}
			if !strings.Contains(string(data), "warn kept") {
				t.Error("warn line missing")
			}
		}
	}
}

func TestTimer(t *testing.T) {
	defer resetState()
	dir := t.TempDir()
	writeConfig(t, dir, "logging:\n  debug_mode: true\n  level: debug\n")

	if err := Initialize(dir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	timer := StartTimer(CategoryMemory, "store_cloud")
	if timer.Stop() < 0 {
		t.Error("elapsed time should be non-negative")
	}
}
