package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	config = loggingConfig{}
	logLevel = LevelInfo
}

// TestCategoriesLogInDebugMode tests that categories create log files when
// debug_mode is true
func TestCategoriesLogInDebugMode(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `
logging:
  debug_mode: true
  level: debug
  categories:
    boot: true
    browser: true
    orchestrator: true
    inject: true
    store: true
    server: true
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !IsDebugMode() {
		t.Fatal("expected debug mode on")
	}

	Orchestrator("phase 1 started for %d destinations", 3)
	InjectWarn("input not found for %s", "claude")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	var found []string
	for _, e := range entries {
		found = append(found, e.Name())
	}
	assertHasFileFor(t, found, "orchestrator")
	assertHasFileFor(t, found, "inject")
}

func assertHasFileFor(t *testing.T, names []string, category string) {
	t.Helper()
	for _, n := range names {
		if strings.Contains(n, category) {
			return
		}
	}
	t.Errorf("no log file for category %q in %v", category, names)
}

// TestNoLogsInProductionMode tests that nothing is written when debug_mode
// is absent or false
func TestNoLogsInProductionMode(t *testing.T) {
	tempDir := t.TempDir()

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Boot("should be dropped")
	Browser("should be dropped")

	if _, err := os.Stat(filepath.Join(tempDir, "logs")); !os.IsNotExist(err) {
		t.Error("logs dir should not exist in production mode")
	}
}

// TestRequestLoggerTagsLinesWithID tests that request-scoped lines carry the
// correlation id so one submission can be grepped out of interleaved output
func TestRequestLoggerTagsLinesWithID(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `
logging:
  debug_mode: true
  level: debug
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	rl := WithRequestID(CategoryOrchestrator, "a1b2c3d4")
	rl.Info("submitting to %d destinations", 2)
	rl.Warn("%s: window creation failed", "claude")

	timer := StartTimer(CategoryOrchestrator, "window placement")
	timer.Stop()

	CloseAll()

	content := readCategoryLog(t, tempDir, "orchestrator")
	if !strings.Contains(content, "[req:a1b2c3d4] submitting to 2 destinations") {
		t.Errorf("info line missing request id tag:\n%s", content)
	}
	if !strings.Contains(content, "[WARN] [req:a1b2c3d4] claude: window creation failed") {
		t.Errorf("warn line missing request id tag:\n%s", content)
	}
	if !strings.Contains(content, "window placement completed in") {
		t.Errorf("timer line missing:\n%s", content)
	}
}

func readCategoryLog(t *testing.T, dir, category string) string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), category) {
			data, err := os.ReadFile(filepath.Join(dir, "logs", e.Name()))
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}
			return string(data)
		}
	}
	t.Fatalf("no log file for category %q", category)
	return ""
}

func TestCategoryFiltering(t *testing.T) {
	tempDir := t.TempDir()

	configContent := `
logging:
  debug_mode: true
  level: info
  categories:
    browser: false
`
	if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsCategoryEnabled(CategoryBrowser) {
		t.Error("browser category should be disabled")
	}
	if !IsCategoryEnabled(CategoryOrchestrator) {
		t.Error("unlisted categories default to enabled")
	}

	// Disabled category must be a silent no-op, not a crash
	BrowserWarn("dropped")
}
