package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitialize_RequiresWorkspace(t *testing.T) {
	if err := Initialize(""); err == nil {
		t.Fatal("Initialize(\"\") error = nil, want error")
	}
}

func TestGet_NoOpWhenDebugDisabled(t *testing.T) {
	SetDebug(false)
	t.Cleanup(CloseAll)

	l := Get(CategoryLoop)
	if l.logger != nil {
		t.Fatal("expected no-op logger when debug mode is disabled")
	}
	// Must not panic.
	l.Info("ignored %d", 1)
	l.Error("ignored")
}

func TestLogger_WritesToCategoryFile(t *testing.T) {
	ws := t.TempDir()
	SetDebug(true)
	t.Cleanup(func() {
		CloseAll()
		SetDebug(false)
		logsDir = ""
	})

	if err := Initialize(ws); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	Knowledge("lookup returned %d matches", 3)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".sourcerer", "logs"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}

	var found bool
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_knowledge.log") {
			found = true
			data, err := os.ReadFile(filepath.Join(ws, ".sourcerer", "logs", e.Name()))
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if !strings.Contains(string(data), "lookup returned 3 matches") {
				t.Fatalf("log file missing message, got: %s", data)
			}
		}
	}
	if !found {
		t.Fatal("no knowledge category log file written")
	}
}

func TestSetLevel_FiltersBelowThreshold(t *testing.T) {
	SetLevel("error")
	t.Cleanup(func() { SetLevel("info") })

	if got := currentLevel(); got != LevelError {
		t.Fatalf("currentLevel() = %d, want %d", got, LevelError)
	}

	SetLevel("bogus")
	if got := currentLevel(); got != LevelInfo {
		t.Fatalf("currentLevel() after bogus = %d, want %d", got, LevelInfo)
	}
}
