package build

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadCache(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir()}

	now := time.Now().Truncate(time.Second)
	cache := &buildCache{}
	cache.set("0.1.0", "x86_64-Linux_shared=false", &buildEntry{RunID: "run-1", BuildTime: now})

	if err := b.saveCache("hobgoblin", cache); err != nil {
		t.Fatalf("saveCache failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(b.workspaceDir, "hobgoblin", cacheFile)); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}

	loaded, err := b.loadCache("hobgoblin")
	if err != nil {
		t.Fatalf("loadCache failed: %v", err)
	}
	entry, ok := loaded.get("0.1.0", "x86_64-Linux_shared=false")
	if !ok {
		t.Fatal("entry missing after reload")
	}
	if entry.RunID != "run-1" {
		t.Errorf("RunID = %q, want %q", entry.RunID, "run-1")
	}
	if !entry.BuildTime.Truncate(time.Second).Equal(now) {
		t.Errorf("BuildTime mismatch: got %v, want %v", entry.BuildTime, now)
	}
	if _, ok := loaded.get("0.1.0", "x86_64-Linux_shared=true"); ok {
		t.Error("unexpected entry for another matrix")
	}
}

func TestLoadCache_NotExist(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir()}
	if _, err := b.loadCache("hobgoblin"); err == nil {
		t.Fatal("expected error for non-existent cache, got nil")
	}
}

func TestLoadCache_InvalidJSON(t *testing.T) {
	b := &Builder{workspaceDir: t.TempDir()}
	dir := filepath.Join(b.workspaceDir, "hobgoblin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, cacheFile), []byte("invalid json"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if _, err := b.loadCache("hobgoblin"); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestInstallDir(t *testing.T) {
	b := &Builder{workspaceDir: "/ws"}
	got, err := b.installDir("hobgoblin", "0.1.0", "x86_64-Linux")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/ws", "hobgoblin@0.1.0-x86_64-Linux"); got != want {
		t.Errorf("installDir = %q, want %q", got, want)
	}
	if _, err := b.installDir("../escape", "0.1.0", "m"); err == nil {
		t.Error("expected error for a path leaving the workspace")
	}
}
