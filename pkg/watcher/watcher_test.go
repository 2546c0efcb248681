package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchTriggersOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")
	if err := os.WriteFile(path, []byte("steps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := NewFileWatcher(50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewFileWatcher() error: %v", err)
	}
	defer fw.Close()

	changed := make(chan string, 10)
	if err := fw.Watch([]string{path}, func(p string) { changed <- p }); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	fw.Start()

	// several quick writes collapse into one callback
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("steps: [1]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-changed:
		want, _ := filepath.Abs(path)
		if got != want {
			t.Errorf("callback path = %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback not called")
	}

	select {
	case <-changed:
		t.Error("writes were not debounced")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnwatchedFileIgnored(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.yaml")
	other := filepath.Join(dir, "b.yaml")
	if err := os.WriteFile(watched, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	called := make(chan string, 1)
	if err := fw.Watch([]string{watched}, func(p string) { called <- p }); err != nil {
		t.Fatal(err)
	}
	fw.Start()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-called:
		t.Fatalf("unexpected callback for %s", p)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseEndsLoop(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	fw.Start()
	if err := fw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	select {
	case <-fw.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not stop")
	}
}
