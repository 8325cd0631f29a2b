package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink, err := Setup(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		log.SetOutput(os.Stderr)
		sink.Close()
	}()

	log.Println("pipeline started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "pipeline started") {
		t.Errorf("log file missing entry: %q", string(data))
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink, err := Setup(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		log.SetOutput(os.Stderr)
		sink.Close()
	}()

	if _, err := sink.Write([]byte("old entry\n")); err != nil {
		t.Fatal(err)
	}

	// Push the counter past the cap; the next write must rotate.
	sink.mu.Lock()
	sink.written = maxLogSize
	sink.mu.Unlock()

	if _, err := sink.Write([]byte("entry after cap\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Write([]byte("fresh entry\n")); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("backup file not created: %v", err)
	}
	if !strings.Contains(string(backup), "old entry") {
		t.Errorf("backup missing rotated content: %q", string(backup))
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(current), "old entry") {
		t.Error("current file still holds pre-rotation content")
	}
	if !strings.Contains(string(current), "fresh entry") {
		t.Errorf("current file missing post-rotation entry: %q", string(current))
	}
}
