package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestValidName(t *testing.T) {
	cases := map[string]bool{
		"ridge_loop.gpx": true,
		"Ridge Loop.gpx": true,
		"ridge.GPX":      false,
		"ridge.gpx.bak":  false,
		"../ridge.gpx":   false,
		"sub/ridge.gpx":  false,
		`sub\ridge.gpx`:  false,
		"ridge..gpx":     false,
		"":               false,
		"notes.txt":      false,
	}
	for name, want := range cases {
		if got := ValidName(name); got != want {
			t.Fatalf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	svc, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if svc.Dir() != dir {
		t.Fatalf("unexpected dir %q", svc.Dir())
	}

	if _, err := Open(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}

	writeFile(t, dir, "file.gpx", "<gpx/>")
	if _, err := Open(filepath.Join(dir, "file.gpx")); err == nil {
		t.Fatalf("expected error for regular file")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_track.gpx", "<gpx></gpx>")
	writeFile(t, dir, "a_track.gpx", "<gpx>a</gpx>")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "upper.GPX", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "folder.gpx"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := NewService(dir).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %+v", files)
	}
	if files[0].Name != "a_track.gpx" || files[1].Name != "b_track.gpx" {
		t.Fatalf("unexpected order: %+v", files)
	}
	if files[0].Size != int64(len("<gpx>a</gpx>")) {
		t.Fatalf("unexpected size %d", files[0].Size)
	}
	if files[0].Modified.IsZero() {
		t.Fatalf("expected modification time")
	}
}

func TestListMissingDir(t *testing.T) {
	_, err := NewService(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestListCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.gpx", "<gpx/>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewService(dir).List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ridge.gpx", "<gpx>ridge</gpx>")
	svc := NewService(dir)

	data, err := svc.Read(context.Background(), "ridge.gpx")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "<gpx>ridge</gpx>" {
		t.Fatalf("unexpected content %q", data)
	}

	if _, err := svc.Read(context.Background(), "missing.gpx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Read(context.Background(), "../ridge.gpx"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ridge.gpx", "<gpx>ridge</gpx>")

	f, info, err := NewService(dir).OpenFile(context.Background(), "ridge.gpx")
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if int64(len(data)) != info.Size || info.Name != "ridge.gpx" {
		t.Fatalf("unexpected info %+v for %d bytes", info, len(data))
	}
}

func TestStatDirectoryIsNotFound(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "folder.gpx"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := NewService(dir).Stat(context.Background(), "folder.gpx"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
