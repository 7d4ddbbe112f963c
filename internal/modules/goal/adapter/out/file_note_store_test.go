package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	goaloutadapter "goalplan/internal/modules/goal/adapter/out"
	"goalplan/internal/modules/goal/domain"
	"goalplan/internal/modules/goal/service"
)

func exportNote(t *testing.T, id int64, title string) (string, []byte) {
	t.Helper()
	name, content, err := service.RenderNote(domain.Goal{ID: id, Title: title})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return name, content
}

func TestFileNoteStoreReplacesSameGoal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := goaloutadapter.NewFileNoteStore()
	ctx := context.Background()

	name, first := exportNote(t, 1, "Learn Go")
	if _, err := store.Write(ctx, dir, name, first); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, second := exportNote(t, 1, "Learn Go")
	path, err := store.Write(ctx, dir, name, append(second, []byte("- [x] done\n")...))
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if path != filepath.Join(dir, "learn-go.md") {
		t.Fatalf("expected same path, got %s", path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected one note, got %d", len(entries))
	}
}

func TestFileNoteStoreKeepsOtherGoalsNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := goaloutadapter.NewFileNoteStore()
	ctx := context.Background()

	name, first := exportNote(t, 1, "Learn Go")
	if _, err := store.Write(ctx, dir, name, first); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, other := exportNote(t, 2, "Learn Go")
	path, err := store.Write(ctx, dir, name, other)
	if err != nil {
		t.Fatalf("write other: %v", err)
	}
	if path != filepath.Join(dir, "learn-go-2.md") {
		t.Fatalf("expected suffixed path, got %s", path)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "learn-go.md"))
	if err != nil || string(raw) != string(first) {
		t.Fatalf("goal 1 note must be untouched, err=%v", err)
	}
}

func TestFileNoteStoreKeepsHandWrittenNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "learn-go.md"), []byte("my own notes\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	name, content := exportNote(t, 7, "Learn Go")
	path, err := goaloutadapter.NewFileNoteStore().Write(context.Background(), dir, name, content)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "learn-go-7.md") {
		t.Fatalf("expected suffixed path, got %s", path)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "learn-go.md"))
	if string(raw) != "my own notes\n" {
		t.Fatalf("hand-written note must be untouched, got %q", raw)
	}
}
