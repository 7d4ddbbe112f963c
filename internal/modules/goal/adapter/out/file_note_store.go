package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	goalout "goalplan/internal/modules/goal/port/out"
	"goalplan/internal/platform/markdown"
)

// FileNoteStore writes exported notes under a directory, replacing any
// earlier export of the same goal. A file of the same name that belongs to
// another goal, or to no goal, is left alone and the note is written as
// <name>-<goal_id>.md instead.
type FileNoteStore struct{}

func NewFileNoteStore() goalout.NoteStore {
	return FileNoteStore{}
}

func (FileNoteStore) Write(ctx context.Context, dir, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if owner, ok := noteOwner(content); ok {
		taken, err := takenByOther(path, owner)
		if err != nil {
			return "", err
		}
		if taken {
			ext := filepath.Ext(name)
			path = filepath.Join(dir, strings.TrimSuffix(name, ext)+"-"+owner+ext)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("replace note: %w", err)
	}
	return path, nil
}

// noteOwner reads the goal_id front matter key of an exported note.
func noteOwner(content []byte) (string, bool) {
	meta, _, err := markdown.Split(string(content))
	if err != nil {
		return "", false
	}
	id, ok := meta["goal_id"]
	if !ok {
		return "", false
	}
	return fmt.Sprint(id), true
}

func takenByOther(path, owner string) (bool, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read existing note: %w", err)
	}
	existing, ok := noteOwner(raw)
	return !ok || existing != owner, nil
}
