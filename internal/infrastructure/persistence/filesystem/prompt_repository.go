package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dreschagin/prompt-server/internal/domain/entity"
	"github.com/dreschagin/prompt-server/internal/domain/repository"
	"github.com/dreschagin/prompt-server/internal/domain/valueobject"
)

const promptFileMode fs.FileMode = 0o644

// FilesystemPromptRepository stores each prompt as one file directly inside dir.
type FilesystemPromptRepository struct {
	dir    string
	recent *recentWrites
}

func NewFilesystemPromptRepository(dir string) *FilesystemPromptRepository {
	return &FilesystemPromptRepository{
		dir:    dir,
		recent: newRecentWrites(selfWriteWindow),
	}
}

// Dir returns the prompts directory.
func (r *FilesystemPromptRepository) Dir() string {
	return r.dir
}

// WrittenRecently reports whether the repository itself saved or deleted
// filename within the last few seconds. The prompts watcher uses it to drop
// the echo of API writes.
func (r *FilesystemPromptRepository) WrittenRecently(filename string) bool {
	return r.recent.contains(filename)
}

func (r *FilesystemPromptRepository) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), valueobject.PromptExtension) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func (r *FilesystemPromptRepository) Exists(ctx context.Context, filename valueobject.PromptFilename) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(r.path(filename))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Save writes to a temporary file in the same directory and renames it into
// place, so readers and concurrent writers never observe a partial document.
func (r *FilesystemPromptRepository) Save(ctx context.Context, prompt *entity.Prompt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := prompt.Document()
	if err != nil {
		return fmt.Errorf("failed to encode prompt: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+prompt.Filename().String()+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, promptFileMode); err != nil {
		return err
	}
	// Отмечаем до rename: событие fsnotify может прийти раньше, чем вернется Rename
	r.recent.mark(prompt.Filename().String())
	if err := os.Rename(tmpName, r.path(prompt.Filename())); err != nil {
		return err
	}

	committed = true
	return nil
}

func (r *FilesystemPromptRepository) Delete(ctx context.Context, filename valueobject.PromptFilename) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := r.path(filename)
	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return repository.ErrPromptNotFound
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return repository.ErrPromptNotFound
	}

	r.recent.mark(filename.String())
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return repository.ErrPromptNotFound
		}
		return err
	}

	return nil
}

func (r *FilesystemPromptRepository) path(filename valueobject.PromptFilename) string {
	return filepath.Join(r.dir, filepath.Base(filename.String()))
}
