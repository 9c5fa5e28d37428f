package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/plotboard/plotboard/internal/errs"
)

// LocalDir persists documents as files under a directory on local disk.
// It exists so Plotboard runs without an object store; the on-disk layout
// mirrors the ObjectStore key scheme (reports/, captures/).
type LocalDir struct {
	root string
}

// NewLocalDir creates the directory layout under root and returns the store.
func NewLocalDir(root string) (*LocalDir, error) {
	for _, sub := range []string{documentPrefix, capturePrefix} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, errs.Wrap(errs.ErrKindStorageFailed, "failed to create document directory", err)
		}
	}
	return &LocalDir{root: root}, nil
}

func (s *LocalDir) Save(_ context.Context, name string, payload []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(s.root, documentKey(name))

	// Write to a temp file and rename so a crash mid-write never leaves a
	// truncated document behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to save document %q", name), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to save document %q", name), err)
	}
	return nil
}

func (s *LocalDir) Load(_ context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(filepath.Join(s.root, documentKey(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Newf(errs.ErrKindNotFound, "no document named %q", name)
		}
		return nil, errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to read document %q", name), err)
	}
	return payload, nil
}

func (s *LocalDir) List(_ context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, documentPrefix))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindStorageFailed, "failed to list documents", err)
	}

	docs := make([]DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, DocumentInfo{
			Name:    strings.TrimSuffix(entry.Name(), ".json"),
			Size:    info.Size(),
			SavedAt: info.ModTime(),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].SavedAt.After(docs[j].SavedAt) })
	return docs, nil
}

func (s *LocalDir) Delete(_ context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, documentKey(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to delete document %q", name), err)
	}
	return nil
}

func (s *LocalDir) SaveCapture(_ context.Context, name string, png []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	key := captureKey(name, time.Now().UTC())
	if err := os.WriteFile(filepath.Join(s.root, key), png, 0o644); err != nil {
		return "", errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to save capture %q", name), err)
	}
	return key, nil
}
