package persist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/filestore"
)

const (
	documentPrefix = "reports/"
	capturePrefix  = "captures/"
)

// ObjectStore persists documents in an object-storage bucket through
// filestore.Store.
type ObjectStore struct {
	store  filestore.Store
	bucket string
}

// NewObjectStore returns an ObjectStore writing into bucket, creating the
// bucket if needed.
func NewObjectStore(ctx context.Context, store filestore.Store, bucket string) (*ObjectStore, error) {
	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}
	return &ObjectStore{store: store, bucket: bucket}, nil
}

func (s *ObjectStore) Save(ctx context.Context, name string, payload []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := s.store.PutObject(ctx, s.bucket, documentKey(name),
		bytes.NewReader(payload), int64(len(payload)), "application/json")
	if err != nil {
		return errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to save document %q", name), err)
	}
	return nil
}

func (s *ObjectStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	obj, err := s.store.GetObject(ctx, s.bucket, documentKey(name))
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to read document %q", name), err)
	}
	return payload, nil
}

func (s *ObjectStore) List(ctx context.Context) ([]DocumentInfo, error) {
	objects, err := s.store.ListObjects(ctx, s.bucket, filestore.ListOptions{
		Prefix:    documentPrefix,
		Recursive: true,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]DocumentInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDir {
			continue
		}
		docs = append(docs, DocumentInfo{
			Name:    strings.TrimSuffix(path.Base(obj.Key), ".json"),
			Size:    obj.Size,
			SavedAt: obj.LastModified,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].SavedAt.After(docs[j].SavedAt) })
	return docs, nil
}

func (s *ObjectStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	return s.store.RemoveObject(ctx, s.bucket, documentKey(name))
}

func (s *ObjectStore) SaveCapture(ctx context.Context, name string, png []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	key := captureKey(name, time.Now().UTC())
	_, err := s.store.PutObject(ctx, s.bucket, key,
		bytes.NewReader(png), int64(len(png)), "image/png")
	if err != nil {
		return "", errs.Wrap(errs.ErrKindStorageFailed, fmt.Sprintf("failed to save capture %q", name), err)
	}
	return key, nil
}

func documentKey(name string) string {
	return documentPrefix + name + ".json"
}

func captureKey(name string, at time.Time) string {
	return fmt.Sprintf("%s%s-%s.png", capturePrefix, name, at.Format("20060102T150405"))
}

// validateName rejects names that would escape the document prefix.
func validateName(name string) error {
	if name == "" {
		return errs.New(errs.ErrKindInvalidInput, "document name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return errs.Newf(errs.ErrKindInvalidInput, "invalid document name %q", name)
	}
	return nil
}
