// Package persist stores and retrieves report documents and exported canvas
// captures. Two backends exist: an object-store backend over filestore.Store
// and a local-directory backend for single-machine use.
package persist

import (
	"context"
	"time"
)

// DocumentInfo describes one saved report document.
type DocumentInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}

// DocumentStore is the persistence boundary for report documents. Documents
// are addressed by a caller-chosen name; saving under an existing name
// replaces the previous document.
type DocumentStore interface {
	// Save writes a serialized report document under name.
	Save(ctx context.Context, name string, payload []byte) error

	// Load returns the serialized document saved under name.
	// Returns a not-found error when no such document exists.
	Load(ctx context.Context, name string) ([]byte, error)

	// List returns all saved documents, most recently saved first.
	List(ctx context.Context) ([]DocumentInfo, error)

	// Delete removes the document saved under name.
	// Deleting a nonexistent document is not an error.
	Delete(ctx context.Context, name string) error

	// SaveCapture stores an exported canvas capture and returns the key it
	// was stored under.
	SaveCapture(ctx context.Context, name string, png []byte) (string, error)
}
