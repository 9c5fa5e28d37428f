package report

import (
	"encoding/json"
	"time"

	"github.com/plotboard/plotboard/internal/errs"
)

// DocumentVersion is the current persisted snapshot format version.
const DocumentVersion = 1

// Document is the serializable snapshot of a report, the shape that crosses
// the persistence boundary. Round-trip contract: hydrating a serialized
// state yields an equal state.
type Document struct {
	Version          int       `json:"version"`
	Visuals          []*Widget `json:"visuals"`
	SelectedVisualID string    `json:"selectedVisualId,omitempty"`
	SavedAt          time.Time `json:"savedAt,omitempty"`
	DatasetName      string    `json:"datasetName,omitempty"`
}

// NewDocument snapshots a state into a persistable document.
func NewDocument(s State, datasetName string) Document {
	return Document{
		Version:          DocumentVersion,
		Visuals:          s.Visuals,
		SelectedVisualID: s.SelectedVisualID,
		SavedAt:          time.Now().UTC(),
		DatasetName:      datasetName,
	}
}

// State extracts the report state from a document.
func (d Document) State() State {
	return State{Visuals: d.Visuals, SelectedVisualID: d.SelectedVisualID}
}

// Marshal encodes the document as JSON.
func (d Document) Marshal() ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindStorageFailed, "failed to encode report document", err)
	}
	return b, nil
}

// UnmarshalDocument decodes and validates a persisted report document.
// Structural problems surface as a deserialization error, never as a raw
// type error from the decoder.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errs.Wrap(errs.ErrKindDeserialization, "malformed report document", err)
	}
	if err := validateDocument(d); err != nil {
		return Document{}, err
	}
	return d, nil
}

func validateDocument(d Document) error {
	if d.Version != DocumentVersion {
		return errs.Newf(errs.ErrKindDeserialization,
			"unsupported report document version %d", d.Version)
	}

	seen := make(map[string]bool, len(d.Visuals))
	for _, w := range d.Visuals {
		if w == nil || w.ID == "" {
			return errs.New(errs.ErrKindDeserialization, "report document contains a widget without an id")
		}
		if seen[w.ID] {
			return errs.Newf(errs.ErrKindDeserialization, "duplicate widget id %q", w.ID)
		}
		seen[w.ID] = true
		if !KnownType(w.Type) {
			return errs.Newf(errs.ErrKindDeserialization, "unknown widget type %q", w.Type)
		}
	}

	if d.SelectedVisualID != "" && !seen[d.SelectedVisualID] {
		return errs.Newf(errs.ErrKindDeserialization,
			"selected widget %q does not exist", d.SelectedVisualID)
	}
	return nil
}
