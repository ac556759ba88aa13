package snapshots

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

var errEmptyDocument = errors.New("empty snapshot document")

// Encode renders s as indented JSON with a trailing newline. The input is
// not modified.
func Encode(s *models.Snapshot) ([]byte, error) {
	b, err := json.MarshalIndent(s.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses a snapshot document and normalizes it.
func Decode(data []byte) (*models.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	s := &models.Snapshot{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode snapshot: trailing content")
	}

	s.Normalize()
	return s, nil
}
