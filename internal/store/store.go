// Package store persists the portal document.
//
// Implementations always move the whole Document: Load reads all of it, Save
// overwrites all of it, and Update runs a read-modify-write that no other
// Update on the same store can interleave with.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrCorrupt = errors.New("store: corrupt document")

type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	// Update loads the document, applies fn and saves the result.
	// Nothing is written when fn returns an error; that error is returned as-is.
	Update(ctx context.Context, fn func(*Document) error) error
}

func decodeDocument(b []byte) (Document, error) {
	if len(b) == 0 {
		return NewDocument(), nil
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	doc.normalize()
	return doc, nil
}

func encodeDocument(doc Document) ([]byte, error) {
	doc.normalize()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
