// Package schema validates post collection documents before they enter the workflow.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dukex/newsroom/pkg/models"
)

//go:embed collection.schema.json
var collectionSchema []byte

// ErrInvalidDocument indicates a collection document that does not match the schema
// or breaks a post invariant.
var ErrInvalidDocument = errors.New("invalid collection document")

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidDocument, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

func IsInvalidDocument(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}

var compiled = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(collectionSchema))
})

// Raw returns the embedded JSON schema.
func Raw() []byte {
	return collectionSchema
}

// Validate checks a raw collection document against the embedded schema.
func Validate(document []byte) error {
	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("failed to compile collection schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return &ValidationError{Problems: problems}
	}

	return nil
}

// CheckInvariants verifies the invariants a schema cannot express.
func CheckInvariants(posts []*models.Post) error {
	problems := make([]string, 0)
	seen := make(map[string]bool, len(posts))

	for i, post := range posts {
		if post == nil {
			problems = append(problems, fmt.Sprintf("posts.%d: null post", i))

			continue
		}

		if seen[post.ID] {
			problems = append(problems, fmt.Sprintf("posts.%d: duplicate id %s", i, post.ID))
		}

		seen[post.ID] = true

		if len(post.Revisions) != post.CurrentVersion-1 {
			problems = append(problems, fmt.Sprintf("posts.%d: %d revisions for version %d", i, len(post.Revisions), post.CurrentVersion))
		}

		if post.UpdatedAt.Before(post.CreatedAt) {
			problems = append(problems, fmt.Sprintf("posts.%d: updated_at before created_at", i))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}
