package persistence

import (
	"errors"
	"fmt"
	"regexp"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrInvalidCollectionID indicates a collection id that cannot be used as a storage key.
	ErrInvalidCollectionID = errors.New("invalid collection id")

	// ErrCorruptCollection indicates a stored collection that can no longer be decoded or validated.
	ErrCorruptCollection = errors.New("corrupt collection")
)

var collectionIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// ValidateCollectionID checks that the id is safe as a file name, key and column value.
func ValidateCollectionID(collectionID string) error {
	if !collectionIDPattern.MatchString(collectionID) {
		return &CollectionError{Op: "Validate", CollectionID: collectionID, Err: ErrInvalidCollectionID}
	}

	return nil
}

// CollectionError wraps collection-related errors with additional context.
type CollectionError struct {
	Op           string // Operation being performed (e.g., "Load", "Save")
	CollectionID string // Collection ID
	Err          error  // Underlying error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s operation failed for collection %s: %v", e.Op, e.CollectionID, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for collection errors.
func (e *CollectionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCollectionError creates a new collection error with context.
func NewCollectionError(op, collectionID string, err error) *CollectionError {
	return &CollectionError{
		Op:           op,
		CollectionID: collectionID,
		Err:          err,
	}
}

// IsInvalidCollectionID checks if an error indicates an unusable collection id.
func IsInvalidCollectionID(err error) bool {
	return errors.Is(err, ErrInvalidCollectionID)
}

// IsCorruptCollection checks if an error indicates unreadable stored data.
func IsCorruptCollection(err error) bool {
	return errors.Is(err, ErrCorruptCollection)
}
