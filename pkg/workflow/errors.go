package workflow

import (
	"errors"
	"fmt"

	"github.com/dukex/newsroom/pkg/models"
)

// Error taxonomy of the workflow core. Every refusal wraps exactly one of these.
var (
	// ErrInvalidTransition indicates the action is not permitted for this status, role or actor.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrValidationFailed indicates required input is missing or malformed.
	ErrValidationFailed = errors.New("validation failed")

	// ErrPostNotFound indicates the targeted post id is absent from the collection.
	ErrPostNotFound = errors.New("post not found")
)

// Validation failures. Each one wraps ErrValidationFailed.
var (
	ErrCommentRequired       = fmt.Errorf("%w: comment is required", ErrValidationFailed)
	ErrEmptyComment          = fmt.Errorf("%w: comment cannot be empty", ErrValidationFailed)
	ErrScheduleDateRequired  = fmt.Errorf("%w: schedule date is required", ErrValidationFailed)
	ErrScheduleDateNotFuture = fmt.Errorf("%w: schedule date must be in the future", ErrValidationFailed)
	ErrDeadlineNotFuture     = fmt.Errorf("%w: deadline must be in the future", ErrValidationFailed)
	ErrInvalidPriority       = fmt.Errorf("%w: invalid priority", ErrValidationFailed)
	ErrInvalidDeadlineMarker = fmt.Errorf("%w: deadline marker needs a known stage and a due time", ErrValidationFailed)
	ErrTitleRequired         = fmt.Errorf("%w: title is required", ErrValidationFailed)
	ErrImagesRequired        = fmt.Errorf("%w: at least one image is required", ErrValidationFailed)
	ErrActorRequired         = fmt.Errorf("%w: actor is required", ErrValidationFailed)
	ErrUnknownBulkVerb       = fmt.Errorf("%w: unknown bulk verb", ErrValidationFailed)
	ErrEmptySelection        = fmt.Errorf("%w: no posts selected", ErrValidationFailed)
)

// ErrNotDue indicates a scheduled post whose publication time has not elapsed.
var ErrNotDue = fmt.Errorf("%w: scheduled time has not elapsed", ErrInvalidTransition)

// TransitionError wraps a refused workflow operation with the post and actor context.
type TransitionError struct {
	Op     string            // Operation being performed (e.g., "ApplyAction", "Bulk")
	PostID string            // Post ID if applicable
	Action models.Action     // Requested action
	Status models.PostStatus // Post status at the time of the request
	Role   models.Role       // Role of the acting user
	Err    error             // Underlying error
}

func (e *TransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s %s failed for post %s (status %s, role %s): %v",
			e.Op, e.Action, e.PostID, e.Status, e.Role, e.Err)
	}

	return fmt.Sprintf("%s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func (e *TransitionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func newTransitionError(op string, post *models.Post, action models.Action, role models.Role, err error) *TransitionError {
	te := &TransitionError{
		Op:     op,
		Action: action,
		Role:   role,
		Err:    err,
	}

	if post != nil {
		te.PostID = post.ID
		te.Status = post.Status
	}

	return te
}

// IsInvalidTransition checks if an error indicates a forbidden action.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsValidationFailed checks if an error indicates rejected input.
func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// IsNotFound checks if an error indicates a missing post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}
