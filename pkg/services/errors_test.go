package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/schema"
	"github.com/dukex/newsroom/pkg/workflow"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validation", workflow.ErrCommentRequired, CodeValidation},
		{"transition", workflow.ErrInvalidTransition, CodeConflict},
		{"not due", workflow.ErrNotDue, CodeConflict},
		{"not found", fmt.Errorf("%w: x", workflow.ErrPostNotFound), CodeNotFound},
		{"collection id", persistence.ErrInvalidCollectionID, CodeValidation},
		{"invalid document", &schema.ValidationError{Problems: []string{"posts: required"}}, CodeInvalidDocument},
		{"corrupt", fmt.Errorf("%w: %w", persistence.ErrCorruptCollection, workflow.ErrValidationFailed), CodeInternal},
		{"other", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wrapped := wrapError("Op", tt.err)

			var serviceErr *ServiceError
			assert.ErrorAs(t, wrapped, &serviceErr)
			assert.Equal(t, tt.code, serviceErr.Code)
			assert.Equal(t, tt.code, ErrorCode(wrapped))
			assert.Equal(t, tt.code, ErrorCode(tt.err))
			assert.ErrorIs(t, wrapped, tt.err)
		})
	}
}

func TestWrapError_KeepsServiceError(t *testing.T) {
	t.Parallel()

	original := NewValidationError("Create", "bad", ErrInvalidRequest)

	assert.Same(t, original, wrapError("Other", original))
	assert.NoError(t, wrapError("Op", nil))
	assert.Equal(t, "Create: bad", original.Error())
	assert.Equal(t, CodeValidation, ErrorCode(fmt.Errorf("handler: %w", original)))
}
