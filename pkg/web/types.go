package web

import (
	"time"

	"github.com/dukex/newsroom/pkg/models"
	"github.com/dukex/newsroom/pkg/workflow"
)

// CreatePostRequest represents the request body for creating a draft post.
type CreatePostRequest struct {
	Title          string                  `json:"title"                     validate:"required"`
	Content        string                  `json:"content"`
	Excerpt        string                  `json:"excerpt,omitempty"`
	Language       string                  `json:"language,omitempty"`
	Category       string                  `json:"category,omitempty"`
	Tags           []string                `json:"tags,omitempty"`
	Images         []string                `json:"images,omitempty"`
	Priority       models.Priority         `json:"priority,omitempty"        validate:"omitempty,oneof=urgent high normal low"`
	Deadline       *time.Time              `json:"deadline,omitempty"`
	Deadlines      []DeadlineMarkerRequest `json:"deadlines,omitempty"       validate:"omitempty,dive"`
	Featured       bool                    `json:"featured"`
	AllowComments  bool                    `json:"allow_comments"`
	SEOTitle       string                  `json:"seo_title,omitempty"`
	SEODescription string                  `json:"seo_description,omitempty"`
}

func (r CreatePostRequest) draft() workflow.PostDraft {
	return workflow.PostDraft{
		Title:          r.Title,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		Language:       r.Language,
		Category:       r.Category,
		Tags:           r.Tags,
		Images:         r.Images,
		Priority:       r.Priority,
		Deadline:       r.Deadline,
		Deadlines:      markers(r.Deadlines),
		Featured:       r.Featured,
		AllowComments:  r.AllowComments,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
	}
}

// DeadlineMarkerRequest is an advisory deadline for one workflow stage.
type DeadlineMarkerRequest struct {
	Stage models.PostStatus `json:"stage"  validate:"required,oneof=draft awaiting_design in_design pending_review needs_revision approved published scheduled"`
	DueAt time.Time         `json:"due_at" validate:"required"`
}

func markers(requests []DeadlineMarkerRequest) []models.DeadlineMarker {
	if requests == nil {
		return nil
	}

	out := make([]models.DeadlineMarker, 0, len(requests))
	for _, r := range requests {
		out = append(out, models.DeadlineMarker{Stage: r.Stage, DueAt: r.DueAt})
	}

	return out
}

// UpdatePostRequest is a partial content update. Absent fields are kept.
type UpdatePostRequest struct {
	Title          *string         `json:"title,omitempty"           validate:"omitempty,min=1"`
	Content        *string         `json:"content,omitempty"`
	Excerpt        *string         `json:"excerpt,omitempty"`
	Language       *string         `json:"language,omitempty"`
	Category       *string         `json:"category,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Featured       *bool           `json:"featured,omitempty"`
	AllowComments  *bool           `json:"allow_comments,omitempty"`
	SEOTitle       *string         `json:"seo_title,omitempty"`
	SEODescription *string         `json:"seo_description,omitempty"`
	Priority       models.Priority `json:"priority,omitempty"        validate:"omitempty,oneof=urgent high normal low"`
	Deadline       *time.Time      `json:"deadline,omitempty"`
}

func (r UpdatePostRequest) changes() workflow.ContentChanges {
	return workflow.ContentChanges{
		Title:          r.Title,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		Language:       r.Language,
		Category:       r.Category,
		Tags:           r.Tags,
		Featured:       r.Featured,
		AllowComments:  r.AllowComments,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		Priority:       r.Priority,
		Deadline:       r.Deadline,
	}
}

// ActionRequest carries the optional input of a workflow action.
type ActionRequest struct {
	Comment       string          `json:"comment,omitempty"`
	Priority      models.Priority `json:"priority,omitempty"       validate:"omitempty,oneof=urgent high normal low"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	AssigneeID    string          `json:"assignee_id,omitempty"`
	AssigneeName  string          `json:"assignee_name,omitempty"`
	ScheduledDate *time.Time      `json:"scheduled_date,omitempty"`
}

func (r ActionRequest) input() workflow.ActionInput {
	return workflow.ActionInput{
		Comment:       r.Comment,
		Priority:      r.Priority,
		Deadline:      r.Deadline,
		AssigneeID:    r.AssigneeID,
		AssigneeName:  r.AssigneeName,
		ScheduledDate: r.ScheduledDate,
	}
}

type CommentRequest struct {
	Body string `json:"body" validate:"required"`
}

type AddImagesRequest struct {
	Images []string `json:"images" validate:"required,min=1,dive,required"`
}

// BulkRequest applies one verb to the selected posts.
type BulkRequest struct {
	ActionRequest

	Verb models.BulkVerb `json:"verb" validate:"required,oneof=approve publish schedule delete"`
	IDs  []string        `json:"ids"  validate:"required,min=1,dive,required"`
}

// BulkResponse reports what a bulk request changed.
type BulkResponse struct {
	Applied []*models.Post `json:"applied"`
	Removed []string       `json:"removed"`
	Skipped []string       `json:"skipped"`
}

type ImportResponse struct {
	CollectionID string `json:"collection_id"`
	Posts        int    `json:"posts"`
}

// LabeledValue is an enum value with its display metadata.
type LabeledValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}
