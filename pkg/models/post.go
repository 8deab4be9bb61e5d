package models

import (
	"slices"
	"time"
)

// CommentType tags a comment for display only.
type CommentType string

const (
	CommentGeneral         CommentType = "general"
	CommentFeedback        CommentType = "feedback"
	CommentRevisionRequest CommentType = "revision_request"
	CommentApproval        CommentType = "approval"
)

// Post is a content item moving through the editorial workflow.
type Post struct {
	ID       string   `json:"id"       validate:"required"`
	Title    string   `json:"title"    validate:"required,min=1"`
	Content  string   `json:"content"`
	Excerpt  string   `json:"excerpt"`
	Language string   `json:"language"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Images   []string `json:"images"`

	Status         PostStatus `json:"status"          validate:"required"`
	Priority       Priority   `json:"priority"        validate:"required"`
	CurrentVersion int        `json:"current_version" validate:"min=1"`

	AuthorID             string `json:"author_id"              validate:"required"`
	AuthorName           string `json:"author_name"`
	DesignerID           string `json:"designer_id,omitempty"`
	DesignerName         string `json:"designer_name,omitempty"`
	ReviewerID           string `json:"reviewer_id,omitempty"`
	ReviewerName         string `json:"reviewer_name,omitempty"`
	AssignedDesignerID   string `json:"assigned_designer_id,omitempty"`
	AssignedDesignerName string `json:"assigned_designer_name,omitempty"`
	AssignedReviewerID   string `json:"assigned_reviewer_id,omitempty"`
	AssignedReviewerName string `json:"assigned_reviewer_name,omitempty"`

	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	SubmittedForDesignAt *time.Time `json:"submitted_for_design_at,omitempty"`
	SubmittedForReviewAt *time.Time `json:"submitted_for_review_at,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	PublishedAt          *time.Time `json:"published_at,omitempty"`
	ScheduledFor         *time.Time `json:"scheduled_for,omitempty"`
	OverallDeadline      *time.Time `json:"overall_deadline,omitempty"`

	Comments  []Comment        `json:"comments"`
	Revisions []Revision       `json:"revisions"`
	Deadlines []DeadlineMarker `json:"deadlines"`

	Featured       bool   `json:"featured"`
	AllowComments  bool   `json:"allow_comments"`
	SEOTitle       string `json:"seo_title,omitempty"`
	SEODescription string `json:"seo_description,omitempty"`
}

// Comment is an append-only ledger entry attached to a post.
type Comment struct {
	ID         string      `json:"id"`
	PostID     string      `json:"post_id"`
	AuthorID   string      `json:"author_id"`
	AuthorName string      `json:"author_name"`
	AuthorRole Role        `json:"author_role"`
	Body       string      `json:"body"`
	Type       CommentType `json:"type"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Revision is a full snapshot of content and images taken on a revision request.
type Revision struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	Version    int       `json:"version"`
	Content    string    `json:"content"`
	Images     []string  `json:"images"`
	EditorID   string    `json:"editor_id"`
	EditorName string    `json:"editor_name"`
	Changes    string    `json:"changes"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeadlineMarker is an advisory per-stage deadline. The workflow never enforces it.
type DeadlineMarker struct {
	Stage     PostStatus `json:"stage"`
	DueAt     time.Time  `json:"due_at"`
	Completed bool       `json:"completed"`
}

// Clone returns a deep copy of the post.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}

	clone := *p
	clone.Tags = slices.Clone(p.Tags)
	clone.Images = slices.Clone(p.Images)
	clone.SubmittedForDesignAt = cloneTime(p.SubmittedForDesignAt)
	clone.SubmittedForReviewAt = cloneTime(p.SubmittedForReviewAt)
	clone.ApprovedAt = cloneTime(p.ApprovedAt)
	clone.PublishedAt = cloneTime(p.PublishedAt)
	clone.ScheduledFor = cloneTime(p.ScheduledFor)
	clone.OverallDeadline = cloneTime(p.OverallDeadline)
	clone.Comments = slices.Clone(p.Comments)
	clone.Deadlines = slices.Clone(p.Deadlines)

	if p.Revisions != nil {
		clone.Revisions = make([]Revision, len(p.Revisions))
		for i, rev := range p.Revisions {
			rev.Images = slices.Clone(rev.Images)
			clone.Revisions[i] = rev
		}
	}

	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}
