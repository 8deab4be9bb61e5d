// Package models defines the core domain models for the editorial workflow.
package models

// PostStatus represents the workflow stage of a post.
type PostStatus string

const (
	StatusDraft          PostStatus = "draft"
	StatusAwaitingDesign PostStatus = "awaiting_design"
	StatusInDesign       PostStatus = "in_design"
	StatusPendingReview  PostStatus = "pending_review"
	StatusNeedsRevision  PostStatus = "needs_revision"
	StatusApproved       PostStatus = "approved"
	StatusPublished      PostStatus = "published"
	StatusScheduled      PostStatus = "scheduled"
)

// StatusInfo carries display metadata for a status or priority.
type StatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusInfo = map[PostStatus]StatusInfo{
	StatusDraft:          {Label: "Draft", Color: "gray"},
	StatusAwaitingDesign: {Label: "Awaiting Design", Color: "yellow"},
	StatusInDesign:       {Label: "In Design", Color: "blue"},
	StatusPendingReview:  {Label: "Pending Review", Color: "purple"},
	StatusNeedsRevision:  {Label: "Needs Revision", Color: "orange"},
	StatusApproved:       {Label: "Approved", Color: "green"},
	StatusPublished:      {Label: "Published", Color: "emerald"},
	StatusScheduled:      {Label: "Scheduled", Color: "indigo"},
}

// workflow order; needs_revision is a side branch of pending_review.
var statusOrdinal = map[PostStatus]int{
	StatusDraft:          0,
	StatusAwaitingDesign: 1,
	StatusInDesign:       2,
	StatusPendingReview:  3,
	StatusNeedsRevision:  4,
	StatusApproved:       5,
	StatusPublished:      6,
	StatusScheduled:      7,
}

// AllStatuses lists every status in workflow order.
func AllStatuses() []PostStatus {
	return []PostStatus{
		StatusDraft,
		StatusAwaitingDesign,
		StatusInDesign,
		StatusPendingReview,
		StatusNeedsRevision,
		StatusApproved,
		StatusPublished,
		StatusScheduled,
	}
}

func (s PostStatus) IsValid() bool {
	_, ok := statusOrdinal[s]

	return ok
}

// Info returns the display label and color of the status.
// Unknown statuses fall back to their raw value.
func (s PostStatus) Info() StatusInfo {
	if info, ok := statusInfo[s]; ok {
		return info
	}

	return StatusInfo{Label: string(s), Color: "gray"}
}

// Ordinal returns the position of the status in the workflow, or -1 when unknown.
func (s PostStatus) Ordinal() int {
	if ord, ok := statusOrdinal[s]; ok {
		return ord
	}

	return -1
}
