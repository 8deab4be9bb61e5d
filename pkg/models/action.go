package models

// Action is a named workflow operation on a single post.
type Action string

const (
	ActionEditContent     Action = "edit_content"
	ActionSubmitForDesign Action = "submit_for_design"
	ActionStartDesign     Action = "start_design"
	ActionAddImages       Action = "add_images"
	ActionSubmitForReview Action = "submit_for_review"
	ActionApprove         Action = "approve"
	ActionRequestRevision Action = "request_revision"
	ActionPublish         Action = "publish"
	ActionSchedule        Action = "schedule"
)

// AllActions lists every action in the order they are offered to users.
func AllActions() []Action {
	return []Action{
		ActionEditContent,
		ActionSubmitForDesign,
		ActionStartDesign,
		ActionAddImages,
		ActionSubmitForReview,
		ActionApprove,
		ActionRequestRevision,
		ActionPublish,
		ActionSchedule,
	}
}

func (a Action) IsValid() bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}

	return false
}

// IsTransition reports whether the action changes the post status.
func (a Action) IsTransition() bool {
	return a.IsValid() && a != ActionEditContent && a != ActionAddImages
}

// BulkVerb is an action applicable to a selection of posts at once.
type BulkVerb string

const (
	BulkApprove  BulkVerb = "approve"
	BulkPublish  BulkVerb = "publish"
	BulkSchedule BulkVerb = "schedule"
	BulkDelete   BulkVerb = "delete"
)

func (v BulkVerb) IsValid() bool {
	switch v {
	case BulkApprove, BulkPublish, BulkSchedule, BulkDelete:
		return true
	default:
		return false
	}
}
