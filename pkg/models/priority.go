package models

// Priority is a flat urgency level with no transition rules.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"

	DefaultPriority = PriorityNormal
)

var priorityInfo = map[Priority]StatusInfo{
	PriorityUrgent: {Label: "Urgent", Color: "red"},
	PriorityHigh:   {Label: "High", Color: "orange"},
	PriorityNormal: {Label: "Normal", Color: "blue"},
	PriorityLow:    {Label: "Low", Color: "gray"},
}

// AllPriorities lists priorities from most to least urgent.
func AllPriorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}
}

func (p Priority) IsValid() bool {
	_, ok := priorityInfo[p]

	return ok
}

func (p Priority) Info() StatusInfo {
	if info, ok := priorityInfo[p]; ok {
		return info
	}

	return StatusInfo{Label: string(p), Color: "gray"}
}

// IsElevated reports whether the priority is urgent or high.
func (p Priority) IsElevated() bool {
	return p == PriorityUrgent || p == PriorityHigh
}
