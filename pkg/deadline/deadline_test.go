package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		offset   time.Duration
		expected Classification
	}{
		{"one hour ago", -time.Hour, Overdue},
		{"exactly now", 0, Overdue},
		{"in two hours", 2 * time.Hour, DueSoon},
		{"in exactly a day", 24 * time.Hour, DueSoon},
		{"in two days", 48 * time.Hour, OnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Classify(now.Add(tt.offset), now))
		})
	}
}

func TestClassifyPtr(t *testing.T) {
	t.Parallel()

	class, ok := ClassifyPtr(nil, now)
	assert.False(t, ok)
	assert.Equal(t, OnTrack, class)

	past := now.Add(-time.Minute)
	class, ok = ClassifyPtr(&past, now)
	assert.True(t, ok)
	assert.Equal(t, Overdue, class)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		offset   time.Duration
		expected string
	}{
		{-time.Hour, "Overdue"},
		{30 * time.Minute, "Due in less than an hour"},
		{90 * time.Minute, "Due in 1 hour"},
		{5 * time.Hour, "Due in 5 hours"},
		{24 * time.Hour, "Due in 24 hours"},
		{24*time.Hour + time.Minute, "Due tomorrow"},
		{30 * time.Hour, "Due tomorrow"},
		{72 * time.Hour, "Due in 3 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Format(now.Add(tt.offset), now), tt.offset)
	}
}

func TestFormat_FollowsClassification(t *testing.T) {
	t.Parallel()

	atWindow := now.Add(DueSoonWindow)

	assert.Equal(t, DueSoon, Classify(atWindow, now))
	assert.Equal(t, "Due in 24 hours", Format(atWindow, now))

	justPast := atWindow.Add(time.Second)

	assert.Equal(t, OnTrack, Classify(justPast, now))
	assert.Equal(t, "Due tomorrow", Format(justPast, now))
}
