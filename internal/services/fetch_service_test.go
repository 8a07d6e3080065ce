package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMeetingVideo(t *testing.T) {
	testCases := []struct {
		title    string
		expected bool
	}{
		{"CB7 Full Board Meeting - March 2026", true},
		{"Parks & Environment Committee", true},
		{"Public Hearing on the Rezoning", true},
		{"Land Use Session 4/2026", true},
		{"Meeting Highlights - March 2026", false}, // 花絮優先排除，即使含會議關鍵字
		{"Chair Interview with Local Press", false},
		{"Street Fair B-Roll", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			assert.Equal(t, tc.expected, isMeetingVideo(tc.title))
		})
	}
}
