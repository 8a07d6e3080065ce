package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CBMeeting-admin/internal/models"
)

func TestOutcomeFromCount(t *testing.T) {
	testCases := []struct {
		name      string
		voteCount string
		expected  models.VoteOutcome
	}{
		{"多數同意", "8-1-0-0", models.OutcomeApproved},
		{"兩段式全數同意", "5-0", models.OutcomeApprovedUnanimously},
		{"四段式全數同意", "5-0-0-0", models.OutcomeApprovedUnanimously},
		{"無反對票但有棄權票", "5-0-2-0", models.OutcomeApproved},
		{"平手", "3-3-0-0", models.OutcomeTied},
		{"多數反對", "2-5-0-0", models.OutcomeRejected},
		{"unanimous 關鍵字", "unanimous", models.OutcomeApprovedUnanimously},
		{"unanimous 不分大小寫", "Unanimous", models.OutcomeApprovedUnanimously},
		{"無法解析的票數", "Passed", models.OutcomeRecorded},
		{"空字串", "", models.OutcomeRecorded},
		{"非數字片段", "yes-no", models.OutcomeRecorded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, OutcomeFromCount(tc.voteCount))
		})
	}
}
