package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/models"
)

func TestExtractVotes_FormalVote(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "There was a long discussion about the sidewalk cafe. The committee vote is 8-1-0-2."
	votes := a.ExtractVotes(transcript)

	require.Len(t, votes, 1)
	assert.Equal(t, "formal_vote", votes[0].VoteType)
	assert.Equal(t, "8-1-0-2", votes[0].VoteCount)
	assert.Equal(t, models.OutcomeApproved, votes[0].Outcome)
	// 上下文中沒有地址與商號，落到主題關鍵字
	assert.Equal(t, "Sidewalk Cafe Application", votes[0].Item)
	assert.InDelta(t, 0.95, votes[0].Confidence, 0.001)
}

func TestExtractVotes_VerbalNumbers(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "The vote was eight to one to zero to two in favor of the proposal."
	votes := a.ExtractVotes(transcript)

	require.Len(t, votes, 1)
	assert.Equal(t, "verbal_vote", votes[0].VoteType)
	assert.Equal(t, "8-1-0-2", votes[0].VoteCount)
	assert.Equal(t, models.OutcomeApproved, votes[0].Outcome)
}

func TestExtractVotes_InvalidVerbalDiscarded(t *testing.T) {
	a := New(DefaultOptions(), nil)

	// 句型符合口語數字模式，但字詞不是數字詞，匹配應被捨棄
	transcript := "We went to lunch to talk to Sam to plan."
	votes := a.ExtractVotes(transcript)

	assert.Empty(t, votes)
}

func TestExtractVotes_Unanimous(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "After a short debate the resolution was approved unanimously by the board."
	votes := a.ExtractVotes(transcript)

	require.Len(t, votes, 1)
	assert.Equal(t, "unanimous", votes[0].VoteType)
	assert.Equal(t, "Unanimous", votes[0].VoteCount)
	assert.Equal(t, models.OutcomeApproved, votes[0].Outcome)
}

func TestExtractVotes_MotionWithAddress(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "Motion to approve the application for 215 West 95th Street. The vote: 9-0-0-0."
	votes := a.ExtractVotes(transcript)

	// 同一事件會被兩個模式各命中一次，去重前應有兩筆
	require.Len(t, votes, 2)

	deduped := a.DeduplicateVotes(votes)
	require.Len(t, deduped, 1)
	// 正式票數的可信度較高，去重後勝出
	assert.Equal(t, "formal_vote", deduped[0].VoteType)
	assert.Equal(t, models.OutcomeApprovedUnanimously, deduped[0].Outcome)
	assert.Equal(t, "Application: 215 West 95th Street", deduped[0].Item)
}

func TestExtractVotes_ProceduralCuesProduceNoRecords(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "I move to call the question. We are ready for the vote."
	votes := a.ExtractVotes(transcript)

	assert.Empty(t, votes)
}

func TestExtractVotes_EmptyTranscript(t *testing.T) {
	a := New(DefaultOptions(), nil)
	assert.Empty(t, a.ExtractVotes(""))
}

func TestExtractVotes_SortedByPosition(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "The vote passes. Later in the evening the motion is rejected."
	votes := a.ExtractVotes(transcript)

	require.Len(t, votes, 2)
	assert.Less(t, votes[0].Position, votes[1].Position)
	assert.Equal(t, "vote_passes", votes[0].VoteType)
	assert.Equal(t, "motion_rejected", votes[1].VoteType)
}
