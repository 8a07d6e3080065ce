package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/models"
)

func TestBuildSegments_EmptyTranscript(t *testing.T) {
	a := New(DefaultOptions(), nil)
	assert.Empty(t, a.BuildSegments("", nil))
}

func TestBuildSegments_NoVotesSingleSegment(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := strings.Repeat("community updates were shared with everyone present. ", 40)
	segments := a.BuildSegments(transcript, nil)

	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(transcript), segments[0].End)
	assert.Empty(t, segments[0].Votes)
}

func TestBuildSegments_VoteAnchorsBoundaries(t *testing.T) {
	a := New(DefaultOptions(), nil)

	filler := strings.Repeat("community updates were shared with everyone present. ", 46) // ~2484 字元
	transcript := filler + "The vote passes. " + filler
	votes := a.DeduplicateVotes(a.ExtractVotes(transcript))
	require.Len(t, votes, 1)

	segments := a.BuildSegments(transcript, votes)
	require.Len(t, segments, 3)

	// 投票記錄應恰好落在一個段落中
	var carriers int
	for _, segment := range segments {
		assert.GreaterOrEqual(t, segment.End-segment.Start, a.opts.SegmentMinSize)
		if len(segment.Votes) > 0 {
			carriers++
			assert.GreaterOrEqual(t, votes[0].Position, segment.Start)
			assert.Less(t, votes[0].Position, segment.End)
		}
	}
	assert.Equal(t, 1, carriers)
}

func TestBuildSegments_ShortCandidatesDropped(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "short transcript, nothing to split"
	segments := a.BuildSegments(transcript, nil)
	assert.Empty(t, segments)
}

func TestClassifySegment(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected models.SegmentType
	}{
		{
			"表決段落",
			"We will vote on the motion now. All in favor approve. The vote is unanimous.",
			models.SegmentVoting,
		},
		{
			"簡報段落",
			"Hi everyone, my name is Dana and I am here to present our plan.",
			models.SegmentPresentation,
		},
		{
			"討論段落",
			"What about parking? How late will it run? Who pays for cleanup?",
			models.SegmentDiscussion,
		},
		{
			"一般段落",
			"The chair welcomed the audience and read the announcements.",
			models.SegmentGeneral,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifySegment(tc.text))
		})
	}
}
