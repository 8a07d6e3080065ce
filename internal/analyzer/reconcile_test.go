package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/models"
)

func TestCombineAnalyses_VotesBecomeDecisions(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{
			Item:      "Liquor License Application",
			Outcome:   models.OutcomeApproved,
			VoteCount: "8-1-0-0",
			Context:   "Discussion regarding the liquor license for the new tavern. The committee then voted.",
		},
	}

	combined := a.combineAnalyses(nil, votes, "Business Committee Meeting")

	require.Len(t, combined.KeyDecisions, 1)
	assert.Equal(t, "Liquor License Application", combined.KeyDecisions[0].Item)
	assert.Equal(t, "Approved", combined.KeyDecisions[0].Outcome)
	assert.Equal(t, "8-1-0-0", combined.KeyDecisions[0].Vote)
	assert.Contains(t, combined.KeyDecisions[0].Details, "Formal vote recorded.")
	assert.Contains(t, combined.KeyDecisions[0].Details, "Regarding the liquor license for the new tavern")
	assert.Equal(t, "Mixed", combined.Sentiment)
	assert.Equal(t, "Not specified", combined.Attendance)
}

func TestCombineAnalyses_MergesSimilarExternalDecision(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{Item: "Liquor License Application", Outcome: models.OutcomeApproved, VoteCount: "8-1-0-0", Context: "no cues here"},
	}
	analyses := []models.SegmentAnalysis{
		{
			Decisions: []any{
				map[string]any{"item": "liquor license application", "context": "Board discussed renewal terms"},
				map[string]any{"item": ""}, // 主旨為空，應略過
				map[string]any{"item": "Street fair permit"},
			},
		},
	}

	combined := a.combineAnalyses(analyses, votes, "")

	require.Len(t, combined.KeyDecisions, 2)
	// 相似的外部決議併入既有項目，脈絡補進細節
	assert.Contains(t, combined.KeyDecisions[0].Details, "Board discussed renewal terms")
	// 不相似的外部決議以預設欄位新增
	assert.Equal(t, "Street fair permit", combined.KeyDecisions[1].Item)
	assert.Equal(t, "Discussed", combined.KeyDecisions[1].Outcome)
	assert.Equal(t, "No formal vote", combined.KeyDecisions[1].Vote)
	assert.Equal(t, "Item discussed during meeting", combined.KeyDecisions[1].Details)
}

func TestCombineAnalyses_AggregatesInInsertionOrder(t *testing.T) {
	a := New(DefaultOptions(), nil)

	analyses := []models.SegmentAnalysis{
		{MainTopics: []any{"Housing", "Transit"}, Speakers: []any{"Alice", "Bob"}},
		{MainTopics: []any{"Transit", "Parks"}, Speakers: []any{"Alice"}},
	}

	combined := a.combineAnalyses(analyses, nil, "")

	assert.Equal(t, []string{"Housing", "Transit", "Parks"}, combined.MainTopics)
	assert.Equal(t, "Speakers included: Alice, Bob", combined.Attendance)
}

func TestCombineAnalyses_CapsHonorOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTopics = 2
	opts.MaxConcerns = 1
	a := New(opts, nil)

	analyses := []models.SegmentAnalysis{
		{
			MainTopics: []any{"A", "B", "C", "D"},
			Concerns:   []any{"noise", "traffic", "rats"},
		},
	}

	combined := a.combineAnalyses(analyses, nil, "")

	assert.Equal(t, []string{"A", "B"}, combined.MainTopics)
	assert.Equal(t, []string{"noise"}, combined.PublicConcerns)
}

func TestCombineAnalyses_AttendanceTruncatesLongSpeakerList(t *testing.T) {
	a := New(DefaultOptions(), nil)

	analyses := []models.SegmentAnalysis{
		{Speakers: []any{"A", "B", "C", "D", "E", "F", "G"}},
	}

	combined := a.combineAnalyses(analyses, nil, "")
	assert.Equal(t, "Speakers included: A, B, C, D, E and 2 others", combined.Attendance)
}

func TestGenerateSummary(t *testing.T) {
	summary := generateSummary("CB7 Parks Committee", 2, 3, []string{"Alice", "Bob"})
	assert.Equal(t, "Parks & Environment Committee meeting. 2 formal votes recorded. 3 main topics discussed. Presentations by Alice, Bob.", summary)

	summary = generateSummary("Full Board Meeting", 0, 0, nil)
	assert.Equal(t, "Full Board meeting.", summary)

	summary = generateSummary("", 0, 0, []string{"A", "B", "C", "D"})
	assert.Equal(t, "Community Board meeting. Multiple presentations including A, B and others.", summary)
}

func TestIdentifyMeetingType(t *testing.T) {
	assert.Equal(t, "Housing Committee meeting", identifyMeetingType("CB7 Housing Committee 2024"))
	assert.Equal(t, "Transportation Committee meeting", identifyMeetingType("Transportation committee session"))
	assert.Equal(t, "Community Board meeting", identifyMeetingType("Monthly gathering"))
}

func TestFilterNextSteps(t *testing.T) {
	raw := []string{
		"Contact the DOT about the signal timing",
		"The plan was presented by the architect",
		"to follow up with the applicant",
		"Will schedule a site visit",
		"Residents discussed the noise",
	}

	filtered := filterNextSteps(raw)

	assert.Equal(t, []string{
		"Contact the DOT about the signal timing",
		"to follow up with the applicant",
		"Will schedule a site visit",
	}, filtered)
}

func TestExtractVoteContext(t *testing.T) {
	ctx := "There was debate concerning the sidewalk cafe hours, and then a vote."
	assert.Equal(t, "Regarding the sidewalk cafe hours", extractVoteContext(ctx))

	assert.Equal(t, "Vote taken after discussion", extractVoteContext("no recognizable framing here"))
}

func TestUniqueInOrderAndCapList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueInOrder([]string{"a", "", "b", "a"}))
	assert.Equal(t, []string{}, capList(nil, 5))
	assert.Equal(t, []string{"x"}, capList([]string{"x", "y"}, 1))
}

func TestCombineAnalyses_SummaryMentionsVoteAndTopicCounts(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{Item: "Budget Item", Outcome: models.OutcomeApproved, VoteCount: "9-0-0-0", Context: "x"},
	}
	analyses := []models.SegmentAnalysis{{MainTopics: []any{"Budget"}}}

	combined := a.combineAnalyses(analyses, votes, "Budget Committee")

	assert.True(t, strings.HasPrefix(combined.Summary, "Budget Committee meeting."))
	assert.Contains(t, combined.Summary, "1 formal votes recorded")
	assert.Contains(t, combined.Summary, "1 main topics discussed")
}
