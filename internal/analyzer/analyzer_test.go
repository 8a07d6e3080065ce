package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/models"
)

// stubSummarizer 是可控制行為的摘要器替身
type stubSummarizer struct {
	analysis *models.SegmentAnalysis
	err      error
	panics   bool
	calls    int
}

func (s *stubSummarizer) SummarizeSegment(ctx context.Context, segment models.Segment) (*models.SegmentAnalysis, error) {
	s.calls++
	if s.panics {
		panic("summarizer exploded")
	}
	return s.analysis, s.err
}

// votingTranscript 產生一份長度足以切出段落、且帶有一筆正式投票的逐字稿
func votingTranscript() string {
	filler := strings.Repeat("community updates were shared with everyone present. ", 46)
	return filler + "The vote passes. " + filler
}

func TestAnalyzeMeeting_RuleBasedOnly(t *testing.T) {
	a := New(DefaultOptions(), nil)

	result := a.AnalyzeMeeting(context.Background(), votingTranscript(), "Full Board Meeting")

	require.NotNil(t, result)
	assert.Equal(t, AnalyzerVersion, result.Metadata.AnalyzerVersion)
	assert.Equal(t, 1, result.Metadata.VotesFound)
	require.Len(t, result.KeyDecisions, 1)
	assert.Equal(t, "Mixed", result.Sentiment)
	assert.Equal(t, "Not specified", result.Attendance)
	assert.True(t, strings.HasPrefix(result.Summary, "Full Board meeting."))
}

func TestAnalyzeMeeting_SummarizerErrorDegradesGracefully(t *testing.T) {
	stub := &stubSummarizer{err: fmt.Errorf("quota exceeded")}
	a := New(DefaultOptions(), stub)

	result := a.AnalyzeMeeting(context.Background(), votingTranscript(), "")

	// 段落摘要失敗不影響規則式結果，版本仍是主要路徑
	require.NotNil(t, result)
	assert.Greater(t, stub.calls, 0)
	assert.Equal(t, AnalyzerVersion, result.Metadata.AnalyzerVersion)
	require.Len(t, result.KeyDecisions, 1)
}

func TestAnalyzeMeeting_PanicFallsBack(t *testing.T) {
	stub := &stubSummarizer{panics: true}
	a := New(DefaultOptions(), stub)

	result := a.AnalyzeMeeting(context.Background(), votingTranscript(), "")

	// 未預期錯誤走降級路徑，投票記錄仍保留
	require.NotNil(t, result)
	assert.Equal(t, AnalyzerVersionFallback, result.Metadata.AnalyzerVersion)
	require.Len(t, result.KeyDecisions, 1)
	assert.Equal(t, "Extracted from transcript analysis", result.KeyDecisions[0].Details)
	assert.Contains(t, result.Summary, "1 formal votes identified")
	assert.Equal(t, "Mixed", result.Sentiment)
}

func TestAnalyzeMeeting_SummarizerResultsMergedIn(t *testing.T) {
	stub := &stubSummarizer{analysis: &models.SegmentAnalysis{
		MainTopics: []any{"Outdoor Dining"},
		Concerns:   []any{"noise after 10pm"},
		Speakers:   []any{"Dana"},
	}}
	a := New(DefaultOptions(), stub)

	result := a.AnalyzeMeeting(context.Background(), votingTranscript(), "")

	require.NotNil(t, result)
	assert.Contains(t, result.MainTopics, "Outdoor Dining")
	assert.Contains(t, result.PublicConcerns, "noise after 10pm")
	assert.Equal(t, "Speakers included: Dana", result.Attendance)
}

func TestAnalyzeMeeting_MetadataStamp(t *testing.T) {
	a := New(DefaultOptions(), nil)
	transcript := votingTranscript()

	result := a.AnalyzeMeeting(context.Background(), transcript, "")

	assert.Equal(t, len(transcript), result.Metadata.TranscriptLength)
	assert.Equal(t, len(strings.Fields(transcript)), result.Metadata.WordCount)
	_, err := time.Parse(time.RFC3339, result.Metadata.AnalysisTimestamp)
	assert.NoError(t, err)
}

func TestAnalyzeMeeting_JSONContract(t *testing.T) {
	a := New(DefaultOptions(), nil)

	// 沒有投票、沒有摘要器：所有列表欄位仍需序列化為 []
	result := a.AnalyzeMeeting(context.Background(), "a quiet gathering with no votes", "")
	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"summary", "keyDecisions", "publicConcerns", "nextSteps",
		"sentiment", "attendance", "mainTopics", "importantDates",
		"budgetItems", "addresses", "_metadata",
	} {
		assert.Contains(t, decoded, key)
	}
	for _, key := range []string{"keyDecisions", "publicConcerns", "nextSteps", "mainTopics", "budgetItems", "addresses"} {
		_, isList := decoded[key].([]any)
		assert.True(t, isList, "欄位 %s 應序列化為列表", key)
	}
	// 沒有投票時 _metadata 不應帶 votes_found
	metadata := decoded["_metadata"].(map[string]any)
	assert.NotContains(t, metadata, "votes_found")
}

func TestPostProcess_BackfillsDatesAndAddresses(t *testing.T) {
	a := New(DefaultOptions(), nil)

	transcript := "The next hearing is on March 12, 2026 at 250 West 87th Street. Reply by 3/1/2026."
	analysis := &models.MeetingAnalysis{}
	a.postProcess(analysis, transcript, 0)

	assert.Contains(t, analysis.ImportantDates, "March 12, 2026")
	assert.Contains(t, analysis.ImportantDates, "3/1/2026")
	assert.Contains(t, analysis.Addresses, "250 West 87th Street")
}

func TestFallbackAnalysis_KeywordTopicsAndVoteCap(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := make([]models.VoteRecord, 12)
	for i := range votes {
		votes[i] = models.VoteRecord{Item: fmt.Sprintf("Item %d", i), Outcome: models.OutcomeApproved, VoteCount: "9-0-0-0"}
	}

	result := a.fallbackAnalysis("residents raised housing and parking concerns near the park", votes)

	assert.Equal(t, AnalyzerVersionFallback, result.Metadata.AnalyzerVersion)
	// 降級結果最多列出前十筆投票
	assert.Len(t, result.KeyDecisions, 10)
	assert.Contains(t, result.MainTopics, "Housing")
	assert.Contains(t, result.MainTopics, "Transportation")
	assert.Contains(t, result.MainTopics, "Parks & Environment")
	assert.Equal(t, 12, result.Metadata.VotesFound)
	assert.Contains(t, result.Summary, "12 formal votes identified")
}

func TestQuickVotes(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := a.QuickVotes("Motion to approve the application for 215 West 95th Street. The vote: 9-0-0-0.")
	require.Len(t, votes, 1)
	assert.Equal(t, models.OutcomeApprovedUnanimously, votes[0].Outcome)

	assert.Empty(t, a.QuickVotes(""))
}

func TestNew_ZeroOptionsFallBackToDefaults(t *testing.T) {
	a := New(Options{}, nil)
	assert.Equal(t, DefaultOptions(), a.opts)
}
