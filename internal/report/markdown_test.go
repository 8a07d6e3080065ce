package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CBMeeting-admin/internal/models"
)

func TestRenderMarkdown_FullAnalysis(t *testing.T) {
	processedAt := time.Date(2026, 3, 12, 19, 30, 0, 0, time.UTC)
	analysis := &models.MeetingAnalysis{
		Summary: "Business Committee meeting. 1 formal votes recorded.",
		KeyDecisions: []models.Decision{
			{Item: "Liquor License Application", Outcome: "Approved", Vote: "8-1-0-0", Details: "Formal vote recorded."},
		},
		PublicConcerns: []string{"noise after 10pm"},
		NextSteps:      []string{"Contact the applicant"},
		MainTopics:     []string{"Outdoor Dining"},
		ImportantDates: []string{"March 12, 2026"},
		Addresses:      []string{"250 West 87th Street"},
		Metadata: models.AnalysisMetadata{
			AnalyzerVersion: "2.1-gemini",
			WordCount:       4200,
			VotesFound:      1,
		},
	}

	markdown := RenderMarkdown("CB7 Business Committee", analysis, processedAt)

	assert.True(t, strings.HasPrefix(markdown, "# CB7 Business Committee\n"))
	assert.Contains(t, markdown, "**Processed:** 2026-03-12 19:30")
	assert.Contains(t, markdown, "## Summary\nBusiness Committee meeting. 1 formal votes recorded.")
	assert.Contains(t, markdown, "- **Liquor License Application**: Approved (8-1-0-0)")
	assert.Contains(t, markdown, "  - Formal vote recorded.")
	assert.Contains(t, markdown, "## Community Concerns\n- noise after 10pm")
	assert.Contains(t, markdown, "## Next Steps\n- Contact the applicant")
	assert.Contains(t, markdown, "## Main Topics\n- Outdoor Dining")
	assert.Contains(t, markdown, "**Dates mentioned:** March 12, 2026")
	assert.Contains(t, markdown, "**Addresses mentioned:** 250 West 87th Street")
	assert.Contains(t, markdown, "*Analyzer 2.1-gemini | 4200 words | 1 votes found*")
}

func TestRenderMarkdown_EmptyAnalysisUsesDefaults(t *testing.T) {
	markdown := RenderMarkdown("", &models.MeetingAnalysis{}, time.Now())

	assert.True(t, strings.HasPrefix(markdown, "# Community Board Meeting\n"))
	assert.Contains(t, markdown, "## Summary\nNo summary available")
	// 空區塊整段省略
	assert.NotContains(t, markdown, "## Key Decisions")
	assert.NotContains(t, markdown, "## Community Concerns")
	assert.NotContains(t, markdown, "## Next Steps")
	assert.NotContains(t, markdown, "## Main Topics")
	assert.NotContains(t, markdown, "## References")
}

func TestRenderMarkdown_DecisionFieldDefaults(t *testing.T) {
	analysis := &models.MeetingAnalysis{
		KeyDecisions: []models.Decision{{}},
	}

	markdown := RenderMarkdown("Title", analysis, time.Now())
	assert.Contains(t, markdown, "- **Unknown**: Unknown (No vote recorded)")
}
