package report

import (
	"fmt"
	"strings"
	"time"

	"CBMeeting-admin/internal/models"
)

// RenderMarkdown 把一份分析結果轉為可發佈的 Markdown 報告。
// 空的選填區塊（決議、關注事項、後續行動）整段省略。
func RenderMarkdown(title string, analysis *models.MeetingAnalysis, processedAt time.Time) string {
	var sb strings.Builder

	if title == "" {
		title = "Community Board Meeting"
	}
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("**Processed:** " + processedAt.Format("2006-01-02 15:04") + "\n\n")

	summary := analysis.Summary
	if summary == "" {
		summary = "No summary available"
	}
	sb.WriteString("## Summary\n" + summary + "\n\n")

	if len(analysis.KeyDecisions) > 0 {
		sb.WriteString("## Key Decisions\n")
		for _, decision := range analysis.KeyDecisions {
			item := decision.Item
			if item == "" {
				item = "Unknown"
			}
			outcome := decision.Outcome
			if outcome == "" {
				outcome = "Unknown"
			}
			vote := decision.Vote
			if vote == "" {
				vote = "No vote recorded"
			}
			sb.WriteString(fmt.Sprintf("- **%s**: %s (%s)\n", item, outcome, vote))
			if decision.Details != "" {
				sb.WriteString("  - " + decision.Details + "\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(analysis.PublicConcerns) > 0 {
		sb.WriteString("## Community Concerns\n")
		for _, concern := range analysis.PublicConcerns {
			sb.WriteString("- " + concern + "\n")
		}
		sb.WriteString("\n")
	}

	if len(analysis.NextSteps) > 0 {
		sb.WriteString("## Next Steps\n")
		for _, step := range analysis.NextSteps {
			sb.WriteString("- " + step + "\n")
		}
		sb.WriteString("\n")
	}

	if len(analysis.MainTopics) > 0 {
		sb.WriteString("## Main Topics\n")
		for _, topic := range analysis.MainTopics {
			sb.WriteString("- " + topic + "\n")
		}
		sb.WriteString("\n")
	}

	if len(analysis.ImportantDates) > 0 || len(analysis.Addresses) > 0 {
		sb.WriteString("## References\n")
		if len(analysis.ImportantDates) > 0 {
			sb.WriteString("**Dates mentioned:** " + strings.Join(analysis.ImportantDates, "; ") + "\n\n")
		}
		if len(analysis.Addresses) > 0 {
			sb.WriteString("**Addresses mentioned:** " + strings.Join(analysis.Addresses, "; ") + "\n\n")
		}
	}

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("*Analyzer %s | %d words | %d votes found*\n",
		analysis.Metadata.AnalyzerVersion, analysis.Metadata.WordCount, analysis.Metadata.VotesFound))

	return sb.String()
}
