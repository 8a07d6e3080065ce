package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"CBMeeting-admin/internal/models"
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:next|this)\s+(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
	regexp.MustCompile(`(?i)\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday),\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?\b`),
}

var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,4}\s+(?:West|East|North|South)\s+\d{1,3}(?:st|nd|rd|th)\s+(?:Street|Avenue)\b`),
	regexp.MustCompile(`\b\d{1,4}\s+(?:[A-Z][a-z]+\s+)+(?:Street|Avenue|Boulevard|Place|Road|Drive|Lane|Broadway)\b`),
}

// extractDates 掃描逐字稿中提到的日期與時間點，保留首次出現的順序
func extractDates(transcript string) []string {
	var dates []string
	for _, p := range datePatterns {
		dates = append(dates, p.FindAllString(transcript, -1)...)
	}
	return uniqueInOrder(dates)
}

// extractAddresses 掃描逐字稿中提到的街道地址
func extractAddresses(transcript string) []string {
	var addresses []string
	for _, p := range addressPatterns {
		addresses = append(addresses, p.FindAllString(transcript, -1)...)
	}
	return uniqueInOrder(addresses)
}

// postProcess 補齊合併結果中外部摘要器沒有填的欄位，
// 並蓋上中繼資料戳記。日期與地址若外部來源缺漏，
// 以規則式掃描結果回填（各取前五筆）。
func (a *Analyzer) postProcess(analysis *models.MeetingAnalysis, transcript string, votesFound int) {
	if len(analysis.ImportantDates) == 0 {
		analysis.ImportantDates = capList(extractDates(transcript), 5)
	}
	if len(analysis.Addresses) == 0 {
		analysis.Addresses = capList(extractAddresses(transcript), 5)
	}

	// JSON 契約要求列表欄位序列化為 []，不能是 null
	if analysis.KeyDecisions == nil {
		analysis.KeyDecisions = []models.Decision{}
	}
	if analysis.PublicConcerns == nil {
		analysis.PublicConcerns = []string{}
	}
	if analysis.NextSteps == nil {
		analysis.NextSteps = []string{}
	}
	if analysis.MainTopics == nil {
		analysis.MainTopics = []string{}
	}
	if analysis.ImportantDates == nil {
		analysis.ImportantDates = []string{}
	}
	if analysis.BudgetItems == nil {
		analysis.BudgetItems = []string{}
	}
	if analysis.Addresses == nil {
		analysis.Addresses = []string{}
	}

	analysis.Metadata = models.AnalysisMetadata{
		AnalyzerVersion:   AnalyzerVersion,
		TranscriptLength:  len(transcript),
		WordCount:         len(strings.Fields(transcript)),
		AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
		VotesFound:        votesFound,
	}
}

// fallbackTopics 降級路徑用的主題關鍵字表，依固定順序掃描
var fallbackTopics = []struct {
	label    string
	keywords []string
}{
	{"Housing", []string{"housing", "apartment", "tenant", "rent"}},
	{"Transportation", []string{"transportation", "traffic", "bus", "bike", "parking"}},
	{"Business", []string{"business", "restaurant", "liquor license", "sidewalk cafe"}},
	{"Parks & Environment", []string{"park", "tree", "playground", "environment"}},
	{"Zoning & Land Use", []string{"zoning", "land use", "development", "construction"}},
	{"Budget", []string{"budget", "funding", "allocation"}},
	{"Education", []string{"school", "education", "student"}},
	{"Public Safety", []string{"safety", "police", "crime"}},
}

// fallbackAnalysis 是最後的防線：當分析流程任何階段發生未預期錯誤時，
// 以已提取到的投票記錄與純關鍵字掃描組出一份格式完整的結果。
// 這條路徑不呼叫任何外部服務，也不會再失敗。
func (a *Analyzer) fallbackAnalysis(transcript string, votes []models.VoteRecord) *models.MeetingAnalysis {
	wordCount := len(strings.Fields(transcript))

	decisions := []models.Decision{}
	shown := votes
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, vote := range shown {
		decisions = append(decisions, models.Decision{
			Item:    vote.Item,
			Outcome: string(vote.Outcome),
			Vote:    vote.VoteCount,
			Details: "Extracted from transcript analysis",
		})
	}

	textLower := strings.ToLower(transcript)
	topics := []string{}
	for _, topic := range fallbackTopics {
		for _, keyword := range topic.keywords {
			if strings.Contains(textLower, keyword) {
				topics = append(topics, topic.label)
				break
			}
		}
	}
	if len(topics) > a.opts.MaxTopics {
		topics = topics[:a.opts.MaxTopics]
	}

	summary := fmt.Sprintf("Community Board meeting transcript analyzed (%d words)", wordCount)
	if len(votes) > 0 {
		summary += fmt.Sprintf(". %d formal votes identified", len(votes))
	}
	summary += "."

	return &models.MeetingAnalysis{
		Summary:        summary,
		KeyDecisions:   decisions,
		PublicConcerns: []string{},
		NextSteps:      []string{},
		Sentiment:      "Mixed",
		Attendance:     "Not specified",
		MainTopics:     topics,
		ImportantDates: capList(extractDates(transcript), 5),
		BudgetItems:    []string{},
		Addresses:      capList(extractAddresses(transcript), 5),
		Metadata: models.AnalysisMetadata{
			AnalyzerVersion:   AnalyzerVersionFallback,
			TranscriptLength:  len(transcript),
			WordCount:         wordCount,
			AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
			VotesFound:        len(votes),
		},
	}
}
