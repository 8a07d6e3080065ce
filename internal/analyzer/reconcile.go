package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"CBMeeting-admin/internal/models"
)

// combineAnalyses 把規則式投票記錄與外部摘要器的段落分析合併為統一結果。
// 投票記錄具權威性，一律先成為決議項目；外部決議與既有項目的主旨
// 相似度超過門檻時視為同一決議，其上下文併入既有項目的細節，
// 否則以敘事來源的身分新增。主旨為空的外部決議直接略過。
func (a *Analyzer) combineAnalyses(analyses []models.SegmentAnalysis, votes []models.VoteRecord, title string) *models.MeetingAnalysis {
	combined := &models.MeetingAnalysis{
		KeyDecisions:   []models.Decision{},
		PublicConcerns: []string{},
		NextSteps:      []string{},
		Sentiment:      "Mixed",
		Attendance:     "Not specified",
		MainTopics:     []string{},
		ImportantDates: []string{},
		BudgetItems:    []string{},
		Addresses:      []string{},
	}

	var allTopics, allConcerns, allSpeakers, allActionItems []string
	var externalDecisions []any

	for _, analysis := range analyses {
		allTopics = append(allTopics, coerceStringList(analysis.MainTopics)...)
		allConcerns = append(allConcerns, coerceStringList(analysis.Concerns)...)
		allSpeakers = append(allSpeakers, coerceStringList(analysis.Speakers)...)
		allActionItems = append(allActionItems, coerceStringList(analysis.ActionItems)...)
		if list, ok := analysis.Decisions.([]any); ok {
			externalDecisions = append(externalDecisions, list...)
		}
	}

	// 規則式投票記錄直接轉為決議項目（來源：formal vote）
	for _, vote := range votes {
		combined.KeyDecisions = append(combined.KeyDecisions, models.Decision{
			Item:    vote.Item,
			Outcome: string(vote.Outcome),
			Vote:    vote.VoteCount,
			Details: "Formal vote recorded. " + extractVoteContext(vote.Context),
		})
	}

	// 外部回報的決議：先比對是否與既有項目指向同一事件
	for _, raw := range externalDecisions {
		decision, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item := strings.TrimSpace(coerceString(decision["item"]))
		if item == "" {
			continue
		}

		merged := false
		for i := range combined.KeyDecisions {
			similarity := similarityRatio(strings.ToLower(item), strings.ToLower(combined.KeyDecisions[i].Item))
			if similarity > a.opts.ReconcileSimilarity {
				if context := coerceString(decision["context"]); context != "" {
					combined.KeyDecisions[i].Details += " " + context
				}
				merged = true
				break
			}
		}
		if merged {
			continue
		}

		outcome := coerceString(decision["outcome"])
		if outcome == "" {
			outcome = "Discussed"
		}
		voteStr := coerceString(decision["vote"])
		if voteStr == "" {
			voteStr = "No formal vote"
		}
		details := coerceString(decision["context"])
		if details == "" {
			details = "Item discussed during meeting"
		}
		combined.KeyDecisions = append(combined.KeyDecisions, models.Decision{
			Item:    item,
			Outcome: outcome,
			Vote:    voteStr,
			Details: details,
		})
	}

	// 聚合採集合語意（大小寫敏感的完全比對），保留首次出現的順序
	combined.PublicConcerns = capList(uniqueInOrder(allConcerns), a.opts.MaxConcerns)
	combined.NextSteps = capList(filterNextSteps(uniqueInOrder(allActionItems)), a.opts.MaxNextSteps)
	combined.MainTopics = capList(uniqueInOrder(allTopics), a.opts.MaxTopics)

	combined.Summary = generateSummary(title, len(votes), len(combined.MainTopics), allSpeakers)

	if uniqueSpeakers := uniqueInOrder(allSpeakers); len(uniqueSpeakers) > 0 {
		shown := uniqueSpeakers
		if len(shown) > 5 {
			shown = shown[:5]
		}
		combined.Attendance = "Speakers included: " + strings.Join(shown, ", ")
		if len(uniqueSpeakers) > 5 {
			combined.Attendance += fmt.Sprintf(" and %d others", len(uniqueSpeakers)-5)
		}
	}

	return combined
}

var voteContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:regarding|concerning|about|for)\s+([^.]+?)(?:\.|,|;)`),
	regexp.MustCompile(`(?i)(?:proposal|application|request)\s+(?:to|for)\s+([^.]+?)(?:\.|,|;)`),
	regexp.MustCompile(`(?i)(?:discussion\s+of|consideration\s+of)\s+([^.]+?)(?:\.|,|;)`),
}

// extractVoteContext 從上下文視窗擷取一句說明投票緣由的補充文字
func extractVoteContext(context string) string {
	for _, p := range voteContextPatterns {
		if m := p.FindStringSubmatch(context); m != nil {
			return "Regarding " + strings.TrimSpace(m[1])
		}
	}
	return "Vote taken after discussion"
}

// generateSummary 組出一行敘事摘要：會議類型、投票數、主題數與講者清單
func generateSummary(title string, voteCount int, topicCount int, speakers []string) string {
	parts := []string{identifyMeetingType(title)}

	if voteCount > 0 {
		parts = append(parts, fmt.Sprintf("%d formal votes recorded", voteCount))
	}
	if topicCount > 0 {
		parts = append(parts, fmt.Sprintf("%d main topics discussed", topicCount))
	}

	if uniqueSpeakers := uniqueInOrder(speakers); len(uniqueSpeakers) > 0 {
		if len(uniqueSpeakers) <= 3 {
			parts = append(parts, "Presentations by "+strings.Join(uniqueSpeakers, ", "))
		} else {
			parts = append(parts, fmt.Sprintf("Multiple presentations including %s and others", strings.Join(uniqueSpeakers[:2], ", ")))
		}
	}

	return strings.Join(parts, ". ") + "."
}

// identifyMeetingType 由會議標題推斷會議類型標籤
func identifyMeetingType(title string) string {
	titleLower := strings.ToLower(title)

	switch {
	case strings.Contains(titleLower, "parks"):
		return "Parks & Environment Committee meeting"
	case strings.Contains(titleLower, "business"):
		return "Business & Consumer Issues Committee meeting"
	case strings.Contains(titleLower, "housing"):
		return "Housing Committee meeting"
	case strings.Contains(titleLower, "transportation"):
		return "Transportation Committee meeting"
	case strings.Contains(titleLower, "land use"):
		return "Land Use Committee meeting"
	case strings.Contains(titleLower, "budget"):
		return "Budget Committee meeting"
	case strings.Contains(titleLower, "full board"):
		return "Full Board meeting"
	}
	return "Community Board meeting"
}

// actionKeywords 代表真正待辦事項的動詞
var actionKeywords = []string{
	"contact", "visit", "pick up", "submit", "attend",
	"review", "send", "register", "apply", "email", "call",
}

// excludeKeywords 代表過去事件或敘述而非待辦的字詞
var excludeKeywords = []string{
	"presented", "discussed", "was", "were", "received",
	"gave", "showed", "explained",
}

// filterNextSteps 過濾聚合後的待辦清單，只留下真正的行動項目
func filterNextSteps(rawNextSteps []string) []string {
	var filtered []string

	for _, step := range rawNextSteps {
		stepLower := strings.ToLower(step)

		hasAction := false
		for _, keyword := range actionKeywords {
			if strings.Contains(stepLower, keyword) {
				hasAction = true
				break
			}
		}
		hasExclude := false
		for _, keyword := range excludeKeywords {
			if strings.Contains(stepLower, keyword) {
				hasExclude = true
				break
			}
		}

		if hasAction && !hasExclude {
			filtered = append(filtered, step)
		} else if strings.HasPrefix(stepLower, "to ") || strings.HasPrefix(stepLower, "please ") ||
			strings.HasPrefix(stepLower, "will ") || strings.HasPrefix(stepLower, "should ") {
			filtered = append(filtered, step)
		}
	}

	return filtered
}

// uniqueInOrder 去除重複（大小寫敏感），保留首次出現的順序
func uniqueInOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}

// capList 截斷列表到顯示上限，並保證回傳非 nil（JSON 序列化為 []）
func capList(items []string, limit int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
