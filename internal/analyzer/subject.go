package analyzer

import (
	"regexp"
	"strings"
)

var (
	// 門牌號 + 街名 + 道路字尾；含紐約常見的方位編號街型 (215 West 95th Street)
	addressSubjectPattern = regexp.MustCompile(`(?i)(\d{1,4}\s+(?:West|East|North|South)\s+\d{1,3}(?:st|nd|rd|th)\s+(?:Avenue|Street)|\d{1,4}\s+\w+\s+(?:avenue|street|ave|st|broadway))`)

	// 商號名稱（大小寫敏感：要求首字母大寫的專有名詞）
	businessSubjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:for|from|by)\s+([A-Z][A-Za-z\s&]+(?:LLC|Inc|Corp|Restaurant|Cafe|Bar))`),
		regexp.MustCompile(`([A-Z][A-Za-z\s&]+)\s+(?:application|request|proposal)`),
	}

	// 動議／決議／提案語句（在小寫化後的上下文中搜尋）
	motionSubjectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`motion\s+to\s+(\w+)\s+([^.]+?)(?:\.|,|;)`),
		regexp.MustCompile(`resolution\s+(?:to\s+)?(\w+)\s+([^.]+?)(?:\.|,|;)`),
		regexp.MustCompile(`proposal\s+to\s+(\w+)\s+([^.]+?)(?:\.|,|;)`),
	}
)

// topicLabel 是主題關鍵字到固定描述標籤的對應，依優先順序排列
type topicLabel struct {
	keyword string
	label   string
}

var topicLabels = []topicLabel{
	{"sidewalk cafe", "Sidewalk Cafe Application"},
	{"liquor license", "Liquor License Application"},
	{"outdoor dining", "Outdoor Dining Proposal"},
	{"zoning", "Zoning Matter"},
	{"landmark", "Landmark Designation"},
	{"budget", "Budget Item"},
	{"housing", "Housing Proposal"},
	{"development", "Development Application"},
}

// resolveSubject 從投票匹配點的上下文視窗推斷表決主旨。
// 規則依嚴格優先順序套用，一命中即回傳；保證不回傳空字串。
func resolveSubject(context string) string {
	contextLower := strings.ToLower(context)

	// 1. 街道地址
	if m := addressSubjectPattern.FindStringSubmatch(context); m != nil {
		return "Application: " + m[1]
	}

	// 2. 商號名稱
	for _, p := range businessSubjectPatterns {
		if m := p.FindStringSubmatch(context); m != nil {
			return strings.TrimSpace(m[1]) + " Application"
		}
	}

	// 3. 動議／決議語句
	for _, p := range motionSubjectPatterns {
		if m := p.FindStringSubmatch(contextLower); m != nil {
			action := m[1]
			subject := strings.TrimSpace(m[2])
			return capitalize(action) + " " + cleanItemText(subject)
		}
	}

	// 4. 主題關鍵字
	for _, t := range topicLabels {
		if strings.Contains(contextLower, t.keyword) {
			return t.label
		}
	}

	// 5. 會議程序
	switch {
	case strings.Contains(contextLower, "agenda"):
		return "Agenda Adoption"
	case strings.Contains(contextLower, "minutes"):
		return "Minutes Approval"
	case strings.Contains(contextLower, "adjourn"):
		return "Motion to Adjourn"
	}

	// 6. 通用後備標籤
	return "Community Board Item"
}

// lowercaseWords 在標題化時保持小寫的冠詞與介系詞（首字除外）
var lowercaseWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true,
	"on": true, "at": true, "to": true, "for": true,
}

// cleanItemText 清理主旨文字：折疊空白、標題化、去尾端標點、截斷至 100 字元。
func cleanItemText(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		if i == 0 || !lowercaseWords[strings.ToLower(word)] {
			words[i] = capitalize(word)
		} else {
			words[i] = strings.ToLower(word)
		}
	}
	text = strings.Join(words, " ")
	text = strings.TrimRight(text, ".,;:")

	if len(text) > 100 {
		text = text[:97] + "..."
	}
	return text
}

// capitalize 首字母大寫、其餘小寫（對應 Python 的 str.capitalize）
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
