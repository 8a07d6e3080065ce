package analyzer

import "regexp"

// votePattern 是模式庫中的一個條目：表達式、分類與該分類的可信度。
// 分類 (voteType) 同時作為來源標記保留在 VoteRecord 中，供下游加權使用。
type votePattern struct {
	re         *regexp.Regexp
	voteType   string
	confidence float64
}

// votePatterns 依可靠度排列的投票語言模式庫。
// 全部以 (?i) 編譯，掃描時不分大小寫。
var votePatterns = []votePattern{
	// 正式數字表決（最可靠）
	{regexp.MustCompile(`(?i)(?:committee|board)\s+vote\s+is\s+(\d{1,2}[-–]\d{1,2}[-–]\d{1,2}[-–]\d{1,2})`), "formal_vote", 0.95},
	{regexp.MustCompile(`(?i)(\d{1,2}[-–]\d{1,2}[-–]\d{1,2}[-–]\d{1,2})\.?\s*(?:non[-–]?committee|committee)`), "formal_vote", 0.95},
	{regexp.MustCompile(`(?i)vote:?\s+(\d{1,2}[-–]\d{1,2}[-–]\d{1,2}[-–]\d{1,2})`), "formal_vote", 0.9},

	// 口語數字序列
	{regexp.MustCompile(`(?i)(\w+)\s+to\s+(\w+)\s+to\s+(\w+)\s+to\s+(\w+)`), "verbal_vote", 0.85},
	{regexp.MustCompile(`(?i)(\d+)\s+to\s+(\d+)\s+to\s+(\d+)\s+to\s+(\d+)`), "numeric_verbal", 0.9},

	// 表決結果宣告
	{regexp.MustCompile(`(?i)(?:the\s+)?vote\s+passes`), "vote_passes", 0.9},
	{regexp.MustCompile(`(?i)(?:the\s+)?vote\s+fails`), "vote_fails", 0.9},
	{regexp.MustCompile(`(?i)motion\s+(?:is\s+)?approved`), "motion_approved", 0.85},
	{regexp.MustCompile(`(?i)motion\s+(?:is\s+)?rejected`), "motion_rejected", 0.85},

	// 一致通過
	{regexp.MustCompile(`(?i)unanimously?\s+(?:approved?|passed?|adopted?|supported?)`), "unanimous", 0.95},
	{regexp.MustCompile(`(?i)(?:approved?|passed?|adopted?)\s+unanimously?`), "unanimous", 0.95},

	// 動議與決議
	{regexp.MustCompile(`(?i)motion\s+to\s+(?:approve|support|adopt|pass)\s+([^.]+)`), "motion", 0.8},
	{regexp.MustCompile(`(?i)resolution\s+to\s+(?:approve|support|adopt)\s+([^.]+)`), "resolution", 0.8},

	// 程序性提示（預告即將表決，本身不構成投票記錄）
	{regexp.MustCompile(`(?i)call\s+the\s+question`), "call_question", 0.7},
	{regexp.MustCompile(`(?i)ready\s+for\s+the\s+vote`), "ready_vote", 0.7},
	{regexp.MustCompile(`(?i)(?:the\s+)?motion\s+has\s+passed`), "motion_passed", 0.95},
}

// numberWords 口語數字到數值的對照表
var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
}
