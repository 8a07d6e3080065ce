package models

import (
	"encoding/json"
	"time"
)

// Decision 是統一後的單一決議項目，可能來自規則式投票提取，
// 也可能來自外部敘事摘要。
type Decision struct {
	Item    string `json:"item"`
	Outcome string `json:"outcome"`
	Vote    string `json:"vote"`
	Details string `json:"details"`
}

// AnalysisMetadata 附加在每份分析結果上的中繼資料區塊
type AnalysisMetadata struct {
	AnalyzerVersion   string `json:"analyzer_version"`
	TranscriptLength  int    `json:"transcript_length"`
	WordCount         int    `json:"word_count"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
	VotesFound        int    `json:"votes_found,omitempty"`
}

// MeetingAnalysis 是分析引擎的最終產物，欄位名稱即對外 JSON 契約。
type MeetingAnalysis struct {
	Summary        string           `json:"summary"`
	KeyDecisions   []Decision       `json:"keyDecisions"`
	PublicConcerns []string         `json:"publicConcerns"`
	NextSteps      []string         `json:"nextSteps"`
	Sentiment      string           `json:"sentiment"`
	Attendance     string           `json:"attendance"`
	MainTopics     []string         `json:"mainTopics"`
	ImportantDates []string         `json:"importantDates"`
	BudgetItems    []string         `json:"budgetItems"`
	Addresses      []string         `json:"addresses"`
	Metadata       AnalysisMetadata `json:"_metadata"`
}

// AnalysisRecord 對應 meeting_analyses 資料表。
// 完整的 MeetingAnalysis 以 JSON 形式儲存在 AnalysisJSON，
// 另外抽出幾個常用欄位供儀表板與匯出查詢。
type AnalysisRecord struct {
	MeetingID       int64           `json:"-"`
	AnalysisJSON    json.RawMessage `json:"analysis,omitempty"`
	Summary         *JsonNullString `json:"summary,omitempty"`
	Sentiment       *JsonNullString `json:"sentiment,omitempty"`
	VotesFound      int             `json:"votes_found"`
	AnalyzerVersion string          `json:"-"`
	ErrorMessage    *JsonNullString `json:"error_message,omitempty"`
	CreatedAt       time.Time       `json:"-"`
	UpdatedAt       time.Time       `json:"-"`
}
