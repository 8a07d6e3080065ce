package models

// VoteOutcome 定義投票結果的分類
type VoteOutcome string

const (
	OutcomeApproved            VoteOutcome = "Approved"
	OutcomeApprovedUnanimously VoteOutcome = "Approved Unanimously"
	OutcomeRejected            VoteOutcome = "Rejected"
	OutcomeTied                VoteOutcome = "Tied"
	OutcomeRecorded            VoteOutcome = "Recorded"
	OutcomeUnderConsideration  VoteOutcome = "Under Consideration"
)

// VoteRecord 是從逐字稿中提取出的單一投票事件。
// 記錄一旦建立即不再修改；去重複化會產生新的過濾後列表而非就地修改。
type VoteRecord struct {
	Item       string      `json:"item"`
	Outcome    VoteOutcome `json:"outcome"`
	VoteCount  string      `json:"vote_count"`
	VoteType   string      `json:"vote_type"`
	Context    string      `json:"context"`
	Position   int         `json:"position"`
	RawText    string      `json:"raw_text"`
	Confidence float64     `json:"confidence"`
}

// SegmentType 定義會議段落的對話性質
type SegmentType string

const (
	SegmentVoting       SegmentType = "voting"
	SegmentPresentation SegmentType = "presentation"
	SegmentDiscussion   SegmentType = "discussion"
	SegmentGeneral      SegmentType = "general"
)

// Segment 是逐字稿中以投票位置切分出的一個視窗，
// 只存在於單次分析流程內，不會持久化。
type Segment struct {
	Type  SegmentType  `json:"type"`
	Text  string       `json:"text"`
	Start int          `json:"start"`
	End   int          `json:"end"`
	Votes []VoteRecord `json:"votes"`
}

// SegmentAnalysis 是外部摘要器 (Gemini) 對單一段落的回應。
// 欄位刻意使用 any：外部回傳的形狀不穩定（字串、列表或物件都可能出現），
// 由 analyzer 套件中的 coerce 函式統一正規化。
type SegmentAnalysis struct {
	SegmentType string `json:"segment_type"`
	MainTopics  any    `json:"main_topics"`
	Decisions   any    `json:"decisions"`
	Concerns    any    `json:"concerns"`
	Speakers    any    `json:"speakers"`
	ActionItems any    `json:"action_items"`
}
