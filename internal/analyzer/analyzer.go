package analyzer

import (
	"context"
	"log"

	"CBMeeting-admin/internal/models"
)

// AnalyzerVersion 標記在每份分析結果的 _metadata 中
const (
	AnalyzerVersion         = "2.1-gemini"
	AnalyzerVersionFallback = "2.1-fallback"
)

// SegmentSummarizer 是外部敘事摘要能力的介面。
// 核心不持有任何全域客戶端；呼叫端注入實作（正式環境為 Gemini 客戶端）。
type SegmentSummarizer interface {
	SummarizeSegment(ctx context.Context, segment models.Segment) (*models.SegmentAnalysis, error)
}

// Options 集中本引擎所有經驗性的門檻常數。
// 相似度與鄰近門檻 (0.7/0.8/200) 來自對實際會議逐字稿的觀察，
// 沒有理論推導依據，保留為可設定參數以便之後針對標註語料調校。
type Options struct {
	ContextRadius       int     // 投票匹配點前後擷取的上下文半徑（字元）
	ProximityThreshold  int     // 視為同一事件的位置距離上限（字元）
	SubjectSimilarity   float64 // 去重複化時主旨文字的相似度門檻
	ReconcileSimilarity float64 // 合併外部決議時的相似度門檻
	SegmentMinSize      int     // 段落的最小長度，低於此值直接捨棄
	MaxConcerns         int
	MaxNextSteps        int
	MaxTopics           int
}

// DefaultOptions 回傳引擎的預設門檻
func DefaultOptions() Options {
	return Options{
		ContextRadius:       1000,
		ProximityThreshold:  200,
		SubjectSimilarity:   0.8,
		ReconcileSimilarity: 0.7,
		SegmentMinSize:      1000,
		MaxConcerns:         15,
		MaxNextSteps:        10,
		MaxTopics:           10,
	}
}

// Analyzer 是投票提取與決議調和引擎。
// 每次呼叫只操作傳入的值，無共享可變狀態，可安全地並行處理多份逐字稿。
type Analyzer struct {
	opts       Options
	summarizer SegmentSummarizer
}

// New 建立一個 Analyzer。summarizer 可為 nil，
// 此時只產出規則式結果（快速分析路徑）。
func New(opts Options, summarizer SegmentSummarizer) *Analyzer {
	if opts.ContextRadius <= 0 {
		opts = DefaultOptions()
	}
	return &Analyzer{opts: opts, summarizer: summarizer}
}

// AnalyzeMeeting 對一份逐字稿執行完整分析流程並回傳統一結果。
// 本方法絕不回傳錯誤：任一階段失敗都會降級為純規則式的結果，
// 呼叫端永遠拿到一份格式完整的 MeetingAnalysis。
func (a *Analyzer) AnalyzeMeeting(ctx context.Context, transcript string, title string) (result *models.MeetingAnalysis) {
	log.Printf("資訊：[Analyzer] 開始分析逐字稿（長度: %d 字元）\n", len(transcript))

	var votes []models.VoteRecord
	defer func() {
		if r := recover(); r != nil {
			log.Printf("錯誤：[Analyzer] 分析流程發生未預期錯誤: %v，回傳降級結果。\n", r)
			result = a.fallbackAnalysis(transcript, votes)
		}
	}()

	votes = a.DeduplicateVotes(a.ExtractVotes(transcript))
	log.Printf("資訊：[Analyzer] 提取到 %d 筆去重後的投票記錄。\n", len(votes))

	segments := a.BuildSegments(transcript, votes)
	log.Printf("資訊：[Analyzer] 切分出 %d 個會議段落。\n", len(segments))

	var segmentAnalyses []models.SegmentAnalysis
	if a.summarizer != nil {
		for i, segment := range segments {
			log.Printf("資訊：[Analyzer] 分析段落 %d/%d（類型: %s）\n", i+1, len(segments), segment.Type)
			analysis, err := a.summarizer.SummarizeSegment(ctx, segment)
			if err != nil {
				// 單一段落失敗不中止流程，其餘段落照常處理
				log.Printf("警告：[Analyzer] 段落 %d 摘要失敗: %v\n", i+1, err)
				continue
			}
			if analysis != nil {
				segmentAnalyses = append(segmentAnalyses, *analysis)
			}
		}
	}

	combined := a.combineAnalyses(segmentAnalyses, votes, title)
	a.postProcess(combined, transcript, len(votes))
	log.Println("資訊：[Analyzer] 分析完成。")
	return combined
}

// QuickVotes 是輕量分析路徑：只跑提取與去重複化，跳過敘事摘要。
func (a *Analyzer) QuickVotes(transcript string) []models.VoteRecord {
	return a.DeduplicateVotes(a.ExtractVotes(transcript))
}
