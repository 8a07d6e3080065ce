package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"CBMeeting-admin/internal/analyzer"
	"CBMeeting-admin/internal/clients/gemini"
	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/models"
	"CBMeeting-admin/internal/report"
	"CBMeeting-admin/internal/web/handlers" // 為了 DBStore 介面
)

// geminiSegmentSummarizer 把 Gemini 客戶端包裝成分析引擎需要的段落摘要器
type geminiSegmentSummarizer struct {
	client        *gemini.Client
	prompt        string
	promptVersion string
}

// SummarizeSegment 對單一段落執行敘事摘要。段落中若帶有規則式偵測到的投票，
// 會在 Prompt 中附上提示，讓摘要器補充投票的前後脈絡。
func (g *geminiSegmentSummarizer) SummarizeSegment(ctx context.Context, segment models.Segment) (*models.SegmentAnalysis, error) {
	prompt := g.prompt
	if len(segment.Votes) > 0 {
		var hints []string
		for _, vote := range segment.Votes {
			hints = append(hints, fmt.Sprintf("%s (%s)", vote.Item, vote.VoteCount))
		}
		prompt += "\n此段落中已偵測到下列正式投票，請補充其討論脈絡: " + strings.Join(hints, "; ")
	}

	cleanedJSON, err := g.client.AnalyzeText(ctx, segment.Text, prompt)
	if err != nil {
		return nil, fmt.Errorf("Gemini 段落摘要失敗: %w", err)
	}

	var analysis models.SegmentAnalysis
	if err := json.Unmarshal([]byte(cleanedJSON), &analysis); err != nil {
		return nil, fmt.Errorf("無法將段落摘要回應解析為 JSON: %w", err)
	}
	return &analysis, nil
}

// AnalyzeService 負責逐字稿掃描、分析與報告產出的完整流程
type AnalyzeService struct {
	cfg     *config.Config
	db      handlers.DBStore
	archive ArchiveStorage
	engine  *analyzer.Analyzer
}

// NewAnalyzeService 建立 AnalyzeService 實例。
// geminiClient 可為 nil，此時引擎只產出規則式結果。
func NewAnalyzeService(
	cfg *config.Config,
	db handlers.DBStore,
	archive ArchiveStorage,
	geminiClient *gemini.Client,
) (*AnalyzeService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("AnalyzeService：設定不得為空")
	}
	if db == nil {
		return nil, fmt.Errorf("AnalyzeService：DBStore 不得為空")
	}
	if archive == nil {
		return nil, fmt.Errorf("AnalyzeService：ArchiveStorage 不得為空")
	}

	opts := analyzer.Options{
		ContextRadius:       cfg.Analyzer.ContextRadius,
		ProximityThreshold:  cfg.Analyzer.ProximityThreshold,
		SubjectSimilarity:   cfg.Analyzer.SubjectSimilarity,
		ReconcileSimilarity: cfg.Analyzer.ReconcileSimilarity,
		SegmentMinSize:      cfg.Analyzer.SegmentMinSize,
		MaxConcerns:         cfg.Analyzer.MaxConcerns,
		MaxNextSteps:        cfg.Analyzer.MaxNextSteps,
		MaxTopics:           cfg.Analyzer.MaxTopics,
	}

	var summarizer analyzer.SegmentSummarizer
	if geminiClient != nil {
		promptVersionKey := cfg.Prompts.SegmentAnalysis.CurrentVersion
		promptTemplate, ok := cfg.Prompts.SegmentAnalysis.Versions[promptVersionKey]
		if !ok || promptTemplate == "" {
			return nil, fmt.Errorf("未設定有效的段落分析 Prompt (版本: %s)", promptVersionKey)
		}
		log.Printf("資訊：[AnalyzeService] 使用 SegmentAnalysis Prompt 版本: %s\n", promptVersionKey)
		summarizer = &geminiSegmentSummarizer{
			client:        geminiClient,
			prompt:        promptTemplate,
			promptVersion: promptVersionKey,
		}
	} else {
		log.Println("警告：[AnalyzeService] 未提供 Gemini 客戶端，分析將只產出規則式結果。")
	}

	log.Println("資訊：AnalyzeService 初始化完成。")
	return &AnalyzeService{
		cfg:     cfg,
		db:      db,
		archive: archive,
		engine:  analyzer.New(opts, summarizer),
	}, nil
}

// Engine 回傳底層的分析引擎，供同步 API 處理器共用同一組門檻設定
func (s *AnalyzeService) Engine() *analyzer.Analyzer {
	return s.engine
}

// ExecuteTranscriptScanPipeline 掃描封存目錄，把新出現的逐字稿登記為待分析
func (s *AnalyzeService) ExecuteTranscriptScanPipeline() error {
	log.Println("資訊：[AnalyzeService-ScanPipeline] 開始掃描逐字稿封存目錄...")
	transcriptFiles, err := s.archive.ListTranscripts()
	if err != nil {
		log.Printf("錯誤：[AnalyzeService-ScanPipeline] 掃描逐字稿失敗: %v", err)
		return err
	}
	if len(transcriptFiles) == 0 {
		log.Println("資訊：[AnalyzeService-ScanPipeline] 未找到任何逐字稿。")
		return nil
	}

	var readyCount, skipCount, failCount int
	for _, fileInfo := range transcriptFiles {
		baseMeeting := &models.Meeting{
			SourceName:     fileInfo.SourceName,
			SourceID:       fileInfo.OriginalID,
			TranscriptPath: sql.NullString{String: fileInfo.RelativePath, Valid: true},
			FetchedAt:      fileInfo.ModTime,
		}
		meetingID, findErr := s.db.FindOrCreateMeeting(baseMeeting)
		if findErr != nil {
			log.Printf("錯誤：[AnalyzeService-ScanPipeline] 為逐字稿 '%s' 查找/建立會議記錄失敗: %v", fileInfo.RelativePath, findErr)
			failCount++
			continue
		}

		existing, getErr := s.db.GetMeetingByID(meetingID)
		if getErr != nil {
			log.Printf("錯誤：[AnalyzeService-ScanPipeline] 查詢會議 ID %d 狀態失敗: %v\n", meetingID, getErr)
			failCount++
			continue
		}
		if existing != nil && (existing.AnalysisStatus == models.StatusCompleted || existing.AnalysisStatus == models.StatusAnalyzing) {
			skipCount++
			continue
		}

		if err := s.db.UpdateMeetingStatus(meetingID, models.StatusTranscriptReady, sql.NullTime{}); err != nil {
			log.Printf("警告：[AnalyzeService-ScanPipeline] 更新會議 ID %d 狀態為 '%s' 失敗: %v\n", meetingID, models.StatusTranscriptReady, err)
			failCount++
			continue
		}
		readyCount++
	}
	log.Printf("資訊：[AnalyzeService-ScanPipeline] 掃描完成。待分析: %d, 已完成略過: %d, 失敗: %d\n", readyCount, skipCount, failCount)
	return nil
}

// ExecuteAnalysisPipeline 對所有逐字稿就位的會議執行投票提取與摘要分析
func (s *AnalyzeService) ExecuteAnalysisPipeline() error {
	log.Println("資訊：[AnalyzeService-AnalysisPipeline] 開始執行會議分析流程...")
	meetings, err := s.db.GetMeetingsByStatus(models.StatusTranscriptReady, 10)
	if err != nil {
		log.Printf("錯誤：[AnalyzeService-AnalysisPipeline] 從資料庫獲取待分析會議失敗: %v", err)
		return err
	}
	if len(meetings) == 0 {
		log.Println("資訊：[AnalyzeService-AnalysisPipeline] 沒有等待分析的會議 (狀態: transcript_ready)。")
		return nil
	}
	log.Printf("資訊：[AnalyzeService-AnalysisPipeline] 找到 %d 個會議準備進行分析。\n", len(meetings))

	var successCount, failCount int
	for _, meeting := range meetings {
		if s.analyzeMeeting(meeting) {
			successCount++
		} else {
			failCount++
		}
	}
	log.Printf("資訊：[AnalyzeService-AnalysisPipeline] 會議分析流程完成。成功: %d, 失敗: %d\n", successCount, failCount)
	return nil
}

// analyzeMeeting 處理單一會議：讀取逐字稿、分析、入庫並產出 Markdown 報告
func (s *AnalyzeService) analyzeMeeting(meeting models.Meeting) bool {
	log.Printf("資訊：[AnalyzeService-AnalysisPipeline] 開始分析會議 ID %d (%s/%s)\n", meeting.ID, meeting.SourceName, meeting.SourceID)

	if !meeting.TranscriptPath.Valid || meeting.TranscriptPath.String == "" {
		log.Printf("錯誤：[AnalyzeService-AnalysisPipeline] 會議 ID %d 沒有逐字稿路徑。\n", meeting.ID)
		s.markFailed(meeting.ID, "會議記錄缺少逐字稿路徑")
		return false
	}

	s.db.UpdateMeetingStatus(meeting.ID, models.StatusAnalyzing, sql.NullTime{Time: time.Now(), Valid: true})

	transcript, readErr := s.archive.ReadTranscript(meeting.TranscriptPath.String)
	if readErr != nil {
		log.Printf("錯誤：[AnalyzeService-AnalysisPipeline] 讀取會議 ID %d 的逐字稿失敗: %v\n", meeting.ID, readErr)
		s.markFailed(meeting.ID, "讀取逐字稿失敗: "+readErr.Error())
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	analysis := s.engine.AnalyzeMeeting(ctx, transcript, meeting.Title.String)
	cancel()
	currentTime := time.Now()

	analysisJSON, marshalErr := json.Marshal(analysis)
	if marshalErr != nil {
		log.Printf("錯誤：[AnalyzeService-AnalysisPipeline] 序列化會議 ID %d 的分析結果失敗: %v\n", meeting.ID, marshalErr)
		s.markFailed(meeting.ID, "序列化分析結果失敗: "+marshalErr.Error())
		return false
	}

	record := &models.AnalysisRecord{
		MeetingID:       meeting.ID,
		AnalysisJSON:    analysisJSON,
		Summary:         &models.JsonNullString{NullString: sql.NullString{String: analysis.Summary, Valid: analysis.Summary != ""}},
		Sentiment:       &models.JsonNullString{NullString: sql.NullString{String: analysis.Sentiment, Valid: analysis.Sentiment != ""}},
		VotesFound:      analysis.Metadata.VotesFound,
		AnalyzerVersion: analysis.Metadata.AnalyzerVersion,
		CreatedAt:       currentTime,
		UpdatedAt:       currentTime,
	}
	if err := s.db.SaveAnalysisRecord(record); err != nil {
		log.Printf("錯誤：[AnalyzeService-AnalysisPipeline] 儲存會議 ID %d 的分析結果失敗: %v\n", meeting.ID, err)
		s.markFailed(meeting.ID, "儲存分析結果失敗: "+err.Error())
		return false
	}

	// 報告產出失敗不影響分析完成的判定，只留下警告
	markdown := report.RenderMarkdown(meeting.Title.String, analysis, currentTime)
	reportFileName := fmt.Sprintf("%s_summary.md", meeting.SourceID)
	reportPath, reportErr := s.archive.SaveReport(meeting.SourceName, meeting.SourceID, reportFileName, []byte(markdown))
	if reportErr != nil {
		log.Printf("警告：[AnalyzeService-AnalysisPipeline] 產出會議 ID %d 的報告失敗: %v\n", meeting.ID, reportErr)
	} else {
		if err := s.db.UpdateMeetingPaths(meeting.ID, meeting.TranscriptPath, sql.NullString{String: reportPath, Valid: true}); err != nil {
			log.Printf("警告：[AnalyzeService-AnalysisPipeline] 記錄會議 ID %d 的報告路徑失敗: %v\n", meeting.ID, err)
		}
	}

	if err := s.db.UpdateMeetingStatus(meeting.ID, models.StatusCompleted, sql.NullTime{Time: currentTime, Valid: true}); err != nil {
		log.Printf("警告：[AnalyzeService-AnalysisPipeline] 更新會議 ID %d 狀態為完成失敗: %v\n", meeting.ID, err)
	}
	log.Printf("資訊：[AnalyzeService-AnalysisPipeline] 會議 ID %d 分析完成 (投票: %d, 決議: %d)。\n", meeting.ID, analysis.Metadata.VotesFound, len(analysis.KeyDecisions))
	return true
}

// markFailed 把會議標記為分析失敗並保留錯誤訊息
func (s *AnalyzeService) markFailed(meetingID int64, message string) {
	currentTime := time.Now()
	s.db.UpdateMeetingStatus(meetingID, models.StatusAnalysisFailed, sql.NullTime{Time: currentTime, Valid: true})
	failedRecord := &models.AnalysisRecord{
		MeetingID:    meetingID,
		ErrorMessage: &models.JsonNullString{NullString: sql.NullString{String: message, Valid: true}},
		CreatedAt:    currentTime,
		UpdatedAt:    currentTime,
	}
	if err := s.db.SaveAnalysisRecord(failedRecord); err != nil {
		log.Printf("錯誤：[AnalyzeService] 儲存會議 ID %d 的失敗記錄時發生錯誤: %v\n", meetingID, err)
	}
}

// Run 依序執行掃描與分析流程，供排程器與手動觸發共用
func (s *AnalyzeService) Run() error {
	log.Println("資訊：[AnalyzeService-SchedulerRun] 排程器觸發完整分析流程...")
	if err := s.ExecuteTranscriptScanPipeline(); err != nil {
		log.Printf("錯誤：[AnalyzeService-SchedulerRun] 逐字稿掃描流程執行期間發生錯誤: %v", err)
	}
	if err := s.ExecuteAnalysisPipeline(); err != nil {
		log.Printf("錯誤：[AnalyzeService-SchedulerRun] 會議分析流程執行期間發生錯誤: %v", err)
	}
	log.Println("資訊：[AnalyzeService-SchedulerRun] 完整分析流程執行完成。")
	return nil
}
