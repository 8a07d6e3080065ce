package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/models"
	"CBMeeting-admin/internal/report"
	"CBMeeting-admin/internal/storage/archive"
	"CBMeeting-admin/internal/storage/mysql"
)

// 批次重新產出所有已完成會議的 Markdown 報告。
// 報告範本調整後，用這個工具回填歷史會議的報告檔案。
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load("configs", "config")
	if err != nil {
		log.Fatalf("無法載入配置: %v", err)
	}

	db, err := mysql.NewMySQLStore(cfg.Database)
	if err != nil {
		log.Fatalf("無法連接到資料庫: %v", err)
	}
	defer db.Close()

	archiveStorage, err := archive.NewFileSystemStorage(cfg.Archive)
	if err != nil {
		log.Fatalf("無法初始化封存儲存: %v", err)
	}

	meetings, analysisRecords, err := db.GetAllMeetingsWithAnalysis(1000, 0, "", string(models.StatusCompleted))
	if err != nil {
		log.Fatalf("無法獲取會議數據: %v", err)
	}

	recordMap := make(map[int64]models.AnalysisRecord)
	for _, record := range analysisRecords {
		recordMap[record.MeetingID] = record
	}

	var generated, skipped int
	for _, meeting := range meetings {
		record, ok := recordMap[meeting.ID]
		if !ok || len(record.AnalysisJSON) == 0 || string(record.AnalysisJSON) == "null" {
			log.Printf("警告：會議 ID %d 沒有分析結果，略過報告產出。", meeting.ID)
			skipped++
			continue
		}

		var analysis models.MeetingAnalysis
		if err := json.Unmarshal(record.AnalysisJSON, &analysis); err != nil {
			log.Printf("錯誤：無法解析會議 ID %d 的 AnalysisJSON: %v", meeting.ID, err)
			skipped++
			continue
		}

		markdown := report.RenderMarkdown(meeting.Title.String, &analysis, record.UpdatedAt)
		reportFileName := fmt.Sprintf("%s_summary.md", meeting.SourceID)
		reportPath, err := archiveStorage.SaveReport(meeting.SourceName, meeting.SourceID, reportFileName, []byte(markdown))
		if err != nil {
			log.Printf("錯誤：產出會議 ID %d 的報告失敗: %v", meeting.ID, err)
			skipped++
			continue
		}
		if err := db.UpdateMeetingPaths(meeting.ID, meeting.TranscriptPath, sql.NullString{String: reportPath, Valid: true}); err != nil {
			log.Printf("警告：記錄會議 ID %d 的報告路徑失敗: %v", meeting.ID, err)
		}
		generated++
	}

	log.Printf("報告產出完成。成功: %d, 略過: %d", generated, skipped)
}
