package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"CBMeeting-admin/internal/models"
)

// ExportHandler 負責處理會議分析結果的 CSV 匯出請求
type ExportHandler struct {
	db DBStore
}

// NewExportHandler 建立一個 ExportHandler 實例
func NewExportHandler(db DBStore) *ExportHandler {
	if db == nil {
		log.Panicln("ExportHandler：DBStore 不得為空")
	}
	return &ExportHandler{db: db}
}

// ServeHTTP 實現 http.Handler 介面
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[ExportHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodGet {
		log.Printf("警告：[ExportHandler] 收到非 GET 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 GET 方法", http.StatusMethodNotAllowed)
		return
	}

	searchTerm := r.URL.Query().Get("search")
	statusFilter := r.URL.Query().Get("status")

	meetings, analysisRecords, err := h.db.GetAllMeetingsWithAnalysis(1000, 0, searchTerm, statusFilter)
	if err != nil {
		log.Printf("錯誤：[ExportHandler] 從資料庫獲取會議數據失敗: %v", err)
		http.Error(w, "無法獲取匯出數據", http.StatusInternalServerError)
		return
	}
	log.Printf("資訊：[ExportHandler] 獲取到 %d 個會議和 %d 個分析結果", len(meetings), len(analysisRecords))

	recordMap := make(map[int64]models.AnalysisRecord)
	for _, record := range analysisRecords {
		recordMap[record.MeetingID] = record
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=會議分析資料_%s.csv", time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers := []string{
		"會議編號",
		"來源",
		"標題",
		"發布時間",
		"分析狀態",
		"摘要",
		"決議數",
		"投票數",
		"決議明細",
		"社區關注事項",
		"後續行動",
		"情緒",
		"分析器版本",
	}
	if err := writer.Write(headers); err != nil {
		log.Printf("錯誤：[ExportHandler] 寫入 CSV 標題失敗: %v", err)
		return
	}

	for _, m := range meetings {
		record, hasAnalysis := recordMap[m.ID]

		row := make([]string, len(headers))
		row[0] = fmt.Sprintf("%d", m.ID)
		row[1] = fmt.Sprintf("%s/%s", m.SourceName, m.SourceID)
		row[2] = m.Title.String
		if m.PublishedAt.Valid {
			row[3] = m.PublishedAt.Time.Format("2006-01-02 15:04:05")
		}
		row[4] = string(m.AnalysisStatus)

		if hasAnalysis {
			if record.Summary != nil && record.Summary.Valid {
				row[5] = record.Summary.String
			}
			row[7] = fmt.Sprintf("%d", record.VotesFound)
			if record.Sentiment != nil && record.Sentiment.Valid {
				row[11] = record.Sentiment.String
			}
			row[12] = record.AnalyzerVersion

			if len(record.AnalysisJSON) > 0 && string(record.AnalysisJSON) != "null" {
				var analysis models.MeetingAnalysis
				if errJ := json.Unmarshal(record.AnalysisJSON, &analysis); errJ == nil {
					row[6] = fmt.Sprintf("%d", len(analysis.KeyDecisions))
					var decisions []string
					for _, d := range analysis.KeyDecisions {
						decisions = append(decisions, fmt.Sprintf("%s: %s (%s)", d.Item, d.Outcome, d.Vote))
					}
					row[8] = strings.Join(decisions, "; ")
					row[9] = strings.Join(analysis.PublicConcerns, "; ")
					row[10] = strings.Join(analysis.NextSteps, "; ")
				} else {
					log.Printf("警告：[ExportHandler] 無法解析會議 ID %d 的 AnalysisJSON: %v", m.ID, errJ)
				}
			}
		}

		if err := writer.Write(row); err != nil {
			log.Printf("錯誤：[ExportHandler] 寫入 CSV 資料列失敗: %v", err)
			return
		}
	}
}
