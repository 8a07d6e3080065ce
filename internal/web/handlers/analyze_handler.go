package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"CBMeeting-admin/internal/models"
)

// MeetingAnalyzer 定義了分析引擎的介面，供同步 API 處理器使用
type MeetingAnalyzer interface {
	AnalyzeMeeting(ctx context.Context, transcript string, title string) *models.MeetingAnalysis
	QuickVotes(transcript string) []models.VoteRecord
}

// analyzeRequest 是 /api/analyze 與 /api/votes 的請求格式
type analyzeRequest struct {
	Transcript string `json:"transcript"`
	Title      string `json:"title"`
}

// AnalyzeHandler 處理同步的逐字稿分析請求
type AnalyzeHandler struct {
	engine MeetingAnalyzer
}

// NewAnalyzeHandler 建立一個 AnalyzeHandler 實例
func NewAnalyzeHandler(engine MeetingAnalyzer) *AnalyzeHandler {
	if engine == nil {
		log.Panicln("AnalyzeHandler：MeetingAnalyzer 不得為空")
	}
	return &AnalyzeHandler{engine: engine}
}

// ServeHTTP 實現 http.Handler 介面
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[AnalyzeHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("警告：[AnalyzeHandler] 請求 JSON 解析失敗: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, "請求格式錯誤，需要 JSON 物件 {transcript, title}")
		return
	}
	if req.Transcript == "" {
		writeJSONError(w, http.StatusBadRequest, "transcript 欄位不得為空")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
	defer cancel()

	result := h.engine.AnalyzeMeeting(ctx, req.Transcript, req.Title)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("錯誤：[AnalyzeHandler] 回應編碼失敗: %v\n", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
