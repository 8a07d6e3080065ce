package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"CBMeeting-admin/internal/models"
)

// votesResponse 是 /api/votes 的回應格式
type votesResponse struct {
	Votes []models.VoteRecord `json:"votes"`
	Count int                 `json:"count"`
}

// VotesHandler 處理輕量的投票提取請求，只跑規則式路徑，不呼叫外部摘要器
type VotesHandler struct {
	engine MeetingAnalyzer
}

// NewVotesHandler 建立一個 VotesHandler 實例
func NewVotesHandler(engine MeetingAnalyzer) *VotesHandler {
	if engine == nil {
		log.Panicln("VotesHandler：MeetingAnalyzer 不得為空")
	}
	return &VotesHandler{engine: engine}
}

// ServeHTTP 實現 http.Handler 介面
func (h *VotesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[VotesHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("警告：[VotesHandler] 請求 JSON 解析失敗: %v\n", err)
		writeJSONError(w, http.StatusBadRequest, "請求格式錯誤，需要 JSON 物件 {transcript}")
		return
	}
	if req.Transcript == "" {
		writeJSONError(w, http.StatusBadRequest, "transcript 欄位不得為空")
		return
	}

	votes := h.engine.QuickVotes(req.Transcript)
	if votes == nil {
		votes = []models.VoteRecord{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(votesResponse{Votes: votes, Count: len(votes)}); err != nil {
		log.Printf("錯誤：[VotesHandler] 回應編碼失敗: %v\n", err)
	}
}
