package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
)

// FetchRunner 定義了影片擷取任務的介面
type FetchRunner interface {
	Run() error
}

// TriggerFetchHandler 處理手動觸發頻道擷取的請求
type TriggerFetchHandler struct {
	fetchService FetchRunner
	mu           sync.Mutex
	isFetching   bool
}

// NewTriggerFetchHandler 建立一個 TriggerFetchHandler 實例
func NewTriggerFetchHandler(fs FetchRunner) *TriggerFetchHandler {
	if fs == nil {
		log.Panicln("TriggerFetchHandler：FetchRunner 不得為空")
	}
	return &TriggerFetchHandler{fetchService: fs}
}

// ServeHTTP 實現 http.Handler 介面
func (h *TriggerFetchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：[TriggerFetchHandler] 收到請求: %s %s 來自 %s\n", r.Method, r.URL.Path, r.RemoteAddr)

	if r.Method != http.MethodPost {
		log.Printf("警告：[TriggerFetchHandler] 收到非 POST 請求 (%s)，已拒絕。\n", r.Method)
		http.Error(w, "僅支援 POST 方法", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	if h.isFetching {
		h.mu.Unlock()
		log.Println("警告：[TriggerFetchHandler] 手動擷取已在進行中，拒絕新的觸發。")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "擷取任務已在進行中，請稍候。"})
		return
	}
	h.isFetching = true
	h.mu.Unlock()

	log.Println("資訊：[TriggerFetchHandler] 收到手動觸發頻道擷取請求，準備啟動 goroutine。")

	go func() {
		defer func() {
			h.mu.Lock()
			h.isFetching = false
			h.mu.Unlock()
			log.Println("資訊：[TriggerFetchHandler] 手動觸發的擷取任務 goroutine 已結束。")
		}()

		if err := h.fetchService.Run(); err != nil {
			log.Printf("錯誤：[TriggerFetchHandler] 手動觸發的擷取任務執行失敗: %v", err)
		} else {
			log.Println("資訊：[TriggerFetchHandler] 手動觸發的擷取任務執行成功。")
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "頻道擷取已觸發，正在背景執行。請稍後查看結果。"})
}
