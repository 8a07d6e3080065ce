package web

import (
	"log"
	"net/http"

	"CBMeeting-admin/internal/services"
	"CBMeeting-admin/internal/web/handlers"
)

// SetupRouter 組裝所有 HTTP 路由。fetchService 可為 nil（未設定影片來源時），
// 此時手動擷取端點不會註冊。
func SetupRouter(db handlers.DBStore, analyzeService *services.AnalyzeService, fetchService *services.FetchService) http.Handler {
	mux := http.NewServeMux()
	templateBasePath := "internal/web/templates"

	// Dashboard Handler
	dashboardHandler, err := handlers.NewDashboardHandler(db, templateBasePath)
	if err != nil {
		log.Fatalf("錯誤：無法建立 Dashboard Handler: %v", err)
	}
	mux.Handle("/dashboard", dashboardHandler)

	// 同步分析 API
	if analyzeService == nil {
		log.Panicln("SetupRouter：AnalyzeService 不得為空")
	}
	mux.Handle("/api/analyze", handlers.NewAnalyzeHandler(analyzeService.Engine()))
	mux.Handle("/api/votes", handlers.NewVotesHandler(analyzeService.Engine()))

	// 手動觸發批次任務的路由
	mux.Handle("/manual-analyze", handlers.NewTriggerAnalysisHandler(analyzeService))
	if fetchService != nil {
		mux.Handle("/manual-fetch", handlers.NewTriggerFetchHandler(fetchService))
	} else {
		log.Println("警告：未提供 FetchService，/manual-fetch 端點不會註冊。")
	}

	// 匯出處理器
	mux.Handle("/export", handlers.NewExportHandler(db))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		log.Printf("警告：未匹配的路由: %s", r.URL.Path)
		http.NotFound(w, r)
	})

	log.Println("資訊：HTTP 路由設定完成。")
	return mux
}
