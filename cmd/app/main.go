package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"CBMeeting-admin/internal/clients/gemini"
	"CBMeeting-admin/internal/clients/youtube"
	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/scheduler"
	"CBMeeting-admin/internal/services"
	"CBMeeting-admin/internal/storage/archive"
	"CBMeeting-admin/internal/storage/mysql"
	"CBMeeting-admin/internal/web"
	"CBMeeting-admin/internal/web/handlers"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load("./configs", "config")
	if err != nil {
		log.Fatalf("錯誤：無法載入設定: %v", err)
	}
	log.Println("資訊：應用程式設定載入成功。")

	// 資料庫遷移
	migrationPath := "file://scripts/migrate/mysql"
	dbDSNForMigrate := fmt.Sprintf("mysql://%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	log.Printf("資訊：準備執行資料庫遷移，來源: %s, DSN 使用資料庫: %s", migrationPath, cfg.Database.DBName)
	m, err := migrate.New(migrationPath, dbDSNForMigrate)
	if err != nil {
		log.Fatalf("錯誤：建立遷移實例失敗: %v", err)
	}
	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		log.Fatalf("錯誤：獲取資料庫遷移版本失敗: %v", err)
	}
	if dirty {
		log.Fatalf("錯誤：資料庫處於 dirty 狀態 (版本 %d)，遷移失敗。", currentVersion)
	}
	log.Printf("資訊：目前資料庫版本: %d。開始應用遷移...", currentVersion)
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("錯誤：執行資料庫遷移 (m.Up) 失敗: %v", err)
	} else if err == migrate.ErrNoChange {
		log.Println("資訊：資料庫結構已是最新，無需遷移。")
	} else {
		newVersion, _, _ := m.Version()
		log.Printf("資訊：資料庫遷移成功完成，版本更新至: %d。", newVersion)
	}

	archiveStorage, err := archive.NewFileSystemStorage(cfg.Archive)
	if err != nil {
		log.Fatalf("錯誤：初始化封存儲存失敗: %v", err)
	}

	var dbStore handlers.DBStore
	realDBStore, err := mysql.NewMySQLStore(cfg.Database)
	if err != nil {
		log.Fatalf("錯誤：初始化 MySQL 資料庫連線失敗: %v", err)
	}
	dbStore = realDBStore
	defer realDBStore.Close()

	// Gemini 客戶端為選配：沒有 API Key 時引擎只產出規則式結果
	var geminiClient *gemini.Client
	if cfg.GeminiClient.APIKey != "" {
		geminiClient, err = gemini.NewClient(cfg.GeminiClient.APIKey, cfg.GeminiClient.Model)
		if err != nil {
			log.Fatalf("錯誤：初始化 Gemini 客戶端失敗: %v", err)
		}
	} else {
		log.Println("警告：未設定 Gemini API Key，將以純規則式模式運行。")
	}

	// YouTube 客戶端同樣為選配
	var fetchSvc *services.FetchService
	if cfg.YouTubeClient.APIKey != "" {
		ytClient, err := youtube.NewClient(cfg.YouTubeClient.APIKey)
		if err != nil {
			log.Fatalf("錯誤：初始化 YouTube 客戶端失敗: %v", err)
		}
		fetchSvc, err = services.NewFetchService(cfg, dbStore, ytClient)
		if err != nil {
			log.Fatalf("錯誤：初始化頻道擷取服務失敗: %v", err)
		}
	} else {
		log.Println("警告：未設定 YouTube API Key，頻道擷取功能停用。")
	}

	analyzeSvc, err := services.NewAnalyzeService(cfg, dbStore, archiveStorage, geminiClient)
	if err != nil {
		log.Fatalf("錯誤：初始化會議分析服務失敗: %v", err)
	}

	if cfg.Scheduler.Enabled {
		log.Println("資訊：排程器已在設定檔中啟用，正在初始化...")
		appScheduler := scheduler.NewScheduler(
			fetchSvc,
			analyzeSvc,
			cfg.Scheduler.FetchCronSpec,
			cfg.Scheduler.AnalyzeCronSpec,
		)
		appScheduler.Start()
		log.Println("資訊：排程器已啟動。")
		defer appScheduler.Stop()
	} else {
		log.Println("資訊：排程器已在設定檔中禁用。")
	}

	router := web.SetupRouter(dbStore, analyzeSvc, fetchSvc)
	serverAddr := ":8080"
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		log.Printf("資訊：HTTP 伺服器正在監聽 %s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("錯誤：HTTP 伺服器監聽失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("資訊：收到關閉訊號，正在關閉應用程式...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("錯誤：HTTP 伺服器優雅關閉失敗: %v", err)
	}
	log.Println("資訊：HTTP 伺服器已關閉。")
	log.Println("資訊：應用程式已成功關閉。")
}
