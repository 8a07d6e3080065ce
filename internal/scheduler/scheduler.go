package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"CBMeeting-admin/internal/services"
)

// Scheduler 管理背景排程任務
type Scheduler struct {
	cron       *cron.Cron
	fetchJob   *FetchJob
	analyzeJob *AnalyzeJob
}

// NewScheduler 註冊擷取與分析任務。fs 可為 nil（未設定影片來源時），
// 此時只排程分析任務。
func NewScheduler(
	fs *services.FetchService,
	as *services.AnalyzeService,
	fetchCronSpec string,
	analyzeCronSpec string,
) *Scheduler {
	c := cron.New(cron.WithSeconds())

	var fetchJob *FetchJob
	if fs != nil && fetchCronSpec != "" {
		fetchJob = NewFetchJob(fs)
		if _, err := c.AddJob(fetchCronSpec, fetchJob); err != nil {
			log.Fatalf("錯誤：無法新增頻道擷取任務到排程器 (spec: %s): %v", fetchCronSpec, err)
		}
		log.Printf("資訊：頻道擷取任務已註冊，排程：%s\n", fetchCronSpec)
	} else {
		log.Println("警告：頻道擷取任務未排程（缺少服務或 Cron 表達式）。")
	}

	analyzeJob := NewAnalyzeJob(as)
	if analyzeCronSpec != "" {
		if _, err := c.AddJob(analyzeCronSpec, analyzeJob); err != nil {
			log.Fatalf("錯誤：無法新增會議分析任務到排程器 (spec: %s): %v", analyzeCronSpec, err)
		}
		log.Printf("資訊：會議分析任務已註冊，排程：%s\n", analyzeCronSpec)
	} else {
		log.Println("警告：未提供會議分析任務的 Cron 表達式，該任務將不會被排程。")
	}

	return &Scheduler{
		cron:       c,
		fetchJob:   fetchJob,
		analyzeJob: analyzeJob,
	}
}

// Start 非阻塞啟動排程器
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("資訊：排程器已非阻塞啟動 (如果任務已註冊)。")
}

// Stop 優雅停止排程器，等待運行中任務完成
func (s *Scheduler) Stop() {
	log.Println("資訊：正在停止排程器...")
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
		log.Println("資訊：排程器已優雅停止，所有運行中任務已完成。")
	case <-time.After(10 * time.Second):
		log.Println("警告：排程器停止超時，可能仍有任務在執行。")
	}
}
