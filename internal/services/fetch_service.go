package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"CBMeeting-admin/internal/clients/youtube"
	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/models"
	"CBMeeting-admin/internal/web/handlers"
)

// meetingKeywords 代表會議影片的標題關鍵字
var meetingKeywords = []string{
	"meeting", "committee", "board", "session", "hearing",
	"full board", "land use", "parks", "transportation",
	"business", "housing", "budget", "public",
}

// nonMeetingKeywords 代表剪輯或花絮等非會議內容
var nonMeetingKeywords = []string{"highlights", "summary", "clip", "excerpt", "interview"}

// FetchService 負責從影片來源頻道發現新的會議影片
type FetchService struct {
	cfg *config.Config
	db  handlers.DBStore
	yt  *youtube.Client
}

// NewFetchService 建立 FetchService 實例
func NewFetchService(cfg *config.Config, db handlers.DBStore, yt *youtube.Client) (*FetchService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("FetchService：設定不得為空")
	}
	if db == nil {
		return nil, fmt.Errorf("FetchService：DBStore 不得為空")
	}
	if yt == nil {
		return nil, fmt.Errorf("FetchService：YouTube 客戶端不得為空")
	}
	log.Println("資訊：FetchService 初始化完成。")
	return &FetchService{cfg: cfg, db: db, yt: yt}, nil
}

// isMeetingVideo 以標題關鍵字判斷影片是否為會議錄影
func isMeetingVideo(title string) bool {
	titleLower := strings.ToLower(title)

	for _, keyword := range nonMeetingKeywords {
		if strings.Contains(titleLower, keyword) {
			return false
		}
	}
	for _, keyword := range meetingKeywords {
		if strings.Contains(titleLower, keyword) {
			return true
		}
	}
	return false
}

// Run 掃描所有設定的頻道，把新發現的會議影片登記為待處理
func (s *FetchService) Run() error {
	if len(s.cfg.YouTubeClient.Channels) == 0 {
		log.Println("警告：[FetchService] 未設定任何頻道，擷取任務結束。")
		return nil
	}

	var newCount, skipCount int
	for _, channelID := range s.cfg.YouTubeClient.Channels {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		videos, err := s.yt.FetchChannelVideos(ctx, channelID, s.cfg.YouTubeClient.MaxResults)
		cancel()
		if err != nil {
			log.Printf("錯誤：[FetchService] 查詢頻道 %s 失敗: %v\n", channelID, err)
			continue
		}

		for _, video := range videos {
			if !isMeetingVideo(video.Title) {
				skipCount++
				continue
			}
			meeting := &models.Meeting{
				SourceName:  "youtube",
				SourceID:    video.VideoID,
				Title:       sql.NullString{String: video.Title, Valid: video.Title != ""},
				ViewLink:    sql.NullString{String: video.URL, Valid: video.URL != ""},
				PublishedAt: sql.NullTime{Time: video.PublishedAt, Valid: !video.PublishedAt.IsZero()},
				FetchedAt:   time.Now(),
			}
			meetingID, err := s.db.FindOrCreateMeeting(meeting)
			if err != nil {
				log.Printf("錯誤：[FetchService] 登記影片 %s 失敗: %v\n", video.VideoID, err)
				continue
			}
			log.Printf("資訊：[FetchService] 會議影片已登記 (MeetingID: %d, Video: %s)\n", meetingID, video.VideoID)
			newCount++
		}
	}

	log.Printf("資訊：[FetchService] 頻道擷取完成。登記: %d, 略過非會議內容: %d\n", newCount, skipCount)
	return nil
}
