package youtube

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"CBMeeting-admin/internal/models"
)

// Client 結構用於查詢社區委員會頻道的最新影片
type Client struct {
	service *youtube.Service
}

// NewClient 建立一個 YouTube Data API 客戶端實例
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API Key 不得為空")
	}

	ctx := context.Background()
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("無法建立 YouTube 服務客戶端: %w", err)
	}
	log.Println("資訊：[YouTube Client] 初始化成功。")
	return &Client{service: service}, nil
}

// FetchChannelVideos 取得指定頻道最近發佈的影片，依發佈時間由新到舊排序
func (c *Client) FetchChannelVideos(ctx context.Context, channelID string, maxResults int64) ([]models.ChannelVideo, error) {
	if channelID == "" {
		return nil, fmt.Errorf("頻道 ID 不得為空")
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	call := c.service.Search.List([]string{"id", "snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(maxResults).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("查詢頻道 %s 的影片失敗: %w", channelID, err)
	}

	videos := make([]models.ChannelVideo, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			log.Printf("警告：[YouTube Client] 影片 %s 的發佈時間格式無法解析: %v\n", item.Id.VideoId, err)
			publishedAt = time.Now().UTC()
		}
		videos = append(videos, models.ChannelVideo{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			PublishedAt: publishedAt,
			URL:         "https://www.youtube.com/watch?v=" + item.Id.VideoId,
		})
	}

	log.Printf("資訊：[YouTube Client] 頻道 %s 取得 %d 部影片。\n", channelID, len(videos))
	return videos, nil
}
