package models

import (
	"database/sql"
	"time"
)

// AnalysisStatus 定義會議的處理狀態
type AnalysisStatus string

const (
	StatusPending         AnalysisStatus = "pending"          // 已發現影片，等待外部轉錄產出逐字稿
	StatusTranscriptReady AnalysisStatus = "transcript_ready" // 逐字稿已就位，等待分析
	StatusAnalyzing       AnalysisStatus = "analyzing"        // 正在執行投票提取與摘要分析
	StatusCompleted       AnalysisStatus = "completed"        // 分析完成
	StatusAnalysisFailed  AnalysisStatus = "analysis_failed"  // 分析失敗（仍可重試）
)

// TranscriptFileInfo 是掃描封存目錄時找到的一份逐字稿檔案
type TranscriptFileInfo struct {
	TranscriptAbsolutePath string
	RelativePath           string
	SourceName             string
	OriginalID             string
	FileName               string
	ModTime                time.Time
}

// Meeting 對應 meetings 資料表
type Meeting struct {
	ID             int64          `json:"id"`
	SourceName     string         `json:"source_name"`
	SourceID       string         `json:"source_id"`
	Title          sql.NullString `json:"title"`
	ViewLink       sql.NullString `json:"view_link"`
	PublishedAt    sql.NullTime   `json:"published_at"`
	FetchedAt      time.Time      `json:"fetched_at"`
	TranscriptPath sql.NullString `json:"transcript_path"`
	ReportPath     sql.NullString `json:"report_path"`
	AnalysisStatus AnalysisStatus `json:"analysis_status"`
	AnalyzedAt     sql.NullTime   `json:"analyzed_at"`
}

// ChannelVideo 是影片來源頻道查詢回傳的單一項目
type ChannelVideo struct {
	VideoID     string
	Title       string
	PublishedAt time.Time
	URL         string
}
