package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"CBMeeting-admin/internal/models"
)

// DBStore 定義了應用程式需要的資料庫操作介面
type DBStore interface {
	GetAllMeetingsWithAnalysis(limit int, offset int, searchTerm string, statusFilter string) ([]models.Meeting, []models.AnalysisRecord, error)
	Close() error
	FindOrCreateMeeting(meeting *models.Meeting) (int64, error)
	SaveAnalysisRecord(record *models.AnalysisRecord) error
	UpdateMeetingStatus(meetingID int64, status models.AnalysisStatus, analyzedAt sql.NullTime) error
	UpdateMeetingPaths(meetingID int64, transcriptPath sql.NullString, reportPath sql.NullString) error
	GetMeetingsByStatus(status models.AnalysisStatus, limit int) ([]models.Meeting, error)
	GetMeetingByID(meetingID int64) (*models.Meeting, error)
}

// DashboardPageData 用於傳遞給 HTML 範本的數據
type DashboardPageData struct {
	Meetings   []MeetingDisplayData
	SearchTerm string
	Status     string
}

// MeetingDisplayData 用於在範本中顯示的會議數據
type MeetingDisplayData struct {
	MeetingID      int64
	SourceName     string
	SourceID       string
	Title          string
	ViewLink       sql.NullString
	PublishedAt    sql.NullTime
	AnalysisStatus models.AnalysisStatus
	TranscriptPath sql.NullString
	ReportPath     sql.NullString
	Analysis       *DisplayableAnalysis
}

// DisplayableAnalysis 用於在範本中顯示的分析結果
type DisplayableAnalysis struct {
	Summary         string
	Sentiment       string
	VotesFound      int
	AnalyzerVersion string
	KeyDecisions    []models.Decision
	PublicConcerns  []string
	NextSteps       []string
	MainTopics      []string
	ErrorMessage    string
}

// DashboardHandler 負責處理儀表板頁面的請求
type DashboardHandler struct {
	db       DBStore
	tpl      *template.Template
	basePath string
}

// NewDashboardHandler 建立一個 DashboardHandler 實例
func NewDashboardHandler(db DBStore, templateBasePath string) (*DashboardHandler, error) {
	if db == nil {
		return nil, fmt.Errorf("DBStore 不得為 nil")
	}
	tplPath := filepath.Join(templateBasePath, "dashboard.html")
	tpl, err := template.ParseFiles(tplPath)
	if err != nil {
		return nil, fmt.Errorf("無法解析儀表板範本 '%s': %w", tplPath, err)
	}
	return &DashboardHandler{db: db, tpl: tpl, basePath: templateBasePath}, nil
}

// ServeHTTP 實現 http.Handler 介面
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("資訊：收到 %s %s 請求\n", r.Method, r.URL.Path)

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o > 0 {
		offset = o
	}
	searchTerm := r.URL.Query().Get("search")
	statusFilter := r.URL.Query().Get("status")

	meetings, analysisRecords, err := h.db.GetAllMeetingsWithAnalysis(limit, offset, searchTerm, statusFilter)
	if err != nil {
		log.Printf("錯誤：從資料庫獲取會議數據失敗: %v", err)
		http.Error(w, "無法載入儀表板數據", http.StatusInternalServerError)
		return
	}

	recordMap := make(map[int64]models.AnalysisRecord)
	for _, record := range analysisRecords {
		recordMap[record.MeetingID] = record
	}

	var displayData []MeetingDisplayData
	for _, m := range meetings {
		displayItem := MeetingDisplayData{
			MeetingID:      m.ID,
			SourceName:     m.SourceName,
			SourceID:       m.SourceID,
			Title:          m.Title.String,
			ViewLink:       m.ViewLink,
			PublishedAt:    m.PublishedAt,
			AnalysisStatus: m.AnalysisStatus,
			TranscriptPath: m.TranscriptPath,
			ReportPath:     m.ReportPath,
		}

		if record, ok := recordMap[m.ID]; ok {
			displayable := &DisplayableAnalysis{
				VotesFound:      record.VotesFound,
				AnalyzerVersion: record.AnalyzerVersion,
			}
			if record.Summary != nil && record.Summary.Valid {
				displayable.Summary = record.Summary.String
			}
			if record.Sentiment != nil && record.Sentiment.Valid {
				displayable.Sentiment = record.Sentiment.String
			}
			if record.ErrorMessage != nil && record.ErrorMessage.Valid {
				displayable.ErrorMessage = record.ErrorMessage.String
			}
			if len(record.AnalysisJSON) > 0 && string(record.AnalysisJSON) != "null" {
				var analysis models.MeetingAnalysis
				if errJ := json.Unmarshal(record.AnalysisJSON, &analysis); errJ == nil {
					displayable.KeyDecisions = analysis.KeyDecisions
					displayable.PublicConcerns = analysis.PublicConcerns
					displayable.NextSteps = analysis.NextSteps
					displayable.MainTopics = analysis.MainTopics
				} else {
					log.Printf("警告：無法將 AnalysisJSON 解析為 MeetingAnalysis (MeetingID: %d): %v", m.ID, errJ)
				}
			}
			displayItem.Analysis = displayable
		}
		displayData = append(displayData, displayItem)
	}

	pageData := DashboardPageData{Meetings: displayData, SearchTerm: searchTerm, Status: statusFilter}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tpl.Execute(w, pageData); err != nil {
		log.Printf("錯誤：執行儀表板範本失敗: %v", err)
	}
}
