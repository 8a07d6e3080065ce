package mysql

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/models"
)

// MySQLStore 結構
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore 建立資料庫連線並設定連線池
func NewMySQLStore(dbCfg config.DatabaseConfig) (*MySQLStore, error) {
	if dbCfg.Driver != "mysql" {
		return nil, fmt.Errorf("不支援的資料庫驅動程式: %s", dbCfg.Driver)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", dbCfg.User, dbCfg.Password, dbCfg.Host, dbCfg.Port, dbCfg.DBName)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("開啟資料庫連線失敗: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("無法連線到資料庫 (ping 失敗): %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	log.Println("資訊：成功連線到 MySQL 資料庫。")
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Close() error {
	if s.db != nil {
		log.Println("資訊：正在關閉 MySQL 資料庫連線...")
		return s.db.Close()
	}
	return nil
}

func copyBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}

// FindOrCreateMeeting 依 source_name + source_id 查找會議，不存在則新增，
// 已存在則更新元數據。回傳會議的資料庫 ID。
func (s *MySQLStore) FindOrCreateMeeting(meeting *models.Meeting) (int64, error) {
	if meeting == nil {
		return 0, fmt.Errorf("傳入的 meeting 物件不得為 nil")
	}
	if meeting.SourceName == "" || meeting.SourceID == "" {
		return 0, fmt.Errorf("meeting 物件的 SourceName 與 SourceID 必須提供")
	}

	var meetingID int64
	query := "SELECT id FROM meetings WHERE source_name = ? AND source_id = ?"
	queryErr := s.db.QueryRow(query, meeting.SourceName, meeting.SourceID).Scan(&meetingID)

	if queryErr == sql.ErrNoRows {
		log.Printf("資訊：資料庫中未找到會議 (Source: %s, ID: %s)，正在新增記錄...\n", meeting.SourceName, meeting.SourceID)
		insertQuery := `INSERT INTO meetings (source_name, source_id, title, view_link, published_at, fetched_at, transcript_path, report_path, analysis_status, analyzed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
		fetchedTime := meeting.FetchedAt
		if fetchedTime.IsZero() {
			fetchedTime = time.Now()
		}
		status := meeting.AnalysisStatus
		if status == "" {
			status = models.StatusPending
		}
		res, insertErr := s.db.Exec(insertQuery, meeting.SourceName, meeting.SourceID, meeting.Title, meeting.ViewLink, meeting.PublishedAt, fetchedTime, meeting.TranscriptPath, meeting.ReportPath, status, meeting.AnalyzedAt)
		if insertErr != nil {
			return 0, fmt.Errorf("插入新會議記錄失敗 (Source: %s, ID: %s): %w", meeting.SourceName, meeting.SourceID, insertErr)
		}
		meetingID, insertErr = res.LastInsertId()
		if insertErr != nil {
			return 0, fmt.Errorf("獲取新插入會議的 ID 失敗 (Source: %s, ID: %s): %w", meeting.SourceName, meeting.SourceID, insertErr)
		}
		log.Printf("資訊：新增會議記錄成功，ID: %d (Source: %s, ID: %s)\n", meetingID, meeting.SourceName, meeting.SourceID)
		return meetingID, nil
	} else if queryErr != nil {
		return 0, fmt.Errorf("查找會議失敗 (Source: %s, ID: %s): %w", meeting.SourceName, meeting.SourceID, queryErr)
	}

	log.Printf("資訊：資料庫中已存在會議記錄 ID: %d (Source: %s, ID: %s)。正在更新元數據...\n", meetingID, meeting.SourceName, meeting.SourceID)
	// NULL 或空字串的欄位保留既有值，避免重複掃描時把已完成的狀態洗掉
	updateQuery := `UPDATE meetings SET
		title = IFNULL(?, title),
		view_link = IFNULL(?, view_link),
		published_at = IFNULL(?, published_at),
		transcript_path = IFNULL(?, transcript_path),
		report_path = IFNULL(?, report_path),
		analysis_status = IF(? = '', analysis_status, ?),
		analyzed_at = IFNULL(?, analyzed_at)
		WHERE id = ?;`
	statusStr := string(meeting.AnalysisStatus)
	_, updateErr := s.db.Exec(updateQuery, meeting.Title, meeting.ViewLink, meeting.PublishedAt, meeting.TranscriptPath, meeting.ReportPath, statusStr, statusStr, meeting.AnalyzedAt, meetingID)
	if updateErr != nil {
		return 0, fmt.Errorf("更新會議 ID %d 的元數據失敗: %w", meetingID, updateErr)
	}
	log.Printf("資訊：會議 ID %d 的元數據更新成功。\n", meetingID)
	return meetingID, nil
}

// SaveAnalysisRecord 寫入或覆蓋一筆分析結果
func (s *MySQLStore) SaveAnalysisRecord(record *models.AnalysisRecord) error {
	if record == nil || record.MeetingID == 0 {
		return fmt.Errorf("無效的分析結果或 MeetingID 為空")
	}

	query := `
		INSERT INTO meeting_analyses (
			meeting_id, analysis_json, summary, sentiment, votes_found,
			analyzer_version, error_message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			analysis_json = VALUES(analysis_json), summary = VALUES(summary),
			sentiment = VALUES(sentiment), votes_found = VALUES(votes_found),
			analyzer_version = VALUES(analyzer_version), error_message = VALUES(error_message),
			updated_at = VALUES(updated_at);`

	toSQLNullString := func(jns *models.JsonNullString) sql.NullString {
		if jns != nil {
			return jns.NullString
		}
		return sql.NullString{Valid: false}
	}

	var analyzerVersion sql.NullString
	if record.AnalyzerVersion != "" {
		analyzerVersion = sql.NullString{String: record.AnalyzerVersion, Valid: true}
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := s.db.Exec(query,
		record.MeetingID,
		[]byte(record.AnalysisJSON),
		toSQLNullString(record.Summary),
		toSQLNullString(record.Sentiment),
		record.VotesFound,
		analyzerVersion,
		toSQLNullString(record.ErrorMessage),
		createdAt,
		updatedAt,
	)
	if err != nil {
		return fmt.Errorf("儲存分析結果到資料庫失敗 (MeetingID: %d): %w", record.MeetingID, err)
	}
	log.Printf("資訊：分析結果成功儲存到資料庫 (MeetingID: %d, AnalyzerVersion: %s)\n", record.MeetingID, record.AnalyzerVersion)
	return nil
}

// UpdateMeetingStatus 更新會議的分析狀態
func (s *MySQLStore) UpdateMeetingStatus(meetingID int64, status models.AnalysisStatus, analyzedAt sql.NullTime) error {
	if meetingID == 0 {
		return fmt.Errorf("無效的 MeetingID")
	}
	query := "UPDATE meetings SET analysis_status = ?, analyzed_at = ? WHERE id = ?"
	_, err := s.db.Exec(query, status, analyzedAt, meetingID)
	if err != nil {
		return fmt.Errorf("更新會議分析狀態失敗 (MeetingID: %d, Status: %s): %w", meetingID, status, err)
	}
	log.Printf("資訊：會議分析狀態成功更新 (MeetingID: %d, Status: %s)\n", meetingID, status)
	return nil
}

// UpdateMeetingPaths 記錄逐字稿與報告在封存目錄中的位置
func (s *MySQLStore) UpdateMeetingPaths(meetingID int64, transcriptPath sql.NullString, reportPath sql.NullString) error {
	if meetingID == 0 {
		return fmt.Errorf("無效的 MeetingID")
	}
	query := "UPDATE meetings SET transcript_path = ?, report_path = ? WHERE id = ?"
	_, err := s.db.Exec(query, transcriptPath, reportPath, meetingID)
	if err != nil {
		return fmt.Errorf("更新會議檔案路徑失敗 (MeetingID: %d): %w", meetingID, err)
	}
	return nil
}

func scanMeetingRow(rows *sql.Rows) (*models.Meeting, error) {
	var m models.Meeting
	err := rows.Scan(&m.ID, &m.SourceName, &m.SourceID, &m.Title, &m.ViewLink, &m.PublishedAt, &m.FetchedAt, &m.TranscriptPath, &m.ReportPath, &m.AnalysisStatus, &m.AnalyzedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMeetingsByStatus 查詢指定狀態的會議，依擷取時間由舊到新排序
func (s *MySQLStore) GetMeetingsByStatus(status models.AnalysisStatus, limit int) ([]models.Meeting, error) {
	query := `SELECT id, source_name, source_id, title, view_link, published_at, fetched_at, transcript_path, report_path, analysis_status, analyzed_at FROM meetings WHERE analysis_status = ? ORDER BY fetched_at ASC LIMIT ?;`
	rows, err := s.db.Query(query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("查詢狀態為 '%s' 的會議失敗: %w", status, err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		m, err := scanMeetingRow(rows)
		if err != nil {
			log.Printf("錯誤：掃描狀態為 '%s' 的會議查詢結果行失敗: %v", status, err)
			continue
		}
		meetings = append(meetings, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("處理狀態為 '%s' 的會議查詢結果集時發生錯誤: %w", status, err)
	}
	log.Printf("資訊：查詢到 %d 個狀態為 '%s' 的會議。\n", len(meetings), status)
	return meetings, nil
}

// GetMeetingByID 查詢單一會議，不存在時回傳 (nil, nil)
func (s *MySQLStore) GetMeetingByID(meetingID int64) (*models.Meeting, error) {
	if meetingID == 0 {
		return nil, fmt.Errorf("無效的 MeetingID")
	}
	query := `SELECT id, source_name, source_id, title, view_link, published_at, fetched_at, transcript_path, report_path, analysis_status, analyzed_at FROM meetings WHERE id = ?;`
	row := s.db.QueryRow(query, meetingID)
	var m models.Meeting
	err := row.Scan(&m.ID, &m.SourceName, &m.SourceID, &m.Title, &m.ViewLink, &m.PublishedAt, &m.FetchedAt, &m.TranscriptPath, &m.ReportPath, &m.AnalysisStatus, &m.AnalyzedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("查詢 MeetingID %d 失敗: %w", meetingID, err)
	}
	return &m, nil
}

// GetAllMeetingsWithAnalysis 供儀表板查詢會議與其分析結果。
// searchTerm 會模糊比對標題、來源 ID 與摘要；statusFilter 為合法狀態時加上過濾。
func (s *MySQLStore) GetAllMeetingsWithAnalysis(limit int, offset int, searchTerm string, statusFilter string) ([]models.Meeting, []models.AnalysisRecord, error) {
	log.Printf("資訊：MySQLStore.GetAllMeetingsWithAnalysis 被呼叫 (limit: %d, offset: %d, search: '%s', status: '%s')\n", limit, offset, searchTerm, statusFilter)
	var args []interface{}
	baseQuery := `
		SELECT
			m.id, m.source_name, m.source_id, m.title, m.view_link,
			m.published_at, m.fetched_at, m.transcript_path, m.report_path,
			m.analysis_status, m.analyzed_at,
			ma.meeting_id, ma.analysis_json, ma.summary, ma.sentiment,
			ma.votes_found, ma.analyzer_version, ma.error_message,
			ma.created_at, ma.updated_at
		FROM meetings m
		LEFT JOIN meeting_analyses ma ON m.id = ma.meeting_id
	`
	whereClauses := []string{}
	if searchTerm != "" {
		likeTerm := "%" + strings.ReplaceAll(strings.ReplaceAll(searchTerm, "%", "\\%"), "_", "\\_") + "%"
		searchFieldsClause := `(
			m.source_id LIKE ? OR IFNULL(m.title, '') LIKE ? OR
			IFNULL(ma.summary, '') LIKE ? OR m.id LIKE ?
		)`
		whereClauses = append(whereClauses, searchFieldsClause)
		for i := 0; i < 4; i++ {
			args = append(args, likeTerm)
		}
	}
	validStatuses := map[string]bool{
		string(models.StatusPending):         true,
		string(models.StatusTranscriptReady): true,
		string(models.StatusAnalyzing):       true,
		string(models.StatusCompleted):       true,
		string(models.StatusAnalysisFailed):  true,
	}
	if validStatuses[statusFilter] {
		whereClauses = append(whereClauses, "m.analysis_status = ?")
		args = append(args, statusFilter)
	}
	if len(whereClauses) > 0 {
		baseQuery += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	baseQuery += " ORDER BY m.fetched_at DESC, m.id DESC"
	baseQuery += " LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(baseQuery, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("查詢會議和分析結果失敗: %w", err)
	}
	defer rows.Close()

	meetingsMap := make(map[int64]models.Meeting)
	analysisMap := make(map[int64]models.AnalysisRecord)
	var order []int64

	for rows.Next() {
		var m models.Meeting
		var record models.AnalysisRecord
		var maMeetingID sql.NullInt64
		var analysisJSONSQL sql.RawBytes
		var summarySQL, sentimentSQL, analyzerVersionSQL, errorMessageSQL sql.NullString
		var votesFoundSQL sql.NullInt64
		var createdAt, updatedAt sql.NullTime

		scanTargets := []interface{}{
			&m.ID, &m.SourceName, &m.SourceID, &m.Title, &m.ViewLink,
			&m.PublishedAt, &m.FetchedAt, &m.TranscriptPath, &m.ReportPath,
			&m.AnalysisStatus, &m.AnalyzedAt,
			&maMeetingID, &analysisJSONSQL, &summarySQL, &sentimentSQL,
			&votesFoundSQL, &analyzerVersionSQL, &errorMessageSQL,
			&createdAt, &updatedAt,
		}
		if err := rows.Scan(scanTargets...); err != nil {
			log.Printf("錯誤：[GetAllMeetings] 掃描查詢結果行失敗: %v", err)
			continue
		}

		if _, ok := meetingsMap[m.ID]; !ok {
			meetingsMap[m.ID] = m
			order = append(order, m.ID)
		}

		if maMeetingID.Valid {
			record.MeetingID = maMeetingID.Int64
			if analysisJSONSQL != nil {
				record.AnalysisJSON = copyBytes(analysisJSONSQL)
			}
			if summarySQL.Valid {
				record.Summary = &models.JsonNullString{NullString: summarySQL}
			}
			if sentimentSQL.Valid {
				record.Sentiment = &models.JsonNullString{NullString: sentimentSQL}
			}
			if votesFoundSQL.Valid {
				record.VotesFound = int(votesFoundSQL.Int64)
			}
			if analyzerVersionSQL.Valid {
				record.AnalyzerVersion = analyzerVersionSQL.String
			}
			if errorMessageSQL.Valid {
				record.ErrorMessage = &models.JsonNullString{NullString: errorMessageSQL}
			}
			if createdAt.Valid {
				record.CreatedAt = createdAt.Time
			}
			if updatedAt.Valid {
				record.UpdatedAt = updatedAt.Time
			}
			analysisMap[record.MeetingID] = record
		}
	}
	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("處理查詢結果集時發生錯誤: %w", err)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return meetingsMap[order[i]].FetchedAt.After(meetingsMap[order[j]].FetchedAt)
	})

	var finalMeetings []models.Meeting
	var finalRecords []models.AnalysisRecord
	for _, id := range order {
		finalMeetings = append(finalMeetings, meetingsMap[id])
		if record, ok := analysisMap[id]; ok {
			finalRecords = append(finalRecords, record)
		}
	}
	log.Printf("資訊：查詢到 %d 個會議，%d 個有效分析結果。\n", len(finalMeetings), len(finalRecords))
	return finalMeetings, finalRecords, nil
}
