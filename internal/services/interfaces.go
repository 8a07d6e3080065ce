package services

import "CBMeeting-admin/internal/models"

// ArchiveStorage 介面定義了封存目錄的儲存操作
type ArchiveStorage interface {
	ListTranscripts() ([]models.TranscriptFileInfo, error)
	ReadTranscript(relativePath string) (string, error)
	SaveReport(sourceName string, sourceID string, fileName string, content []byte) (string, error)
}
