package archive

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"CBMeeting-admin/internal/config"
	"CBMeeting-admin/internal/models"
)

// FileSystemStorage 結構負責與本地封存目錄互動：
// 逐字稿由外部轉錄流程放入 transcriptPath，分析報告寫入 reportPath。
type FileSystemStorage struct {
	transcriptPath string
	reportPath     string
}

// NewFileSystemStorage 建立一個 FileSystemStorage 實例。
// 它會檢查兩個根目錄是否存在，如果不存在則嘗試建立。
func NewFileSystemStorage(archiveCfg config.ArchiveConfig) (*FileSystemStorage, error) {
	if archiveCfg.TranscriptPath == "" {
		return nil, fmt.Errorf("封存設定中的 transcriptPath 不得為空")
	}
	if archiveCfg.ReportPath == "" {
		return nil, fmt.Errorf("封存設定中的 reportPath 不得為空")
	}

	absTranscriptPath, err := filepath.Abs(archiveCfg.TranscriptPath)
	if err != nil {
		return nil, fmt.Errorf("無法取得 transcriptPath 的絕對路徑 '%s': %w", archiveCfg.TranscriptPath, err)
	}
	absReportPath, err := filepath.Abs(archiveCfg.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("無法取得 reportPath 的絕對路徑 '%s': %w", archiveCfg.ReportPath, err)
	}

	for _, dir := range []string{absTranscriptPath, absReportPath} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			log.Printf("資訊：封存目錄 '%s' 不存在，正在嘗試建立...", dir)
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("無法建立封存目錄 '%s': %w", dir, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("檢查封存目錄 '%s' 時發生錯誤: %w", dir, err)
		}
	}

	log.Printf("資訊：FileSystemStorage 初始化成功，逐字稿路徑: %s，報告路徑: %s", absTranscriptPath, absReportPath)
	return &FileSystemStorage{transcriptPath: absTranscriptPath, reportPath: absReportPath}, nil
}

// ListTranscripts 掃描逐字稿目錄，回傳所有 .txt 檔案。
// 約定的目錄結構為 transcriptPath/<sourceName>/<sourceID>.txt，
// 直接放在根目錄下的檔案其來源名稱視為 "local"。
func (a *FileSystemStorage) ListTranscripts() ([]models.TranscriptFileInfo, error) {
	var files []models.TranscriptFileInfo

	err := filepath.WalkDir(a.transcriptPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".txt") {
			return nil
		}
		relativePath, err := filepath.Rel(a.transcriptPath, path)
		if err != nil {
			log.Printf("警告：[Archive] 無法取得 '%s' 的相對路徑: %v", path, err)
			return nil
		}
		sourceName := "local"
		if dir := filepath.Dir(relativePath); dir != "." {
			parts := strings.Split(dir, string(filepath.Separator))
			sourceName = parts[0]
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, models.TranscriptFileInfo{
			TranscriptAbsolutePath: path,
			RelativePath:           relativePath,
			SourceName:             sourceName,
			OriginalID:             strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			FileName:               d.Name(),
			ModTime:                info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("掃描逐字稿目錄 '%s' 失敗: %w", a.transcriptPath, err)
	}

	log.Printf("資訊：[Archive] 掃描到 %d 份逐字稿。", len(files))
	return files, nil
}

// ReadTranscript 依相對路徑讀取逐字稿內容
func (a *FileSystemStorage) ReadTranscript(relativePath string) (string, error) {
	if relativePath == "" {
		return "", fmt.Errorf("ReadTranscript 參數 relativePath 不得為空")
	}
	absPath := filepath.Join(a.transcriptPath, relativePath)
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("逐字稿檔案在路徑 '%s' 上不存在: %w", absPath, err)
	} else if err != nil {
		return "", fmt.Errorf("檢查逐字稿檔案 '%s' 時發生錯誤: %w", absPath, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("無法讀取逐字稿檔案 '%s': %w", absPath, err)
	}
	return string(data), nil
}

// SaveReport 將 Markdown 報告寫入報告目錄，回傳相對於報告根目錄的路徑
func (a *FileSystemStorage) SaveReport(sourceName string, sourceID string, fileName string, content []byte) (string, error) {
	if sourceName == "" || sourceID == "" || fileName == "" {
		return "", fmt.Errorf("SaveReport 參數 sourceName, sourceID, fileName 不得為空")
	}
	if len(content) == 0 {
		return "", fmt.Errorf("SaveReport 參數 content 不得為空")
	}

	safeSourceName := filepath.Clean(sourceName)
	safeSourceID := filepath.Clean(sourceID)
	targetDir := filepath.Join(a.reportPath, safeSourceName, safeSourceID)
	targetPath := filepath.Join(targetDir, fileName)

	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		if err := os.MkdirAll(targetDir, os.ModePerm); err != nil {
			return "", fmt.Errorf("無法建立報告目錄 '%s': %w", targetDir, err)
		}
	}

	log.Printf("資訊：[Archive] 正在將報告儲存到 '%s'", targetPath)
	if err := os.WriteFile(targetPath, content, 0644); err != nil {
		return "", fmt.Errorf("無法寫入報告檔案到 '%s': %w", targetPath, err)
	}

	relativePath, err := filepath.Rel(a.reportPath, targetPath)
	if err != nil {
		log.Printf("警告：[Archive] 無法取得相對於報告根目錄的路徑，將回傳絕對路徑 '%s': %v", targetPath, err)
		return targetPath, nil
	}
	return relativePath, nil
}

// ReadReport 依相對路徑讀取報告內容
func (a *FileSystemStorage) ReadReport(relativePath string) ([]byte, error) {
	if relativePath == "" {
		return nil, fmt.Errorf("ReadReport 參數 relativePath 不得為空")
	}
	absPath := filepath.Join(a.reportPath, relativePath)
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("無法讀取報告檔案 '%s': %w", absPath, err)
	}
	return data, nil
}
