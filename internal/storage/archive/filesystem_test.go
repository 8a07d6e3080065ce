package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/config"
)

func newTestStorage(t *testing.T) (*FileSystemStorage, string) {
	t.Helper()
	base := t.TempDir()
	storage, err := NewFileSystemStorage(config.ArchiveConfig{
		TranscriptPath: filepath.Join(base, "transcripts"),
		ReportPath:     filepath.Join(base, "reports"),
	})
	require.NoError(t, err)
	return storage, base
}

func TestNewFileSystemStorage_CreatesMissingDirectories(t *testing.T) {
	_, base := newTestStorage(t)

	assert.DirExists(t, filepath.Join(base, "transcripts"))
	assert.DirExists(t, filepath.Join(base, "reports"))
}

func TestNewFileSystemStorage_RejectsEmptyPaths(t *testing.T) {
	_, err := NewFileSystemStorage(config.ArchiveConfig{ReportPath: "x"})
	assert.Error(t, err)

	_, err = NewFileSystemStorage(config.ArchiveConfig{TranscriptPath: "x"})
	assert.Error(t, err)
}

func TestListTranscripts(t *testing.T) {
	storage, base := newTestStorage(t)

	transcriptDir := filepath.Join(base, "transcripts")
	require.NoError(t, os.MkdirAll(filepath.Join(transcriptDir, "youtube"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(transcriptDir, "youtube", "abc123.txt"), []byte("transcript body"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(transcriptDir, "walkin.txt"), []byte("walk-in transcript"), 0644))
	// 非 .txt 檔案應被忽略
	require.NoError(t, os.WriteFile(filepath.Join(transcriptDir, "notes.md"), []byte("ignored"), 0644))

	files, err := storage.ListTranscripts()
	require.NoError(t, err)
	require.Len(t, files, 2)

	bySourceID := make(map[string]string)
	for _, f := range files {
		bySourceID[f.OriginalID] = f.SourceName
	}
	assert.Equal(t, "youtube", bySourceID["abc123"])
	assert.Equal(t, "local", bySourceID["walkin"])
}

func TestReadTranscript(t *testing.T) {
	storage, base := newTestStorage(t)

	transcriptDir := filepath.Join(base, "transcripts")
	require.NoError(t, os.WriteFile(filepath.Join(transcriptDir, "abc.txt"), []byte("hello meeting"), 0644))

	content, err := storage.ReadTranscript("abc.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello meeting", content)

	_, err = storage.ReadTranscript("missing.txt")
	assert.Error(t, err)

	_, err = storage.ReadTranscript("")
	assert.Error(t, err)
}

func TestSaveAndReadReport(t *testing.T) {
	storage, _ := newTestStorage(t)

	relativePath, err := storage.SaveReport("youtube", "abc123", "abc123_summary.md", []byte("# Report"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("youtube", "abc123", "abc123_summary.md"), relativePath)

	content, err := storage.ReadReport(relativePath)
	require.NoError(t, err)
	assert.Equal(t, "# Report", string(content))
}

func TestSaveReport_RejectsEmptyArguments(t *testing.T) {
	storage, _ := newTestStorage(t)

	_, err := storage.SaveReport("", "id", "f.md", []byte("x"))
	assert.Error(t, err)
	_, err = storage.SaveReport("youtube", "id", "f.md", nil)
	assert.Error(t, err)
}
