package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SegmentAnalysisPrompts 管理段落分析 Prompt 的版本
type SegmentAnalysisPrompts struct {
	CurrentVersion string            `mapstructure:"currentVersion"`
	Versions       map[string]string `mapstructure:"versions"`
}

// PromptConfig 集中所有 LLM Prompt 設定
type PromptConfig struct {
	SegmentAnalysis SegmentAnalysisPrompts `mapstructure:"segmentAnalysis"`
}

// SchedulerConfig 控制背景排程任務
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	FetchCronSpec   string `mapstructure:"fetchCronSpec"`
	AnalyzeCronSpec string `mapstructure:"analyzeCronSpec"`
}

// Config 是應用程式的完整設定
type Config struct {
	AppName       string              `mapstructure:"appName"`
	YouTubeClient YouTubeClientConfig `mapstructure:"youTubeClient"`
	GeminiClient  GeminiClientConfig  `mapstructure:"geminiClient"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Archive       ArchiveConfig       `mapstructure:"archive"`
	Analyzer      AnalyzerConfig      `mapstructure:"analyzer"`
	Prompts       PromptConfig        `mapstructure:"prompts"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler"`
}

type YouTubeClientConfig struct {
	APIKey     string   `mapstructure:"apiKey"`
	Channels   []string `mapstructure:"channels"`
	MaxResults int64    `mapstructure:"maxResults"`
}
type GeminiClientConfig struct {
	APIKey string `mapstructure:"apiKey"`
	Model  string `mapstructure:"model"`
}
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbName"`
}

// ArchiveConfig 指向逐字稿與報告的封存目錄
type ArchiveConfig struct {
	TranscriptPath string `mapstructure:"transcriptPath"`
	ReportPath     string `mapstructure:"reportPath"`
}

// AnalyzerConfig 是分析引擎的門檻設定，各欄位對應引擎的同名選項
type AnalyzerConfig struct {
	ContextRadius       int     `mapstructure:"contextRadius"`
	ProximityThreshold  int     `mapstructure:"proximityThreshold"`
	SubjectSimilarity   float64 `mapstructure:"subjectSimilarity"`
	ReconcileSimilarity float64 `mapstructure:"reconcileSimilarity"`
	SegmentMinSize      int     `mapstructure:"segmentMinSize"`
	MaxConcerns         int     `mapstructure:"maxConcerns"`
	MaxNextSteps        int     `mapstructure:"maxNextSteps"`
	MaxTopics           int     `mapstructure:"maxTopics"`
}

// Load 讀取設定檔並套用預設值
func Load(configPath string, configName string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 設定預設值
	v.SetDefault("appName", "CBMeeting-DefaultApp")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("youTubeClient.maxResults", 50)
	v.SetDefault("geminiClient.model", "gemini-1.5-flash")
	v.SetDefault("analyzer.contextRadius", 1000)
	v.SetDefault("analyzer.proximityThreshold", 200)
	v.SetDefault("analyzer.subjectSimilarity", 0.8)
	v.SetDefault("analyzer.reconcileSimilarity", 0.7)
	v.SetDefault("analyzer.segmentMinSize", 1000)
	v.SetDefault("analyzer.maxConcerns", 15)
	v.SetDefault("analyzer.maxNextSteps", 10)
	v.SetDefault("analyzer.maxTopics", 10)
	v.SetDefault("prompts.segmentAnalysis.currentVersion", "default-v1")
	v.SetDefault("prompts.segmentAnalysis.versions.default-v1", "請以 JSON 回覆此會議段落的主題、決議、關注事項、講者與行動項目。")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.fetchCronSpec", "0 0 * * * *")
	v.SetDefault("scheduler.analyzeCronSpec", "0 */10 * * * *")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("警告：找不到設定檔，將使用預設值和環境變數。")
		} else {
			return nil, fmt.Errorf("讀取設定檔時發生錯誤: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("無法解析設定檔到結構: %w", err)
	}

	if cfg.GeminiClient.APIKey == "" {
		fmt.Println("警告：Gemini API Key 未設定，分析將只產出規則式結果。")
	}
	if cfg.YouTubeClient.APIKey == "" {
		fmt.Println("警告：YouTube API Key 未設定，影片擷取任務將無法執行。")
	}

	fmt.Println("資訊：設定載入成功。")
	return &cfg, nil
}
