package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client 結構用於與 Gemini API 互動
type Client struct {
	segmentAnalysisModel *genai.GenerativeModel
}

// NewClient 建立一個 Gemini 客戶端實例
func NewClient(apiKey string, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API Key 不得為空")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
		log.Printf("警告：[Gemini Client] 未提供段落分析模型名稱，使用預設值: %s\n", modelName)
	}

	ctx := context.Background()
	genaiSDKClient, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("無法建立 Gemini GenAI SDK 客戶端: %w", err)
	}

	model := genaiSDKClient.GenerativeModel(modelName)
	var genConfig genai.GenerationConfig
	genConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig = genConfig
	log.Printf("資訊：[Gemini Client] 段落分析模型 '%s' 初始化成功。\n", modelName)

	return &Client{segmentAnalysisModel: model}, nil
}

// cleanJSONString 清理從 LLM 收到的可能包含雜質的 JSON 字串
func cleanJSONString(rawResponse string) string {
	cleaned := strings.TrimSpace(rawResponse)

	// 移除可能的 markdown 代碼塊標記
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		if strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimSuffix(cleaned, "```")
		}
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		if strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimSuffix(cleaned, "```")
		}
	}
	cleaned = strings.TrimSpace(cleaned)

	// 尋找最外層的 JSON 結構
	var potentialJSON string
	firstBrace := strings.Index(cleaned, "{")
	lastBrace := strings.LastIndex(cleaned, "}")
	firstBracket := strings.Index(cleaned, "[")
	lastBracket := strings.LastIndex(cleaned, "]")
	isObject := firstBrace != -1 && lastBrace != -1 && lastBrace > firstBrace
	isArray := firstBracket != -1 && lastBracket != -1 && lastBracket > firstBracket

	if isObject && (!isArray || (isArray && firstBrace < firstBracket)) {
		potentialJSON = cleaned[firstBrace : lastBrace+1]
	} else if isArray && (!isObject || (isObject && firstBracket < firstBrace)) {
		potentialJSON = cleaned[firstBracket : lastBracket+1]
	} else {
		potentialJSON = cleaned
	}
	potentialJSON = strings.TrimSpace(potentialJSON)

	// 處理 UTF-8 編碼問題
	if !utf8.ValidString(potentialJSON) {
		log.Println("警告：[Gemini Client Clean] 回應包含無效的 UTF-8 字元，嘗試替換...")
		potentialJSON = strings.ToValidUTF8(potentialJSON, "")
	}

	// 移除控制字元
	var sb strings.Builder
	for _, r := range potentialJSON {
		if (r >= 0 && r < 9) || (r > 10 && r < 13) || (r > 13 && r < 32) || r == 127 {
			continue
		}
		sb.WriteRune(r)
	}
	finalCleaned := sb.String()
	finalCleaned = strings.TrimPrefix(finalCleaned, "\uFEFF")

	// 嘗試解析和重新格式化 JSON
	var jsonObj interface{}
	if err := json.Unmarshal([]byte(finalCleaned), &jsonObj); err != nil {
		log.Printf("警告：[Gemini Client Clean] 初步 JSON 解析失敗，嘗試進一步清理: %v", err)
		// 如果解析失敗，嘗試移除可能的非 JSON 字元
		finalCleaned = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == '\t' {
				return ' '
			}
			return r
		}, finalCleaned)
		// 移除多餘的空格
		finalCleaned = strings.Join(strings.Fields(finalCleaned), " ")
	} else {
		// 如果解析成功，重新格式化 JSON
		if formattedJSON, err := json.MarshalIndent(jsonObj, "", "  "); err == nil {
			finalCleaned = string(formattedJSON)
		}
	}

	return finalCleaned
}

// AnalyzeText 向 Gemini API 發送逐字稿段落和提示以進行分析，期望回傳 JSON 字串
func (c *Client) AnalyzeText(ctx context.Context, textContent string, prompt string) (string, error) {
	log.Printf("資訊：[Gemini Client] AnalyzeText - 開始分析文本內容 (長度: %d 字元)\n", len(textContent))
	log.Printf("資訊：[Gemini Client] AnalyzeText - 使用段落分析 Prompt (前100字元): %s...\n", firstNChars(prompt, 100))
	if strings.TrimSpace(textContent) == "" {
		return "", fmt.Errorf("要分析的文本內容不得為空")
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("段落分析的 Prompt 不得為空")
	}

	requestParts := []genai.Part{genai.Text(prompt), genai.Text(textContent)}
	log.Println("資訊：[Gemini Client] AnalyzeText - 正在向 Gemini API 發送請求...")
	resp, err := c.segmentAnalysisModel.GenerateContent(ctx, requestParts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API 段落分析 GenerateContent 失敗: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API 段落分析回應無效或為空 (nil response or no candidates)")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			logMsg := fmt.Sprintf("Gemini API 段落分析回應無效或內容被阻止，原因: %s", candidate.FinishReason.String())
			if candidate.SafetyRatings != nil {
				for _, rating := range candidate.SafetyRatings {
					log.Printf("警告：[Gemini Client] 安全評級 (段落分析) - Category: %s, Probability: %s\n", rating.Category, rating.Probability)
				}
			}
			return "", fmt.Errorf("%s", logMsg)
		}
		return "", fmt.Errorf("Gemini API 段落分析回應無效或為空 (no content parts, FinishReason: %s)", candidate.FinishReason.String())
	}
	var responseTextBuilder strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseTextBuilder.WriteString(string(txt))
		} else {
			log.Printf("警告：[Gemini Client] AnalyzeText - 收到非預期的 Part 類型: %T\n", part)
		}
	}
	rawJsonResponseString := responseTextBuilder.String()
	if strings.TrimSpace(rawJsonResponseString) == "" {
		return "", fmt.Errorf("Gemini API 段落分析回傳的內容為空")
	}

	cleanedJSONString := cleanJSONString(rawJsonResponseString)
	log.Printf("資訊：[Gemini Client] AnalyzeText - 清理後的 JSON 字串 (長度: %d)\n", len(cleanedJSONString))

	if !json.Valid([]byte(cleanedJSONString)) {
		log.Printf("錯誤：[Gemini Client] AnalyzeText - 清理後的字串仍然不是有效的 JSON。完整的 Cleaned JSON String:\n%s\n", cleanedJSONString)
		return "", fmt.Errorf("清理後的字串不是有效的 JSON (段落分析)")
	}
	return cleanedJSONString, nil
}

// firstNChars 輔助函式，避免把過長內容整段寫進日誌
func firstNChars(s string, n int) string {
	if len(s) > n && n > 0 {
		runes := []rune(s)
		if len(runes) > n {
			return string(runes[:n])
		}
	}
	return s
}
