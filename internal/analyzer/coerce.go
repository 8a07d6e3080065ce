package analyzer

import (
	"fmt"
	"strings"
)

// 外部摘要器回傳的 JSON 形狀不穩定：同一欄位可能是字串、列表或物件。
// 這裡是唯一處理這種動態形狀的地方，Reconciler 只面對乾淨的 []string。

// preferredStringKeys 從物件中挑出代表性文字時依序嘗試的鍵
var preferredStringKeys = []string{"name", "text", "value", "item", "content"}

// coerceString 把任意 JSON 解碼值正規化為單一字串
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		for _, key := range preferredStringKeys {
			if s, ok := v[key].(string); ok {
				return s
			}
		}
		return fmt.Sprintf("%v", v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceStringList 把任意 JSON 解碼值正規化為字串列表
func coerceStringList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			result = append(result, coerceString(item))
		}
		return result
	case string:
		return []string{v}
	case map[string]any:
		return []string{coerceString(v)}
	default:
		return nil
	}
}
