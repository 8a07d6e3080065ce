package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceString(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected string
	}{
		{"字串原樣回傳", "hello", "hello"},
		{"nil 回傳空字串", nil, ""},
		{"物件取代表性鍵", map[string]any{"name": "Dana", "role": "chair"}, "Dana"},
		{"物件依鍵序嘗試", map[string]any{"text": "note", "value": "x"}, "note"},
		{"列表以逗號串接", []any{"a", "b"}, "a, b"},
		{"巢狀列表", []any{map[string]any{"item": "cafe"}, "permit"}, "cafe, permit"},
		{"數值轉字串", float64(3), "3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, coerceString(tc.input))
		})
	}
}

func TestCoerceStringList(t *testing.T) {
	assert.Nil(t, coerceStringList(nil))
	assert.Equal(t, []string{"solo"}, coerceStringList("solo"))
	assert.Equal(t, []string{"a", "b"}, coerceStringList([]any{"a", "b"}))
	assert.Equal(t, []string{"Dana"}, coerceStringList(map[string]any{"name": "Dana"}))
	assert.Equal(t, []string{"x", "Dana"}, coerceStringList([]any{"x", map[string]any{"name": "Dana"}}))
	assert.Nil(t, coerceStringList(42))
}
