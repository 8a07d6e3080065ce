package analyzer

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// similarityRatio 計算兩字串的正規化相似度，範圍 [0,1]。
// 定義為 2M/T：M 是 diff 中相同片段的字元數，T 是兩字串長度總和。
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	var matched int
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2.0 * float64(matched) / float64(total)
}
