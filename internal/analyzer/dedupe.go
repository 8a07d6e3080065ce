package analyzer

import (
	"strings"

	"CBMeeting-admin/internal/models"
)

// DeduplicateVotes 收斂指向同一真實事件的重複偵測，回傳新的過濾後列表。
// 輸入需依位置遞增排序（ExtractVotes 的輸出即是）。
//
// 判定規則依序：
//  1. 位置相距小於鄰近門檻 → 同一事件，保留可信度較高者（後者勝出時取代前者）。
//  2. 主旨相似度超過門檻且票數字串完全相同 → 重複，捨棄後者。
//
// 複雜度 O(n²)；單場會議的候選數量是數十級，可接受。
// 對自身輸出重跑結果不變（冪等）。
func (a *Analyzer) DeduplicateVotes(votes []models.VoteRecord) []models.VoteRecord {
	if len(votes) == 0 {
		return nil
	}

	var unique []models.VoteRecord

	for _, vote := range votes {
		duplicate := false
		for i, existing := range unique {
			diff := vote.Position - existing.Position
			if diff < 0 {
				diff = -diff
			}
			if diff < a.opts.ProximityThreshold {
				if vote.Confidence > existing.Confidence {
					unique[i] = vote
				}
				duplicate = true
				break
			}

			similarity := similarityRatio(strings.ToLower(vote.Item), strings.ToLower(existing.Item))
			if similarity > a.opts.SubjectSimilarity && vote.VoteCount == existing.VoteCount {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, vote)
		}
	}

	return unique
}
