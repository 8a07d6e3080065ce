package analyzer

import (
	"sort"
	"strconv"
	"strings"

	"CBMeeting-admin/internal/models"
)

// voteDetails 是單一匹配解析出的主旨／結果／票數三元組
type voteDetails struct {
	item      string
	outcome   models.VoteOutcome
	voteCount string
}

// dashNormalizer 把長破折號統一為連字號，方便票數解析
var dashNormalizer = strings.NewReplacer("–", "-")

// ExtractVotes 以模式庫掃描整份逐字稿，回傳未過濾、未去重的投票事件列表，
// 依位置遞增穩定排序。無法解析的匹配（例如口語數字不是有效數字詞）
// 會被直接捨棄，提取過程本身絕不失敗。
func (a *Analyzer) ExtractVotes(transcript string) []models.VoteRecord {
	var records []models.VoteRecord

	for _, pattern := range votePatterns {
		matches := pattern.re.FindAllStringSubmatchIndex(transcript, -1)
		for _, match := range matches {
			matchStart, matchEnd := match[0], match[1]

			// 擷取匹配點前後的上下文視窗，裁切到逐字稿邊界
			ctxStart := matchStart - a.opts.ContextRadius
			if ctxStart < 0 {
				ctxStart = 0
			}
			ctxEnd := matchEnd + a.opts.ContextRadius
			if ctxEnd > len(transcript) {
				ctxEnd = len(transcript)
			}
			context := transcript[ctxStart:ctxEnd]

			details := parseVoteMatch(transcript, match, pattern.voteType, context)
			if details == nil {
				continue
			}
			records = append(records, models.VoteRecord{
				Item:       details.item,
				Outcome:    details.outcome,
				VoteCount:  details.voteCount,
				VoteType:   pattern.voteType,
				Context:    context,
				Position:   matchStart,
				RawText:    transcript[matchStart:matchEnd],
				Confidence: pattern.confidence,
			})
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})
	return records
}

// submatch 取出第 n 個捕獲群組的文字，未匹配時回傳空字串
func submatch(s string, match []int, n int) string {
	if 2*n+1 >= len(match) || match[2*n] < 0 {
		return ""
	}
	return s[match[2*n]:match[2*n+1]]
}

// parseVoteMatch 依模式分類推導主旨與結果；回傳 nil 代表該匹配應捨棄。
func parseVoteMatch(transcript string, match []int, voteType string, context string) *voteDetails {
	switch voteType {
	case "formal_vote":
		voteCount := submatch(transcript, match, 1)
		if voteCount == "" {
			voteCount = submatch(transcript, match, 0)
		}
		voteCount = dashNormalizer.Replace(voteCount)
		return &voteDetails{
			item:      resolveSubject(context),
			outcome:   OutcomeFromCount(voteCount),
			voteCount: voteCount,
		}

	case "verbal_vote", "numeric_verbal":
		groupCount := len(match)/2 - 1
		numbers := make([]string, 0, groupCount)
		for g := 1; g <= groupCount; g++ {
			word := submatch(transcript, match, g)
			if n, ok := numberWords[strings.ToLower(word)]; ok {
				numbers = append(numbers, strconv.Itoa(n))
			} else if _, err := strconv.Atoi(word); err == nil {
				numbers = append(numbers, word)
			} else {
				return nil
			}
		}
		if len(numbers) != 4 {
			return nil
		}
		voteCount := strings.Join(numbers, "-")
		return &voteDetails{
			item:      resolveSubject(context),
			outcome:   OutcomeFromCount(voteCount),
			voteCount: voteCount,
		}

	case "vote_passes", "motion_approved", "unanimous":
		voteCount := "Passed"
		if voteType == "unanimous" {
			voteCount = "Unanimous"
		}
		return &voteDetails{
			item:      resolveSubject(context),
			outcome:   models.OutcomeApproved,
			voteCount: voteCount,
		}

	case "vote_fails", "motion_rejected":
		return &voteDetails{
			item:      resolveSubject(context),
			outcome:   models.OutcomeRejected,
			voteCount: "Failed",
		}

	case "motion", "resolution":
		// 主旨直接來自捕獲群組
		item := strings.TrimSpace(submatch(transcript, match, 1))
		if item == "" {
			item = "Board Item"
		}
		return &voteDetails{
			item:      cleanItemText(item),
			outcome:   models.OutcomeUnderConsideration,
			voteCount: "Pending",
		}

	case "motion_passed":
		return &voteDetails{
			item:      resolveSubject(context),
			outcome:   models.OutcomeApproved,
			voteCount: "Motion passed",
		}
	}

	// 程序性提示 (call_question, ready_vote) 不產生投票記錄
	return nil
}
