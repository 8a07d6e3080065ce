package analyzer

import (
	"strconv"
	"strings"

	"CBMeeting-admin/internal/models"
)

// OutcomeFromCount 由票數字串推斷表決結果。
// 這是一個全函式：任何輸入都對應到一個結果，無法解析時回傳 Recorded。
//
// 票數格式為 yes-no[-abstain[-notpresent]]。注意「有棄權票即非一致通過」
// 是一條經驗法則，並未對照實際議事規則驗證。
func OutcomeFromCount(voteCount string) models.VoteOutcome {
	if strings.EqualFold(voteCount, "unanimous") {
		return models.OutcomeApprovedUnanimously
	}

	if strings.Contains(voteCount, "-") {
		parts := strings.Split(voteCount, "-")
		if len(parts) >= 2 {
			yesVotes, errYes := strconv.Atoi(parts[0])
			noVotes, errNo := strconv.Atoi(parts[1])
			if errYes == nil && errNo == nil {
				switch {
				case yesVotes > noVotes:
					if noVotes == 0 && (len(parts) < 3 || parts[2] == "0") {
						return models.OutcomeApprovedUnanimously
					}
					return models.OutcomeApproved
				case noVotes > yesVotes:
					return models.OutcomeRejected
				default:
					return models.OutcomeTied
				}
			}
		}
	}

	return models.OutcomeRecorded
}
