package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"CBMeeting-admin/internal/models"
)

var (
	voteMarkerPattern  = regexp.MustCompile(`\b(vote|motion|approve|reject|unanimous)\b`)
	introMarkerPattern = regexp.MustCompile(`\b(hi|hello|good evening|thank you for|my name is)\b`)
)

// BuildSegments 以去重後的投票位置為錨點，把逐字稿切分為有界段落。
// 短於最小長度的候選段落會被捨棄而非保留為雜訊，
// 因此產出的段落不一定連續覆蓋整份逐字稿。
func (a *Analyzer) BuildSegments(transcript string, votes []models.VoteRecord) []models.Segment {
	if len(transcript) == 0 {
		return nil
	}

	// 收集段落邊界：逐字稿首尾，加上每筆投票前後各一個上下文半徑
	boundarySet := map[int]bool{0: true, len(transcript): true}
	for _, vote := range votes {
		before := vote.Position - a.opts.ContextRadius
		if before < 0 {
			before = 0
		}
		after := vote.Position + a.opts.ContextRadius
		if after > len(transcript) {
			after = len(transcript)
		}
		boundarySet[before] = true
		boundarySet[after] = true
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		boundaries = append(boundaries, b)
	}
	sort.Ints(boundaries)

	var segments []models.Segment
	for i := 0; i < len(boundaries)-1; i++ {
		start, end := boundaries[i], boundaries[i+1]
		if end-start < a.opts.SegmentMinSize {
			continue
		}

		text := transcript[start:end]
		segment := models.Segment{
			Type:  classifySegment(text),
			Text:  text,
			Start: start,
			End:   end,
		}
		for _, vote := range votes {
			if vote.Position >= start && vote.Position < end {
				segment.Votes = append(segment.Votes, vote)
			}
		}
		segments = append(segments, segment)
	}

	return segments
}

// classifySegment 以詞彙密度線索判斷段落的對話性質
func classifySegment(text string) models.SegmentType {
	textLower := strings.ToLower(text)

	voteMarkers := len(voteMarkerPattern.FindAllString(textLower, -1))
	introMarkers := len(introMarkerPattern.FindAllString(textLower, -1))
	questionMarks := strings.Count(text, "?")

	switch {
	case voteMarkers >= 3:
		return models.SegmentVoting
	case introMarkers >= 2:
		return models.SegmentPresentation
	case questionMarks >= 3:
		return models.SegmentDiscussion
	default:
		return models.SegmentGeneral
	}
}
