package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CBMeeting-admin/internal/models"
)

func TestDeduplicateVotes_ProximityKeepsHigherConfidence(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{Item: "Motion to Adjourn", VoteCount: "Pending", Position: 100, Confidence: 0.8},
		{Item: "Application: 215 West 95th Street", VoteCount: "9-0-0-0", Position: 150, Confidence: 0.95},
	}

	deduped := a.DeduplicateVotes(votes)

	require.Len(t, deduped, 1)
	assert.Equal(t, "9-0-0-0", deduped[0].VoteCount)
	assert.InDelta(t, 0.95, deduped[0].Confidence, 0.001)
}

func TestDeduplicateVotes_ProximityKeepsFirstWhenConfidenceEqual(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{Item: "First", VoteCount: "8-1-0-0", Position: 100, Confidence: 0.9},
		{Item: "Second", VoteCount: "8-1-0-0", Position: 120, Confidence: 0.9},
	}

	deduped := a.DeduplicateVotes(votes)

	require.Len(t, deduped, 1)
	assert.Equal(t, "First", deduped[0].Item)
}

func TestDeduplicateVotes_SimilarSubjectSameCount(t *testing.T) {
	a := New(DefaultOptions(), nil)

	// 位置相距很遠，但主旨幾乎相同且票數一致，應視為重複
	votes := []models.VoteRecord{
		{Item: "Liquor License Application", VoteCount: "8-1-0-0", Position: 100, Confidence: 0.9},
		{Item: "liquor license application", VoteCount: "8-1-0-0", Position: 5000, Confidence: 0.85},
	}

	deduped := a.DeduplicateVotes(votes)

	require.Len(t, deduped, 1)
	assert.Equal(t, 100, deduped[0].Position)
}

func TestDeduplicateVotes_DifferentCountsSurvive(t *testing.T) {
	a := New(DefaultOptions(), nil)

	// 主旨相同但票數不同，代表兩次不同的表決
	votes := []models.VoteRecord{
		{Item: "Budget Item", VoteCount: "8-1-0-0", Position: 100, Confidence: 0.9},
		{Item: "Budget Item", VoteCount: "5-4-0-0", Position: 5000, Confidence: 0.9},
	}

	deduped := a.DeduplicateVotes(votes)
	assert.Len(t, deduped, 2)
}

func TestDeduplicateVotes_Idempotent(t *testing.T) {
	a := New(DefaultOptions(), nil)

	votes := []models.VoteRecord{
		{Item: "Motion to Adjourn", VoteCount: "Pending", Position: 100, Confidence: 0.8},
		{Item: "Application: 215 West 95th Street", VoteCount: "9-0-0-0", Position: 150, Confidence: 0.95},
		{Item: "Budget Item", VoteCount: "5-4-0-0", Position: 5000, Confidence: 0.9},
	}

	once := a.DeduplicateVotes(votes)
	twice := a.DeduplicateVotes(once)
	assert.Equal(t, once, twice)
}

func TestDeduplicateVotes_Empty(t *testing.T) {
	a := New(DefaultOptions(), nil)
	assert.Empty(t, a.DeduplicateVotes(nil))
}
