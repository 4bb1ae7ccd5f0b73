package services

import (
	"testing"

	"creator-loyalty-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierCatalogMonotonicity(t *testing.T) {
	require.NotEmpty(t, models.TierCatalog)

	for i := 1; i < len(models.TierCatalog); i++ {
		prev, cur := models.TierCatalog[i-1], models.TierCatalog[i]
		assert.Less(t, prev.Rank, cur.Rank, "ranks must strictly increase: %s vs %s", prev.ID, cur.ID)
		assert.Less(t, prev.MinFollowers, cur.MinFollowers, "follower thresholds must strictly increase: %s vs %s", prev.ID, cur.ID)
	}

	// Only the top tier has no points target.
	for i, tier := range models.TierCatalog {
		if i == len(models.TierCatalog)-1 {
			assert.Nil(t, tier.PointsToNext)
		} else {
			assert.NotNil(t, tier.PointsToNext, "tier %s needs a points target", tier.ID)
		}
	}
}

func TestTierForMetrics(t *testing.T) {
	assert.Equal(t, "beginner", TierForMetrics(0, 0).ID)
	assert.Equal(t, "beginner", TierForMetrics(4999, 10).ID)
	assert.Equal(t, "active", TierForMetrics(5000, 2.0).ID)
	assert.Equal(t, "pro", TierForMetrics(20000, 3.5).ID)
	assert.Equal(t, "ambassador", TierForMetrics(250000, 8).ID)

	// High followers but low ER stays below the ER gate.
	assert.Equal(t, "beginner", TierForMetrics(250000, 0.5).ID)
}

func TestTierForMetricsMonotonic(t *testing.T) {
	followerSteps := []int64{0, 1000, 5000, 15000, 50000, 100000, 500000}
	erSteps := []float64{0, 1, 2, 3, 4, 5, 10}

	// Increasing followers at fixed ER never decreases the rank.
	for _, er := range erSteps {
		lastRank := 0
		for _, f := range followerSteps {
			rank := TierForMetrics(f, er).Rank
			assert.GreaterOrEqual(t, rank, lastRank, "followers=%d er=%f", f, er)
			lastRank = rank
		}
	}

	// Increasing ER at fixed followers never decreases the rank.
	for _, f := range followerSteps {
		lastRank := 0
		for _, er := range erSteps {
			rank := TierForMetrics(f, er).Rank
			assert.GreaterOrEqual(t, rank, lastRank, "followers=%d er=%f", f, er)
			lastRank = rank
		}
	}
}

func TestProgressToNext(t *testing.T) {
	beginner := models.TierByID("beginner")
	require.NotNil(t, beginner)
	require.NotNil(t, beginner.PointsToNext) // 1000

	assert.InDelta(t, 0, ProgressToNext(beginner, 0), 0.001)
	assert.InDelta(t, 50, ProgressToNext(beginner, 500), 0.001)
	assert.InDelta(t, 100, ProgressToNext(beginner, 1000), 0.001)
	assert.InDelta(t, 100, ProgressToNext(beginner, 99999), 0.001, "capped at 100")

	top := models.TierByID("ambassador")
	require.NotNil(t, top)
	assert.InDelta(t, 100, ProgressToNext(top, 0), 0.001, "top tier always reports 100")
}

func TestCanAccess(t *testing.T) {
	for r := 1; r <= 5; r++ {
		assert.True(t, CanAccess(r, r), "reflexive at rank %d", r)
	}
	for r1 := 1; r1 <= 5; r1++ {
		for r2 := 1; r2 <= 5; r2++ {
			if r1 == r2 {
				continue
			}
			assert.NotEqual(t, CanAccess(r1, r2), CanAccess(r2, r1), "exactly one direction holds for %d vs %d", r1, r2)
		}
	}
}

func TestEngagementRateFor(t *testing.T) {
	assert.InDelta(t, 5.0, models.EngagementRateFor(10000, 400, 100), 0.001)
	assert.Zero(t, models.EngagementRateFor(0, 400, 100), "zero followers yields zero ER")
}
