package services

import (
	"testing"
	"time"

	"creator-loyalty-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideStartActiveLimit(t *testing.T) {
	tier := models.TierByID("beginner")
	require.NotNil(t, tier)
	require.Equal(t, 1, tier.MaxActiveCollabs)

	decision := decideStart(tier, 1, nil, time.Now())
	assert.False(t, decision.Allowed)
	assert.Equal(t, "active limit reached", decision.Reason)
}

func TestDecideStartCooldown(t *testing.T) {
	tier := models.TierByID("beginner")
	require.NotNil(t, tier)
	require.Equal(t, 14, tier.CooldownDays)

	now := time.Now()
	last := &models.Collaboration{
		Status:    models.CollabStatusCompleted,
		CreatedAt: now.AddDate(0, 0, -5),
	}

	decision := decideStart(tier, 0, last, now)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 9, decision.CooldownDaysLeft)
	assert.Equal(t, "cooldown remaining: 9 days", decision.Reason)
}

func TestDecideStartCooldownElapsed(t *testing.T) {
	tier := models.TierByID("beginner")
	require.NotNil(t, tier)

	now := time.Now()
	last := &models.Collaboration{
		Status:    models.CollabStatusCompleted,
		CreatedAt: now.AddDate(0, 0, -tier.CooldownDays),
	}

	decision := decideStart(tier, 0, last, now)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Reason)
}

func TestDecideStartNoHistory(t *testing.T) {
	tier := models.TierByID("ambassador")
	require.NotNil(t, tier)

	decision := decideStart(tier, 0, nil, time.Now())
	assert.True(t, decision.Allowed)
}

func TestCanSelectProduct(t *testing.T) {
	beginner := &models.Creator{TierID: "beginner"}
	pro := &models.Creator{TierID: "pro"}
	unknownTier := &models.Creator{TierID: "no-such-tier"}

	open := &models.Product{ID: "p1", MinTierRank: 1}
	gated := &models.Product{ID: "p2", MinTierRank: 3}

	assert.True(t, CanSelectProduct(beginner, open))
	assert.False(t, CanSelectProduct(beginner, gated))
	assert.True(t, CanSelectProduct(pro, gated))

	// Unknown tier falls back to the lowest.
	assert.True(t, CanSelectProduct(unknownTier, open))
	assert.False(t, CanSelectProduct(unknownTier, gated))
}
