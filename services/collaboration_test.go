package services

import (
	"testing"
	"time"

	"creator-loyalty-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingCollab() *models.Collaboration {
	now := time.Now()
	return &models.Collaboration{
		ID:         "c1",
		CreatorID:  "u1",
		ProductIDs: []string{"p1", "p2", "p3", "p4"},
		Status:     models.CollabStatusPending,
		Deadline:   now.AddDate(0, 0, 14),
		CreatedAt:  now,
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	c := newPendingCollab()
	now := time.Now()

	require.NoError(t, applyShipped(c, now))
	assert.Equal(t, models.CollabStatusShipped, c.Status)
	require.NotNil(t, c.ShippedAt)

	require.NoError(t, applyDelivery(c, now))
	assert.Equal(t, models.CollabStatusWaitingContent, c.Status)
	require.NotNil(t, c.DeliveredAt)

	require.NoError(t, applyContent(c, "https://x/1", now))
	assert.Equal(t, models.CollabStatusWaitingContent, c.Status)
	require.NotNil(t, c.ContentURL)
	assert.Equal(t, "https://x/1", *c.ContentURL)
	require.NotNil(t, c.ContentSubmittedAt)

	require.NoError(t, applyCompletion(c, 4, now))
	assert.Equal(t, models.CollabStatusCompleted, c.Status)
	require.NotNil(t, c.Rating)
	assert.Equal(t, 4, *c.Rating)
	require.NotNil(t, c.PointsEarned)
	assert.Equal(t, int64(300), *c.PointsEarned)
	require.NotNil(t, c.CompletedAt)
}

func TestCompletionOnlyFromWaitingContent(t *testing.T) {
	now := time.Now()

	pending := newPendingCollab()
	assert.ErrorIs(t, applyCompletion(pending, 4, now), ErrInvalidTransition)
	assert.Equal(t, models.CollabStatusPending, pending.Status, "failed completion leaves state unchanged")
	assert.Nil(t, pending.Rating)

	shipped := newPendingCollab()
	require.NoError(t, applyShipped(shipped, now))
	assert.ErrorIs(t, applyCompletion(shipped, 4, now), ErrInvalidTransition)
}

func TestCompletedIsTerminal(t *testing.T) {
	c := newPendingCollab()
	now := time.Now()
	require.NoError(t, applyShipped(c, now))
	require.NoError(t, applyDelivery(c, now))
	require.NoError(t, applyCompletion(c, 5, now))

	assert.ErrorIs(t, applyCompletion(c, 5, now), ErrInvalidTransition)
	assert.ErrorIs(t, applyShipped(c, now), ErrInvalidTransition)
	assert.ErrorIs(t, applyDelivery(c, now), ErrInvalidTransition)
	assert.ErrorIs(t, applyContent(c, "https://x/2", now), ErrInvalidTransition)
}

func TestInvalidRating(t *testing.T) {
	now := time.Now()
	for _, rating := range []int{0, 6, -1, 100} {
		c := newPendingCollab()
		require.NoError(t, applyShipped(c, now))
		require.NoError(t, applyDelivery(c, now))

		assert.ErrorIs(t, applyCompletion(c, rating, now), ErrInvalidRating, "rating %d", rating)
		assert.Equal(t, models.CollabStatusWaitingContent, c.Status)
		assert.Nil(t, c.PointsEarned)
	}
}

func TestPointsFormula(t *testing.T) {
	assert.Equal(t, int64(150), pointsForRating(1))
	assert.Equal(t, int64(200), pointsForRating(2))
	assert.Equal(t, int64(300), pointsForRating(4))
	assert.Equal(t, int64(350), pointsForRating(5))
}

func TestSubmitContentFromEarlierStates(t *testing.T) {
	now := time.Now()

	// Content may arrive before the box does.
	pending := newPendingCollab()
	require.NoError(t, applyContent(pending, "https://x/1", now))
	assert.Equal(t, models.CollabStatusWaitingContent, pending.Status)

	shipped := newPendingCollab()
	require.NoError(t, applyShipped(shipped, now))
	require.NoError(t, applyContent(shipped, "https://x/1", now))
	assert.Equal(t, models.CollabStatusWaitingContent, shipped.Status)
}

func TestShipRequiresPending(t *testing.T) {
	c := newPendingCollab()
	now := time.Now()
	require.NoError(t, applyShipped(c, now))

	assert.ErrorIs(t, applyShipped(c, now), ErrInvalidTransition)

	// Delivery requires shipped first.
	fresh := newPendingCollab()
	assert.ErrorIs(t, applyDelivery(fresh, now), ErrInvalidTransition)
}

func TestDeliveredAliasBehavesAsWaitingContent(t *testing.T) {
	now := time.Now()

	c := newPendingCollab()
	c.Status = models.CollabStatusDelivered

	assert.Equal(t, models.CollabStatusWaitingContent, c.Status.Normalize())
	assert.True(t, c.IsActive())

	require.NoError(t, applyCompletion(c, 3, now))
	assert.Equal(t, models.CollabStatusCompleted, c.Status)
}

func TestDeadlineFixedAtCreation(t *testing.T) {
	tier := models.TierByID("beginner")
	require.NotNil(t, tier)
	require.Equal(t, 14, tier.DeadlineDays)

	now := time.Now()
	deadline := deadlineFor(tier, now, nil)
	assert.Equal(t, now.AddDate(0, 0, 14), deadline)

	override := now.AddDate(0, 0, 3)
	assert.Equal(t, override, deadlineFor(tier, now, &override))
}

func TestBeginnerCheckoutToCompletion(t *testing.T) {
	creator := &models.Creator{ID: "u1", TierID: "beginner"}
	max := MaxAllowed(creator)
	require.Equal(t, 4, max)

	sel := &Selection{}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, sel.Add(id, max))
	}
	assert.ErrorIs(t, sel.Add("p5", max), ErrLimitReached)

	tier := models.TierByID(creator.TierID)
	now := time.Now()
	c := &models.Collaboration{
		CreatorID:  creator.ID,
		ProductIDs: append([]string(nil), sel.ProductIDs...),
		Status:     models.CollabStatusPending,
		Deadline:   deadlineFor(tier, now, nil),
		CreatedAt:  now,
	}
	sel.Clear()

	require.NoError(t, applyShipped(c, now))
	require.NoError(t, applyDelivery(c, now))
	require.NoError(t, applyContent(c, "https://x/1", now))
	require.NoError(t, applyCompletion(c, 4, now))

	assert.Equal(t, models.CollabStatusCompleted, c.Status)
	assert.Equal(t, int64(300), *c.PointsEarned)
	assert.Len(t, c.ProductIDs, 4)
}

func TestOverdueIsReadSideOnly(t *testing.T) {
	c := newPendingCollab()
	now := time.Now()
	require.NoError(t, applyShipped(c, now))
	require.NoError(t, applyDelivery(c, now))

	past := c.Deadline.Add(time.Hour)
	assert.True(t, c.IsOverdue(past))
	assert.Equal(t, models.CollabStatusWaitingContent, c.Status, "overdue never changes status")

	// A late completion still works and still pays out.
	require.NoError(t, applyCompletion(c, 2, past))
	assert.Equal(t, int64(200), *c.PointsEarned)
	assert.False(t, c.IsOverdue(past), "completed collaborations are never overdue")
}
