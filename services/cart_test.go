package services

import (
	"testing"

	"creator-loyalty-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionAddLimit(t *testing.T) {
	sel := &Selection{}

	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, sel.Add(id, 4))
	}
	assert.Len(t, sel.ProductIDs, 4)

	err := sel.Add("p5", 4)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Len(t, sel.ProductIDs, 4, "failed add leaves the selection unchanged")
}

func TestSelectionAddDuplicate(t *testing.T) {
	sel := &Selection{}
	require.NoError(t, sel.Add("p1", 4))

	err := sel.Add("p1", 4)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, []string{"p1"}, sel.ProductIDs)
}

func TestSelectionRoundTrip(t *testing.T) {
	sel := &Selection{}
	require.NoError(t, sel.Add("p1", 4))
	require.NoError(t, sel.Add("p2", 4))
	before := append([]string(nil), sel.ProductIDs...)

	require.NoError(t, sel.Add("p3", 4))
	sel.Remove("p3")

	assert.Equal(t, before, sel.ProductIDs, "add then remove restores the prior set exactly")
}

func TestSelectionRemoveAbsent(t *testing.T) {
	sel := &Selection{}
	require.NoError(t, sel.Add("p1", 4))

	sel.Remove("missing")
	assert.Equal(t, []string{"p1"}, sel.ProductIDs)
}

func TestSelectionPreservesInsertionOrder(t *testing.T) {
	sel := &Selection{}
	require.NoError(t, sel.Add("p2", 4))
	require.NoError(t, sel.Add("p1", 4))
	require.NoError(t, sel.Add("p3", 4))
	sel.Remove("p1")

	assert.Equal(t, []string{"p2", "p3"}, sel.ProductIDs)
}

func TestSelectionClear(t *testing.T) {
	sel := &Selection{}
	require.NoError(t, sel.Add("p1", 4))
	require.NoError(t, sel.Add("p2", 4))

	sel.Clear()
	assert.Empty(t, sel.ProductIDs)
}

func TestMaxAllowed(t *testing.T) {
	assert.Equal(t, 4, MaxAllowed(&models.Creator{TierID: "beginner"}))
	assert.Equal(t, 12, MaxAllowed(&models.Creator{TierID: "ambassador"}))
	assert.Equal(t, DefaultProductLimit, MaxAllowed(&models.Creator{TierID: "no-such-tier"}))
}
