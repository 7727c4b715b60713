package database

import (
	"context"
	"testing"

	"food-reels-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryUserSetsReportChange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	user := models.NewUser("Asha", "asha@example.com", "hash")
	require.NoError(t, m.CreateUser(ctx, user))
	feedID := primitive.NewObjectID()

	changed, err := m.AddLikedReel(ctx, user.ID, feedID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = m.AddLikedReel(ctx, user.ID, feedID)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = m.RemoveLikedReel(ctx, user.ID, feedID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = m.RemoveLikedReel(ctx, user.ID, feedID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = m.AddFollowing(ctx, primitive.NewObjectID(), feedID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRejectsDuplicateEmails(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.CreateUser(ctx, models.NewUser("A", "a@example.com", "h")))
	assert.ErrorIs(t, m.CreateUser(ctx, models.NewUser("B", "a@example.com", "h")), ErrDuplicate)
}

func TestMemoryLikesNeverGoNegative(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	feed := &models.FoodFeed{Title: "t"}
	require.NoError(t, m.CreateFeed(ctx, feed))

	likes, err := m.IncrementLikes(ctx, feed.ID, -1)
	require.NoError(t, err)
	assert.Zero(t, likes)

	likes, err = m.IncrementLikes(ctx, feed.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes)

	_, err = m.IncrementLikes(ctx, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	feed := &models.FoodFeed{Title: "t", Steps: []string{"a"}}
	require.NoError(t, m.CreateFeed(ctx, feed))

	got, err := m.FindFeedByID(ctx, feed.ID)
	require.NoError(t, err)
	got.Steps[0] = "mutated"

	again, err := m.FindFeedByID(ctx, feed.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Steps[0])
}
