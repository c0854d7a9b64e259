package services

import (
	"context"
	"testing"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleBookmark(t *testing.T) {
	db := setupTestDB(t)
	service := NewInteractionService(db)
	user := createUser(t, db, "alice")
	restaurant := createRestaurant(t, db, models.Restaurant{Name: "Taco Time", CostForTwo: 30})
	ctx := context.Background()

	countRows := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Bookmark{}).
			Where("user_id = ? AND restaurant_id = ?", user.ID, restaurant.ID).Count(&n).Error)
		return n
	}

	result, err := service.ToggleBookmark(ctx, viewerFor(user), restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleAdded, result)
	assert.Equal(t, int64(1), countRows())

	result, err = service.ToggleBookmark(ctx, viewerFor(user), restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleRemoved, result)
	assert.Equal(t, int64(0), countRows())

	result, err = service.ToggleBookmark(ctx, viewerFor(user), restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleAdded, result)
	assert.Equal(t, int64(1), countRows())
}

func TestToggleVisitedIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	service := NewInteractionService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	restaurant := createRestaurant(t, db, models.Restaurant{Name: "Curry Corner", CostForTwo: 40})
	ctx := context.Background()

	_, err := service.ToggleVisited(ctx, viewerFor(alice), restaurant.ID)
	require.NoError(t, err)
	result, err := service.ToggleVisited(ctx, viewerFor(bob), restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleAdded, result)

	var n int64
	require.NoError(t, db.Model(&models.Visited{}).Where("restaurant_id = ?", restaurant.ID).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestToggleRejectsAnonymousAndUnknownRestaurant(t *testing.T) {
	db := setupTestDB(t)
	service := NewInteractionService(db)
	user := createUser(t, db, "alice")
	restaurant := createRestaurant(t, db, models.Restaurant{Name: "Taco Time", CostForTwo: 30})
	ctx := context.Background()

	_, err := service.ToggleBookmark(ctx, types.Anonymous, restaurant.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = service.ToggleVisited(ctx, viewerFor(user), restaurant.ID+100)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Bookmark{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListBookmarksAndVisited(t *testing.T) {
	db := setupTestDB(t)
	service := NewInteractionService(db)
	user := createUser(t, db, "alice")
	pasta := createRestaurant(t, db, models.Restaurant{Name: "Pasta Paradise", CostForTwo: 50})
	taco := createRestaurant(t, db, models.Restaurant{Name: "Taco Time", CostForTwo: 30})
	ctx := context.Background()

	_, err := service.ToggleBookmark(ctx, viewerFor(user), taco.ID)
	require.NoError(t, err)
	_, err = service.ToggleVisited(ctx, viewerFor(user), pasta.ID)
	require.NoError(t, err)

	bookmarks, err := service.ListBookmarks(ctx, viewerFor(user), Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Taco Time"}, names(bookmarks.Restaurants))
	assert.True(t, bookmarks.Restaurants[0].IsBookmarked)
	assert.False(t, bookmarks.Restaurants[0].IsVisited)

	visited, err := service.ListVisited(ctx, viewerFor(user), Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasta Paradise"}, names(visited.Restaurants))
	assert.True(t, visited.Restaurants[0].IsVisited)

	_, err = service.ListBookmarks(ctx, types.Anonymous, Pagination{})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
