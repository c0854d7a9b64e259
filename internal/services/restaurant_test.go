package services

import (
	"context"
	"testing"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRestaurantDetail(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	user := createUser(t, f.db, "alice")

	for _, image := range []string{"main.jpg", "extra1.jpg", "extra2.jpg"} {
		require.NoError(t, f.db.Create(&models.Photo{
			TargetType: string(models.TargetRestaurant),
			TargetID:   f.pasta.ID,
			Image:      image,
		}).Error)
	}
	_, err := NewReviewService(f.db).SubmitReview(ctx, viewerFor(user), restaurantTarget(f.pasta), SubmitReviewRequest{Rating: intPtr(3)})
	require.NoError(t, err)
	_, err = NewInteractionService(f.db).ToggleBookmark(ctx, viewerFor(user), f.pasta.ID)
	require.NoError(t, err)

	detail, err := f.service.GetRestaurant(ctx, viewerFor(user), f.pasta.ID)
	require.NoError(t, err)

	assert.Equal(t, "Pasta Paradise", detail.Restaurant.Name)
	assert.InDelta(t, 4.0, detail.Restaurant.AvgRating, 1e-9)
	assert.True(t, detail.Restaurant.IsBookmarked)
	assert.False(t, detail.Restaurant.IsVisited)
	require.NotNil(t, detail.MainPhoto)
	assert.Equal(t, "main.jpg", detail.MainPhoto.Image)
	require.Len(t, detail.ExtraPhotos, 2)
	assert.Equal(t, "extra1.jpg", detail.ExtraPhotos[0].Image)
	require.Len(t, detail.MenuItems, 1)
	assert.Equal(t, "Penne Arrabbiata", detail.MenuItems[0].Name)
	assert.Len(t, detail.LatestReviews, 3)
	require.NotNil(t, detail.ViewerReview)
	assert.Equal(t, 3, detail.ViewerReview.Rating)

	anonymous, err := f.service.GetRestaurant(ctx, types.Anonymous, f.pasta.ID)
	require.NoError(t, err)
	assert.False(t, anonymous.Restaurant.IsBookmarked)
	assert.Nil(t, anonymous.ViewerReview)

	_, err = f.service.GetRestaurant(ctx, types.Anonymous, 9999)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestGetRestaurantWithoutPhotos(t *testing.T) {
	f := newListingFixture(t)

	detail, err := f.service.GetRestaurant(context.Background(), types.Anonymous, f.curry.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.MainPhoto)
	assert.Empty(t, detail.ExtraPhotos)
	assert.Empty(t, detail.MenuItems)
}

func TestGetMenuItemRelatedItems(t *testing.T) {
	db := setupTestDB(t)
	service := NewRestaurantService(db, NewReviewService(db))
	italian := createCuisine(t, db, "Italian")
	dessert := createCuisine(t, db, "Dessert")
	pasta := createRestaurant(t, db, models.Restaurant{Name: "Pasta Paradise", CostForTwo: 50})
	other := createRestaurant(t, db, models.Restaurant{Name: "Trattoria", CostForTwo: 70})

	penne := createMenuItem(t, db, models.MenuItem{RestaurantID: pasta.ID, CuisineID: &italian.ID, Name: "Penne", Price: 12})
	createMenuItem(t, db, models.MenuItem{RestaurantID: pasta.ID, CuisineID: &italian.ID, Name: "Lasagne", Price: 14})
	createMenuItem(t, db, models.MenuItem{RestaurantID: pasta.ID, CuisineID: &dessert.ID, Name: "Tiramisu", Price: 6})
	createMenuItem(t, db, models.MenuItem{RestaurantID: other.ID, CuisineID: &italian.ID, Name: "Gnocchi", Price: 13})
	addRatings(t, db, models.Target{Kind: models.TargetMenuItem, ID: penne.ID}, 4, 5)
	require.NoError(t, db.Create(&models.Photo{
		TargetType: string(models.TargetMenuItem),
		TargetID:   penne.ID,
		Image:      "penne.jpg",
	}).Error)

	detail, err := service.GetMenuItem(context.Background(), types.Anonymous, penne.ID)
	require.NoError(t, err)

	assert.Equal(t, "Penne", detail.MenuItem.Name)
	assert.InDelta(t, 4.5, detail.MenuItem.AvgRating, 1e-9)
	require.NotNil(t, detail.MenuItem.Restaurant)
	assert.Equal(t, "Pasta Paradise", detail.MenuItem.Restaurant.Name)
	require.NotNil(t, detail.MenuItem.Cuisine)
	assert.Equal(t, "Italian", detail.MenuItem.Cuisine.Name)
	require.NotNil(t, detail.MenuPhoto)
	assert.Equal(t, "penne.jpg", detail.MenuPhoto.Image)
	require.Len(t, detail.RelatedItems, 1)
	assert.Equal(t, "Lasagne", detail.RelatedItems[0].Name)
	assert.Len(t, detail.LatestReviews, 2)

	_, err = service.GetMenuItem(context.Background(), types.Anonymous, 9999)
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestListCuisinesOrderedByName(t *testing.T) {
	db := setupTestDB(t)
	service := NewRestaurantService(db, NewReviewService(db))
	createCuisine(t, db, "Thai")
	createCuisine(t, db, "Italian")

	cuisines, err := service.ListCuisines(context.Background())
	require.NoError(t, err)
	require.Len(t, cuisines, 2)
	assert.Equal(t, "Italian", cuisines[0].Name)
}

func TestDeleteRestaurantRemovesAttachedContent(t *testing.T) {
	db := setupTestDB(t)
	pasta := createRestaurant(t, db, models.Restaurant{Name: "Pasta Paradise", CostForTwo: 50})
	taco := createRestaurant(t, db, models.Restaurant{Name: "Taco Time", CostForTwo: 30})
	penne := createMenuItem(t, db, models.MenuItem{RestaurantID: pasta.ID, Name: "Penne", Price: 12})
	itemTarget := models.Target{Kind: models.TargetMenuItem, ID: penne.ID}

	addRatings(t, db, restaurantTarget(pasta), 5)
	addRatings(t, db, itemTarget, 4)
	addRatings(t, db, restaurantTarget(taco), 2)
	for _, target := range []models.Target{restaurantTarget(pasta), itemTarget, restaurantTarget(taco)} {
		require.NoError(t, db.Create(&models.Photo{TargetType: string(target.Kind), TargetID: target.ID, Image: "x.jpg"}).Error)
	}
	user := createUser(t, db, "alice")
	require.NoError(t, db.Create(&models.Bookmark{UserID: user.ID, RestaurantID: pasta.ID}).Error)

	require.NoError(t, db.Delete(&pasta).Error)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.Equal(t, int64(1), count(&models.Review{}))
	assert.Equal(t, int64(1), count(&models.Photo{}))
	assert.Zero(t, count(&models.MenuItem{}))
	assert.Zero(t, count(&models.Bookmark{}))
}
