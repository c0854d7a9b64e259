package services

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/princeprakhar/restaurant-directory/internal/database"
	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCuisine(t *testing.T, db *gorm.DB, name string) models.Cuisine {
	t.Helper()
	cuisine := models.Cuisine{Name: name}
	require.NoError(t, db.Create(&cuisine).Error)
	return cuisine
}

func createRestaurant(t *testing.T, db *gorm.DB, r models.Restaurant) models.Restaurant {
	t.Helper()
	if r.City == "" {
		r.City = "Pune"
	}
	if r.Address == "" {
		r.Address = "1 Main Street"
	}
	if r.VegType == "" {
		r.VegType = models.VegTypeNonVeg
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func createMenuItem(t *testing.T, db *gorm.DB, item models.MenuItem) models.MenuItem {
	t.Helper()
	require.NoError(t, db.Create(&item).Error)
	return item
}

// addRatings stores one review per rating, each from a fresh user.
func addRatings(t *testing.T, db *gorm.DB, target models.Target, ratings ...int) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	for i, rating := range ratings {
		user := createUser(t, db, fmt.Sprintf("rater%d", count+int64(i)))
		require.NoError(t, db.Create(&models.Review{
			UserID:     user.ID,
			TargetType: string(target.Kind),
			TargetID:   target.ID,
			Rating:     rating,
		}).Error)
	}
}

func restaurantTarget(r models.Restaurant) models.Target {
	return models.Target{Kind: models.TargetRestaurant, ID: r.ID}
}

func viewerFor(user models.User) types.Viewer {
	return types.NewViewer(user.ID, nil)
}

func names(restaurants []models.Restaurant) []string {
	out := make([]string, len(restaurants))
	for i, r := range restaurants {
		out[i] = r.Name
	}
	return out
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func timeFixture() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}
