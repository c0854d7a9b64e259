package services

import (
	"context"
	"fmt"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
)

type InteractionService struct {
	db *gorm.DB
}

func NewInteractionService(db *gorm.DB) *InteractionService {
	return &InteractionService{db: db}
}

// ToggleBookmark flips the viewer's bookmark on a restaurant.
func (s *InteractionService) ToggleBookmark(ctx context.Context, viewer types.Viewer, restaurantID uint) (ToggleResult, error) {
	return s.toggle(ctx, viewer, restaurantID, &models.Bookmark{UserID: viewer.UserID, RestaurantID: restaurantID})
}

// ToggleVisited flips the viewer's visited mark on a restaurant.
func (s *InteractionService) ToggleVisited(ctx context.Context, viewer types.Viewer, restaurantID uint) (ToggleResult, error) {
	return s.toggle(ctx, viewer, restaurantID, &models.Visited{UserID: viewer.UserID, RestaurantID: restaurantID})
}

// toggle deletes the (user, restaurant) row of row's table, or inserts it
// when nothing was deleted. A concurrent insert of the same pair is
// absorbed by the unique index.
func (s *InteractionService) toggle(ctx context.Context, viewer types.Viewer, restaurantID uint, row interface{}) (ToggleResult, error) {
	if viewer.IsAnonymous() {
		return "", ErrAccessDenied
	}

	var result ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: failed to look up restaurant: %v", ErrDatabaseQuery, err)
		}
		if count == 0 {
			return ErrRestaurantNotFound
		}

		deleted := tx.Where("user_id = ? AND restaurant_id = ?", viewer.UserID, restaurantID).Delete(row)
		if deleted.Error != nil {
			return fmt.Errorf("%w: failed to remove mark: %v", ErrDatabaseQuery, deleted.Error)
		}
		if deleted.RowsAffected > 0 {
			result = ToggleRemoved
			return nil
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return fmt.Errorf("%w: failed to add mark: %v", ErrDatabaseQuery, err)
		}
		result = ToggleAdded
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.WithFields(logrus.Fields{
		"user_id":       viewer.UserID,
		"restaurant_id": restaurantID,
		"result":        result,
	}).Debug("interaction toggled")
	return result, nil
}

// ListBookmarks returns the restaurants the viewer bookmarked, annotated
// like the main listing.
func (s *InteractionService) ListBookmarks(ctx context.Context, viewer types.Viewer, page Pagination) (*RestaurantPage, error) {
	return s.listMarked(ctx, viewer, "bookmarks", page)
}

func (s *InteractionService) ListVisited(ctx context.Context, viewer types.Viewer, page Pagination) (*RestaurantPage, error) {
	return s.listMarked(ctx, viewer, "visited", page)
}

func (s *InteractionService) listMarked(ctx context.Context, viewer types.Viewer, table string, page Pagination) (*RestaurantPage, error) {
	if viewer.IsAnonymous() {
		return nil, ErrAccessDenied
	}

	q := NewListingQuery().WithAverageRating().WithViewerFlags(viewer).
		Where(where("restaurants.id IN (SELECT restaurant_id FROM "+table+" WHERE user_id = ?)", viewer.UserID))
	return runListing(ctx, s.db, q, page)
}
