package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*limit inside a 32-bit OFFSET.
	MaxPage         = math.MaxInt32 / MaxPageSize
	QueryTimeout    = 30 * time.Second
	latestReviews   = 3
)

type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize applies the default page size and caps oversized requests.
func (p *Pagination) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) pages(total int64) int {
	pages := int(total) / p.Limit
	if int(total)%p.Limit > 0 {
		pages++
	}
	return pages
}

type RestaurantService struct {
	db      *gorm.DB
	reviews *ReviewService
}

func NewRestaurantService(db *gorm.DB, reviews *ReviewService) *RestaurantService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &RestaurantService{
		db:      db,
		reviews: reviews,
	}
}

type RestaurantListResponse struct {
	*RestaurantPage
	Spotlight []models.Restaurant `json:"spotlight_restaurants"`
}

type RestaurantDetail struct {
	Restaurant    models.Restaurant `json:"restaurant"`
	MainPhoto     *models.Photo     `json:"main_photo"`
	ExtraPhotos   []models.Photo    `json:"extra_photos"`
	MenuItems     []models.MenuItem `json:"menu_items"`
	LatestReviews []ReviewResponse  `json:"latest_reviews"`
	ViewerReview  *ReviewResponse   `json:"viewer_review,omitempty"`
}

type MenuItemDetail struct {
	MenuItem      models.MenuItem   `json:"menu_item"`
	MenuPhoto     *models.Photo     `json:"menu_photo"`
	RelatedItems  []models.MenuItem `json:"related_items"`
	LatestReviews []ReviewResponse  `json:"latest_reviews"`
	ViewerReview  *ReviewResponse   `json:"viewer_review,omitempty"`
}

// ListRestaurants returns the filtered, ordered listing annotated with the
// average rating and the viewer's bookmark and visited flags.
func (s *RestaurantService) ListRestaurants(ctx context.Context, viewer types.Viewer, filter RestaurantFilter, page Pagination) (*RestaurantListResponse, error) {
	q := NewListingQuery().WithAverageRating().WithViewerFlags(viewer)
	if err := filter.Apply(q); err != nil {
		return nil, err
	}

	result, err := runListing(ctx, s.db, q, page)
	if err != nil {
		return nil, err
	}

	spotlight := []models.Restaurant{}
	for _, restaurant := range result.Restaurants {
		if restaurant.Spotlight {
			spotlight = append(spotlight, restaurant)
		}
	}

	return &RestaurantListResponse{RestaurantPage: result, Spotlight: spotlight}, nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, viewer types.Viewer, id uint) (*RestaurantDetail, error) {
	if id == 0 {
		return nil, ErrRestaurantNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	q := NewListingQuery().WithAverageRating().WithViewerFlags(viewer).
		Where(where("restaurants.id = ?", id))

	var restaurant models.Restaurant
	if err := q.Build(s.db.WithContext(ctx)).
		Preload("Cuisines", func(db *gorm.DB) *gorm.DB { return db.Order("cuisines.name") }).
		First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch restaurant: %v", ErrDatabaseQuery, err)
	}

	photos, err := loadPhotos(ctx, s.db, models.TargetRestaurant, []uint{restaurant.ID})
	if err != nil {
		return nil, err
	}

	menuItems, err := s.menuItems(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("menu_items.restaurant_id = ?", restaurant.ID)
	})
	if err != nil {
		return nil, err
	}

	detail := &RestaurantDetail{
		Restaurant:  restaurant,
		ExtraPhotos: []models.Photo{},
		MenuItems:   menuItems,
	}
	if own := photos[restaurant.ID]; len(own) > 0 {
		detail.MainPhoto = &own[0]
		detail.ExtraPhotos = own[1:]
	}

	target := models.Target{Kind: models.TargetRestaurant, ID: restaurant.ID}
	if detail.LatestReviews, detail.ViewerReview, err = s.reviewContext(ctx, viewer, target); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *RestaurantService) GetMenuItem(ctx context.Context, viewer types.Viewer, id uint) (*MenuItemDetail, error) {
	if id == 0 {
		return nil, ErrMenuItemNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	items, err := s.menuItems(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("menu_items.id = ?", id).Preload("Restaurant").Preload("Cuisine")
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrMenuItemNotFound
	}
	item := items[0]

	related, err := s.menuItems(ctx, func(db *gorm.DB) *gorm.DB {
		db = db.Where("menu_items.restaurant_id = ? AND menu_items.id <> ?", item.RestaurantID, item.ID)
		if item.CuisineID == nil {
			return db.Where("menu_items.cuisine_id IS NULL")
		}
		return db.Where("menu_items.cuisine_id = ?", *item.CuisineID)
	})
	if err != nil {
		return nil, err
	}

	detail := &MenuItemDetail{
		MenuItem:     item,
		RelatedItems: related,
	}
	if len(item.Photos) > 0 {
		detail.MenuPhoto = &item.Photos[0]
	}

	target := models.Target{Kind: models.TargetMenuItem, ID: item.ID}
	if detail.LatestReviews, detail.ViewerReview, err = s.reviewContext(ctx, viewer, target); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *RestaurantService) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	cuisines := make([]models.Cuisine, 0)
	if err := s.db.WithContext(ctx).Order("name").Find(&cuisines).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch cuisines: %v", ErrDatabaseQuery, err)
	}
	return cuisines, nil
}

// menuItems fetches menu items narrowed by scope with their average rating
// and photos.
func (s *RestaurantService) menuItems(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0)
	query := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Select("menu_items.*, " + averageRatingExpr(models.TargetMenuItem, "menu_items") + " AS avg_rating").
		Order("menu_items.name ASC").
		Order("menu_items.id ASC")
	if err := scope(query).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch menu items: %v", ErrDatabaseQuery, err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	photos, err := loadPhotos(ctx, s.db, models.TargetMenuItem, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Photos = photos[items[i].ID]
	}
	return items, nil
}

func (s *RestaurantService) reviewContext(ctx context.Context, viewer types.Viewer, target models.Target) ([]ReviewResponse, *ReviewResponse, error) {
	latest, err := s.reviews.LatestReviews(ctx, viewer, target, latestReviews)
	if err != nil {
		return nil, nil, err
	}
	own, err := s.reviews.ViewerReview(ctx, viewer, target)
	if err != nil {
		return nil, nil, err
	}
	return latest, own, nil
}

// loadPhotos groups the photos of the given targets by target id, oldest
// first.
func loadPhotos(ctx context.Context, db *gorm.DB, kind models.TargetKind, ids []uint) (map[uint][]models.Photo, error) {
	grouped := make(map[uint][]models.Photo, len(ids))
	if len(ids) == 0 {
		return grouped, nil
	}

	var photos []models.Photo
	if err := db.WithContext(ctx).
		Where("target_type = ? AND target_id IN ?", string(kind), ids).
		Order("id ASC").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to load photos: %v", err)
	}

	for _, photo := range photos {
		grouped[photo.TargetID] = append(grouped[photo.TargetID], photo)
	}
	return grouped, nil
}

func attachRestaurantPhotos(ctx context.Context, db *gorm.DB, restaurants []models.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	ids := make([]uint, len(restaurants))
	for i, restaurant := range restaurants {
		ids[i] = restaurant.ID
	}
	photos, err := loadPhotos(ctx, db, models.TargetRestaurant, ids)
	if err != nil {
		return err
	}
	for i := range restaurants {
		restaurants[i].Photos = photos[restaurants[i].ID]
	}
	return nil
}
