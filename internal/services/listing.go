package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"gorm.io/gorm"
)

// SortKey selects the ordering of a restaurant listing.
type SortKey string

const (
	SortDefault    SortKey = ""
	SortRatingAsc  SortKey = "rating"
	SortRatingDesc SortKey = "-rating"
	SortCostAsc    SortKey = "cost_for_two"
	SortCostDesc   SortKey = "-cost_for_two"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortDefault, SortRatingAsc, SortRatingDesc, SortCostAsc, SortCostDesc:
		return true
	}
	return false
}

func (k SortKey) needsRating() bool {
	return k == SortRatingAsc || k == SortRatingDesc
}

// Predicate narrows a restaurant query. Predicates only add WHERE
// conditions, so their order never changes the result set.
type Predicate func(db *gorm.DB) *gorm.DB

// averageRatingExpr is the mean review rating of a row in table, 0 when it
// has no reviews. kind is a registry constant, never user input.
func averageRatingExpr(kind models.TargetKind, table string) string {
	return fmt.Sprintf(
		"COALESCE((SELECT CAST(AVG(reviews.rating) AS FLOAT) FROM reviews WHERE reviews.target_type = '%s' AND reviews.target_id = %s.id), 0)",
		kind, table,
	)
}

var restaurantRatingExpr = averageRatingExpr(models.TargetRestaurant, "restaurants")

type annotation struct {
	expr  string
	alias string
	args  []interface{}
}

// ListingQuery accumulates the annotations, predicates and sort key of a
// restaurant listing and turns them into a single statement.
type ListingQuery struct {
	annotations []annotation
	predicates  []Predicate
	sort        SortKey
	hasRating   bool
}

func NewListingQuery() *ListingQuery {
	return &ListingQuery{}
}

// WithAverageRating selects avg_rating for every restaurant.
func (q *ListingQuery) WithAverageRating() *ListingQuery {
	if q.hasRating {
		return q
	}
	q.hasRating = true
	q.annotations = append(q.annotations, annotation{expr: restaurantRatingExpr, alias: "avg_rating"})
	return q
}

// WithViewerFlags selects is_bookmarked and is_visited for viewer. Both are
// constant false for an anonymous viewer.
func (q *ListingQuery) WithViewerFlags(viewer types.Viewer) *ListingQuery {
	if viewer.IsAnonymous() {
		q.annotations = append(q.annotations,
			annotation{expr: "FALSE", alias: "is_bookmarked"},
			annotation{expr: "FALSE", alias: "is_visited"},
		)
		return q
	}
	q.annotations = append(q.annotations,
		annotation{
			expr:  "EXISTS (SELECT 1 FROM bookmarks WHERE bookmarks.user_id = ? AND bookmarks.restaurant_id = restaurants.id)",
			alias: "is_bookmarked",
			args:  []interface{}{viewer.UserID},
		},
		annotation{
			expr:  "EXISTS (SELECT 1 FROM visited WHERE visited.user_id = ? AND visited.restaurant_id = restaurants.id)",
			alias: "is_visited",
			args:  []interface{}{viewer.UserID},
		},
	)
	return q
}

// HasAverageRating reports whether avg_rating is selected, which rating
// predicates and orderings depend on.
func (q *ListingQuery) HasAverageRating() bool {
	return q.hasRating
}

func (q *ListingQuery) Where(p Predicate) *ListingQuery {
	q.predicates = append(q.predicates, p)
	return q
}

// MinRating keeps restaurants whose average rating is at least value.
func (q *ListingQuery) MinRating(value float64) error {
	if !q.HasAverageRating() {
		return ErrRatingNotAnnotated
	}
	q.Where(func(db *gorm.DB) *gorm.DB {
		return db.Where(restaurantRatingExpr+" >= ?", value)
	})
	return nil
}

func (q *ListingQuery) OrderBy(key SortKey) error {
	if !key.Valid() {
		return ValidationErrors{"ordering": fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", key)}
	}
	if key.needsRating() && !q.HasAverageRating() {
		return ErrRatingNotAnnotated
	}
	q.sort = key
	return nil
}

// scope applies the predicates only; used for counting.
func (q *ListingQuery) scope(db *gorm.DB) *gorm.DB {
	for _, p := range q.predicates {
		db = p(db)
	}
	return db
}

// Build returns the full select for db, ready for Find.
func (q *ListingQuery) Build(db *gorm.DB) *gorm.DB {
	columns := []string{"restaurants.*"}
	var args []interface{}
	for _, a := range q.annotations {
		columns = append(columns, a.expr+" AS "+a.alias)
		args = append(args, a.args...)
	}

	db = q.scope(db.Model(&models.Restaurant{}).Select(strings.Join(columns, ", "), args...))

	// restaurants.id breaks ties so equal keys come back in the same order.
	switch q.sort {
	case SortRatingAsc:
		db = db.Order("avg_rating ASC")
	case SortRatingDesc:
		db = db.Order("avg_rating DESC")
	case SortCostAsc:
		db = db.Order("restaurants.cost_for_two ASC")
	case SortCostDesc:
		db = db.Order("restaurants.cost_for_two DESC")
	default:
		db = db.Order("restaurants.name ASC")
	}
	return db.Order("restaurants.id ASC")
}

// RestaurantPage is one page of an annotated restaurant listing.
type RestaurantPage struct {
	Restaurants []models.Restaurant `json:"restaurants"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	Pages       int                 `json:"pages"`
}

// runListing counts and fetches one page of q, then loads cuisines and
// photos for the page in batch.
func runListing(ctx context.Context, db *gorm.DB, q *ListingQuery, page Pagination) (*RestaurantPage, error) {
	page.Normalize()

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var total int64
	if err := q.scope(db.WithContext(ctx).Model(&models.Restaurant{})).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count restaurants: %v", ErrDatabaseQuery, err)
	}

	result := &RestaurantPage{
		Restaurants: []models.Restaurant{},
		Total:       total,
		Page:        page.Page,
		Limit:       page.Limit,
		Pages:       page.pages(total),
	}
	if total == 0 {
		return result, nil
	}

	if err := q.Build(db.WithContext(ctx)).
		Preload("Cuisines", func(db *gorm.DB) *gorm.DB { return db.Order("cuisines.name") }).
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&result.Restaurants).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch restaurants: %v", ErrDatabaseQuery, err)
	}

	if err := attachRestaurantPhotos(ctx, db, result.Restaurants); err != nil {
		return nil, err
	}
	return result, nil
}
