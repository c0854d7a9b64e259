package services

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"gorm.io/gorm"
)

// RestaurantFilter holds the optional listing filters. Zero values and nil
// pointers impose no constraint.
type RestaurantFilter struct {
	Name          string
	Cuisines      []uint
	MenuItem      string
	City          string
	CostForTwoMin *float64
	CostForTwoMax *float64
	VegType       models.VegType
	Spotlight     *bool
	MinRating     *float64
	Ordering      SortKey
}

// ParseRestaurantFilter reads the filter from query parameters. Unknown
// keys are ignored and empty values count as absent; every malformed value
// is reported under its parameter name.
func ParseRestaurantFilter(values url.Values) (RestaurantFilter, error) {
	var (
		f    RestaurantFilter
		errs = ValidationErrors{}
	)

	f.Name = strings.TrimSpace(values.Get("name"))
	f.MenuItem = strings.TrimSpace(values.Get("menu_item"))
	f.City = strings.TrimSpace(values.Get("city"))

	for _, raw := range values["cuisines"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				errs.add("cuisines", "Select a valid cuisine.")
				continue
			}
			f.Cuisines = append(f.Cuisines, uint(id))
		}
	}

	f.CostForTwoMin = parseNumber(values, "cost_for_two_min", errs)
	f.CostForTwoMax = parseNumber(values, "cost_for_two_max", errs)
	f.MinRating = parseNumber(values, "min_rating", errs)

	if raw := strings.TrimSpace(values.Get("veg_type")); raw != "" {
		f.VegType = models.VegType(raw)
		if !f.VegType.Valid() {
			errs.add("veg_type", "Select a valid choice. "+raw+" is not one of the available choices.")
		}
	}

	if raw := strings.TrimSpace(values.Get("spotlight")); raw != "" {
		spotlight, err := strconv.ParseBool(raw)
		if err != nil {
			errs.add("spotlight", "Enter true or false.")
		} else {
			f.Spotlight = &spotlight
		}
	}

	if raw := strings.TrimSpace(values.Get("ordering")); raw != "" {
		f.Ordering = SortKey(raw)
		if !f.Ordering.Valid() {
			errs.add("ordering", "Select a valid choice. "+raw+" is not one of the available choices.")
		}
	}

	return f, errs.orNil()
}

func parseNumber(values url.Values, key string, errs ValidationErrors) *float64 {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		errs.add(key, "Enter a number.")
		return nil
	}
	return &n
}

func containsPattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}

func where(query string, args ...interface{}) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// Apply adds every present filter to q. min_rating and rating orderings
// need q to carry the average rating annotation.
func (f RestaurantFilter) Apply(q *ListingQuery) error {
	if f.Name != "" {
		q.Where(where(`LOWER(restaurants.name) LIKE ? ESCAPE '\'`, containsPattern(f.Name)))
	}
	if len(f.Cuisines) > 0 {
		q.Where(where("restaurants.id IN (SELECT restaurant_cuisines.restaurant_id FROM restaurant_cuisines WHERE restaurant_cuisines.cuisine_id IN ?)", f.Cuisines))
	}
	if f.MenuItem != "" {
		q.Where(where(`restaurants.id IN (SELECT menu_items.restaurant_id FROM menu_items WHERE LOWER(menu_items.name) LIKE ? ESCAPE '\')`, containsPattern(f.MenuItem)))
	}
	if f.City != "" {
		q.Where(where(`LOWER(restaurants.city) LIKE ? ESCAPE '\'`, containsPattern(f.City)))
	}
	if f.CostForTwoMin != nil {
		q.Where(where("restaurants.cost_for_two >= ?", *f.CostForTwoMin))
	}
	if f.CostForTwoMax != nil {
		q.Where(where("restaurants.cost_for_two <= ?", *f.CostForTwoMax))
	}
	if f.VegType != "" {
		if !f.VegType.Valid() {
			return ValidationErrors{"veg_type": "Select a valid choice."}
		}
		q.Where(where("restaurants.veg_type = ?", string(f.VegType)))
	}
	if f.Spotlight != nil {
		q.Where(where("restaurants.spotlight = ?", *f.Spotlight))
	}
	if f.MinRating != nil {
		if err := q.MinRating(*f.MinRating); err != nil {
			return err
		}
	}
	return q.OrderBy(f.Ordering)
}
