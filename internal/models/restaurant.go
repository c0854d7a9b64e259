package models

import (
	"time"

	"gorm.io/gorm"
)

type VegType string

const (
	VegTypeVeg    VegType = "veg"
	VegTypeNonVeg VegType = "non_veg"
	VegTypeVegan  VegType = "vegan"
)

func (v VegType) Valid() bool {
	switch v {
	case VegTypeVeg, VegTypeNonVeg, VegTypeVegan:
		return true
	}
	return false
}

type Cuisine struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;size:100;not null"`
}

type Restaurant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Description string    `json:"description"`
	City        string    `json:"city" gorm:"size:100;not null"`
	Address     string    `json:"address" gorm:"not null"`
	CostForTwo  uint      `json:"cost_for_two" gorm:"not null"`
	VegType     VegType   `json:"veg_type" gorm:"size:10;not null"`
	IsOpen      bool      `json:"is_open" gorm:"default:true"`
	OpeningTime *string   `json:"opening_time,omitempty" gorm:"size:8"` // HH:MM:SS
	ClosingTime *string   `json:"closing_time,omitempty" gorm:"size:8"`
	Spotlight   bool      `json:"spotlight" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Computed per query, never stored.
	AvgRating    float64 `json:"avg_rating" gorm:"->;-:migration"`
	IsBookmarked bool    `json:"is_bookmarked" gorm:"->;-:migration"`
	IsVisited    bool    `json:"is_visited" gorm:"->;-:migration"`

	// Relations
	Cuisines  []Cuisine  `json:"cuisines" gorm:"many2many:restaurant_cuisines;constraint:OnDelete:CASCADE"`
	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Photos    []Photo    `json:"photos,omitempty" gorm:"-"`
}

type MenuItem struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	RestaurantID uint   `json:"restaurant_id" gorm:"not null;index"`
	CuisineID    *uint  `json:"cuisine_id" gorm:"index"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Description  string `json:"description"`
	Price        uint   `json:"price" gorm:"not null"`
	IsAvailable  bool   `json:"is_available" gorm:"default:true"`

	AvgRating float64 `json:"avg_rating" gorm:"->;-:migration"`

	Restaurant *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Cuisine    *Cuisine    `json:"cuisine,omitempty" gorm:"foreignKey:CuisineID;constraint:OnDelete:SET NULL"`
	Photos     []Photo     `json:"photos,omitempty" gorm:"-"`
}

// BeforeDelete removes reviews and photos attached to the restaurant and to
// its menu items; the menu items themselves go through the FK cascade.
func (r *Restaurant) BeforeDelete(tx *gorm.DB) error {
	if r.ID == 0 {
		return nil
	}
	menuItemIDs := tx.Model(&MenuItem{}).Select("id").Where("restaurant_id = ?", r.ID)
	for _, model := range []interface{}{&Review{}, &Photo{}} {
		if err := tx.Where("target_type = ? AND target_id = ?", string(TargetRestaurant), r.ID).Delete(model).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id IN (?)", string(TargetMenuItem), menuItemIDs).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *MenuItem) BeforeDelete(tx *gorm.DB) error {
	if m.ID == 0 {
		return nil
	}
	for _, model := range []interface{}{&Review{}, &Photo{}} {
		if err := tx.Where("target_type = ? AND target_id = ?", string(TargetMenuItem), m.ID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
