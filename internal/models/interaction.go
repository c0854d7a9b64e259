package models

import "time"

type Bookmark struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_bookmarks_user_restaurant"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_bookmarks_user_restaurant;index"`
	CreatedAt    time.Time `json:"created_at"`

	User       User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Restaurant Restaurant `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

type Visited struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_visited_user_restaurant"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;uniqueIndex:idx_visited_user_restaurant;index"`
	VisitedOn    time.Time `json:"visited_on" gorm:"autoCreateTime"`

	User       User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Restaurant Restaurant `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

func (Visited) TableName() string {
	return "visited"
}
