package models

import (
	"time"
)

// Review is one user's rating of a restaurant or menu item. At most one
// row exists per (user, target).
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_target"`
	TargetType string    `json:"target_type" gorm:"size:20;not null;uniqueIndex:idx_reviews_user_target;index:idx_reviews_target"`
	TargetID   uint      `json:"target_id" gorm:"not null;uniqueIndex:idx_reviews_user_target;index:idx_reviews_target"`
	Rating     int       `json:"rating" gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (r *Review) Target() Target {
	return Target{Kind: TargetKind(r.TargetType), ID: r.TargetID}
}

type Photo struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UploadedByID *uint     `json:"uploaded_by_id" gorm:"index"`
	TargetType   string    `json:"target_type" gorm:"size:20;not null;index:idx_photos_target"`
	TargetID     uint      `json:"target_id" gorm:"not null;index:idx_photos_target"`
	Image        string    `json:"image" gorm:"not null"`
	StorageKey   string    `json:"-"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"autoCreateTime"`

	UploadedBy *User `json:"-" gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL"`
}
