package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const reviewTimeLayout = "2006-01-02 15:04:05"

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type SubmitReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewResponse struct {
	ID        uint              `json:"id"`
	UserID    uint              `json:"user_id"`
	Target    models.TargetKind `json:"target_type"`
	TargetID  uint              `json:"target_id"`
	Rating    int               `json:"rating"`
	Comment   string            `json:"comment"`
	UserName  string            `json:"user_name"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

// ReviewResult reports the stored review and whether the submission
// created it or replaced an earlier one.
type ReviewResult struct {
	Review  ReviewResponse `json:"review"`
	Created bool           `json:"created"`
}

type ReviewPage struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Pages   int              `json:"pages"`
}

// SubmitReview creates the viewer's review of target or overwrites the
// rating and comment of the existing one.
func (s *ReviewService) SubmitReview(ctx context.Context, viewer types.Viewer, target models.Target, req SubmitReviewRequest) (*ReviewResult, error) {
	if viewer.IsAnonymous() {
		return nil, ErrAccessDenied
	}

	if req.Rating == nil {
		return nil, ValidationErrors{"rating": "This field is required."}
	}
	if !utils.IsValidRating(*req.Rating) {
		return nil, ValidationErrors{"rating": "Rating must be between 1 and 5."}
	}

	review := models.Review{
		UserID:     viewer.UserID,
		TargetType: string(target.Kind),
		TargetID:   target.ID,
		Rating:     *req.Rating,
		Comment:    utils.SanitizeString(req.Comment),
	}

	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTarget(tx, target); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND target_type = ? AND target_id = ?", review.UserID, review.TargetType, review.TargetID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("%w: failed to look up review: %v", ErrDatabaseQuery, err)
		}
		created = existing == 0

		return upsertReview(tx, &review)
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.findReview(ctx, viewer.UserID, target)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: review vanished after upsert", ErrDatabaseQuery)
	}
	return &ReviewResult{Review: toReviewResponse(viewer, *stored), Created: created}, nil
}

// upsertReview writes review in a single statement keyed on
// (user_id, target_type, target_id), so concurrent submissions by the same
// user leave one row holding the last rating.
func upsertReview(tx *gorm.DB, review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(review).Error
	if err != nil {
		return fmt.Errorf("%w: failed to save review: %v", ErrDatabaseQuery, err)
	}
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, viewer types.Viewer, target models.Target, page Pagination) (*ReviewPage, error) {
	page.Normalize()

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	if err := ensureTarget(s.db.WithContext(ctx), target); err != nil {
		return nil, err
	}

	var total int64
	if err := s.targetReviews(ctx, target).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to count reviews: %v", ErrDatabaseQuery, err)
	}

	reviews, err := s.fetchReviews(ctx, viewer, target, page.offset(), page.Limit)
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Reviews: reviews,
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
		Pages:   page.pages(total),
	}, nil
}

// LatestReviews returns the newest limit reviews of target.
func (s *ReviewService) LatestReviews(ctx context.Context, viewer types.Viewer, target models.Target, limit int) ([]ReviewResponse, error) {
	return s.fetchReviews(ctx, viewer, target, 0, limit)
}

// ViewerReview returns the viewer's own review of target, nil when the
// viewer is anonymous or has not reviewed it.
func (s *ReviewService) ViewerReview(ctx context.Context, viewer types.Viewer, target models.Target) (*ReviewResponse, error) {
	if viewer.IsAnonymous() {
		return nil, nil
	}
	review, err := s.findReview(ctx, viewer.UserID, target)
	if err != nil || review == nil {
		return nil, err
	}
	response := toReviewResponse(viewer, *review)
	return &response, nil
}

func (s *ReviewService) targetReviews(ctx context.Context, target models.Target) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("target_type = ? AND target_id = ?", string(target.Kind), target.ID)
}

func (s *ReviewService) fetchReviews(ctx context.Context, viewer types.Viewer, target models.Target, offset, limit int) ([]ReviewResponse, error) {
	var reviews []models.Review
	if err := s.targetReviews(ctx, target).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to fetch reviews: %v", ErrDatabaseQuery, err)
	}

	response := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, toReviewResponse(viewer, review))
	}
	return response, nil
}

func (s *ReviewService) findReview(ctx context.Context, userID uint, target models.Target) (*models.Review, error) {
	var review models.Review
	err := s.targetReviews(ctx, target).
		Preload("User").
		Where("user_id = ?", userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch review: %v", ErrDatabaseQuery, err)
	}
	return &review, nil
}

func toReviewResponse(viewer types.Viewer, review models.Review) ReviewResponse {
	userName := "Anonymous"
	if review.User.ID != 0 {
		userName = review.User.DisplayName()
	}

	return ReviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		Target:    models.TargetKind(review.TargetType),
		TargetID:  review.TargetID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		UserName:  userName,
		CreatedAt: viewer.Local(review.CreatedAt).Format(reviewTimeLayout),
		UpdatedAt: viewer.Local(review.UpdatedAt).Format(reviewTimeLayout),
	}
}

// ensureTarget fails with ErrTargetNotFound unless target names an
// existing row of a registered kind.
func ensureTarget(db *gorm.DB, target models.Target) error {
	model := target.Kind.Model()
	if model == nil || target.ID == 0 {
		return ErrTargetNotFound
	}

	var count int64
	if err := db.Model(model).Where("id = ?", target.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: failed to look up target: %v", ErrDatabaseQuery, err)
	}
	if count == 0 {
		return ErrTargetNotFound
	}
	return nil
}
