package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/api/middleware"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview handles POST /:kind/:id/reviews.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "rating" {
			utils.SendFieldErrors(c, "Invalid request data", map[string]string{"rating": "Enter a whole number."})
			return
		}
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	result, err := h.reviewService.SubmitReview(c.Request.Context(), middleware.GetViewer(c), target, req)
	if err != nil {
		respondError(c, "Failed to submit review", err)
		return
	}

	if result.Created {
		utils.SendCreated(c, "Review created successfully", result)
		return
	}
	utils.SendSuccess(c, "Review updated successfully", result)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	target, ok := parseTarget(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListReviews(c.Request.Context(), middleware.GetViewer(c), target, parsePagination(c))
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}
