package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/api/middleware"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
)

type InteractionHandler struct {
	interactionService *services.InteractionService
}

func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

func (h *InteractionHandler) ToggleBookmark(c *gin.Context) {
	h.toggle(c, "bookmark", h.interactionService.ToggleBookmark)
}

func (h *InteractionHandler) ToggleVisited(c *gin.Context) {
	h.toggle(c, "visited mark", h.interactionService.ToggleVisited)
}

func (h *InteractionHandler) toggle(c *gin.Context, what string, toggle func(ctx context.Context, viewer types.Viewer, restaurantID uint) (services.ToggleResult, error)) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := toggle(c.Request.Context(), middleware.GetViewer(c), restaurantID)
	if err != nil {
		respondError(c, "Failed to toggle "+what, err)
		return
	}

	utils.SendSuccess(c, "Restaurant "+what+" "+string(result), gin.H{"status": result})
}

func (h *InteractionHandler) ListBookmarks(c *gin.Context) {
	page, err := h.interactionService.ListBookmarks(c.Request.Context(), middleware.GetViewer(c), parsePagination(c))
	if err != nil {
		respondError(c, "Failed to fetch bookmarks", err)
		return
	}
	utils.SendSuccess(c, "Bookmarks retrieved successfully", page)
}

func (h *InteractionHandler) ListVisited(c *gin.Context) {
	page, err := h.interactionService.ListVisited(c.Request.Context(), middleware.GetViewer(c), parsePagination(c))
	if err != nil {
		respondError(c, "Failed to fetch visited restaurants", err)
		return
	}
	utils.SendSuccess(c, "Visited restaurants retrieved successfully", page)
}
