package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/api/middleware"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
)

type RestaurantHandler struct {
	restaurantService *services.RestaurantService
}

func NewRestaurantHandler(restaurantService *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantService: restaurantService}
}

func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	query := c.Request.URL.Query()
	filter, err := services.ParseRestaurantFilter(query)
	if err != nil {
		respondError(c, "Invalid filters", err)
		return
	}

	result, err := h.restaurantService.ListRestaurants(c.Request.Context(), middleware.GetViewer(c), filter, parsePagination(c))
	if err != nil {
		respondError(c, "Failed to fetch restaurants", err)
		return
	}

	utils.SendSuccess(c, "Restaurants retrieved successfully", result)
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.restaurantService.GetRestaurant(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, "Failed to fetch restaurant", err)
		return
	}

	utils.SendSuccess(c, "Restaurant retrieved successfully", detail)
}

func (h *RestaurantHandler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.restaurantService.GetMenuItem(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		respondError(c, "Failed to fetch menu item", err)
		return
	}

	utils.SendSuccess(c, "Menu item retrieved successfully", detail)
}

func (h *RestaurantHandler) ListCuisines(c *gin.Context) {
	cuisines, err := h.restaurantService.ListCuisines(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch cuisines", err)
		return
	}

	utils.SendSuccess(c, "Cuisines retrieved successfully", cuisines)
}
