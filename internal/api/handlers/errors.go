package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
)

const targetKindKey = "target_kind"

// respondError maps a service error onto the response envelope. Anything
// unrecognised is logged and reported as a 500 without its details.
func respondError(c *gin.Context, message string, err error) {
	var fields services.ValidationErrors
	switch {
	case errors.As(err, &fields):
		utils.SendFieldErrors(c, message, fields)
	case errors.Is(err, services.ErrAccessDenied),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		utils.SendError(c, http.StatusUnauthorized, message, err)
	case errors.Is(err, services.ErrRestaurantNotFound),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrTargetNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.SendNotFound(c, message, err)
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.SendError(c, http.StatusServiceUnavailable, message, err)
	default:
		logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err,
		}).Error(message)
		utils.SendInternalError(c, message, errors.New("internal server error"))
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.SendValidationError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// TargetKind tags a route group with the kind its :id parameter refers to.
func TargetKind(kind models.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(targetKindKey, string(kind))
		c.Next()
	}
}

// parseTarget reads the target of the nested review and photo routes.
func parseTarget(c *gin.Context) (models.Target, bool) {
	kind, err := models.ParseTargetKind(c.GetString(targetKindKey))
	if err != nil {
		utils.SendNotFound(c, "Unknown target type", err)
		return models.Target{}, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		return models.Target{}, false
	}
	return models.Target{Kind: kind, ID: id}, true
}

func parsePagination(c *gin.Context) services.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	p := services.Pagination{Page: page, Limit: limit}
	p.Normalize()
	return p
}
