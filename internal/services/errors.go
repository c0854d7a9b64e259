package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrTargetNotFound     = errors.New("review or photo target not found")
	ErrAccessDenied       = errors.New("authentication required")
	ErrRatingNotAnnotated = errors.New("average rating is not part of this query")
	ErrStorageUnavailable = errors.New("photo storage is not configured")
	ErrDatabaseQuery      = errors.New("database query failed")
)

// ValidationErrors maps a field name to a message describing why its value
// was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

// orNil keeps a nil interface when nothing was recorded.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
