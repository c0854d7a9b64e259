package utils

import (
	"regexp"
	"strings"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidUsername accepts letters, digits and @/./+/-/_ up to 150 characters.
func IsValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func IsValidPassword(password string) bool {
	return len(password) >= 8
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
