package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		assert.Equal(t, want, IsValidRating(rating), "rating %d", rating)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("pasta.lover+1"))
	assert.False(t, IsValidUsername(""))
	assert.False(t, IsValidUsername("has space"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("user1@example.com"))
	assert.False(t, IsValidEmail("user1@example"))
}
