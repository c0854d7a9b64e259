package models

import (
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetKind(t *testing.T) {
	kind, err := ParseTargetKind(" Menu_Item ")
	require.NoError(t, err)
	assert.Equal(t, TargetMenuItem, kind)
	assert.IsType(t, &MenuItem{}, kind.Model())
	assert.IsType(t, &Restaurant{}, TargetRestaurant.Model())

	_, err = ParseTargetKind("user")
	assert.ErrorIs(t, err, ErrUnknownTargetKind)
	assert.Nil(t, TargetKind("user").Model())
}

func TestVegTypeValid(t *testing.T) {
	for _, v := range []VegType{VegTypeVeg, VegTypeNonVeg, VegTypeVegan} {
		assert.True(t, v.Valid(), v)
	}
	assert.False(t, VegType("pescatarian").Valid())
	assert.False(t, VegType("").Valid())
}

func TestLoadTimezone(t *testing.T) {
	loc, err := LoadTimezone("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())

	for _, name := range []string{"", "Local", "Mars/Olympus"} {
		_, err := LoadTimezone(name)
		assert.ErrorIs(t, err, ErrInvalidTimezone, name)
	}
}

func TestUserPasswordAndDisplayName(t *testing.T) {
	user := User{Username: "alice", Password: "password123"}
	require.NoError(t, user.BeforeCreate(nil))

	assert.Equal(t, DefaultTimezone, user.Timezone)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, user.CheckPassword("password123"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.Equal(t, "alice", user.DisplayName())

	user.FirstName = "Alice"
	assert.Equal(t, "Alice", user.DisplayName())

	bad := User{Password: "password123", Timezone: "Nowhere/City"}
	assert.ErrorIs(t, bad.BeforeCreate(nil), ErrInvalidTimezone)
}
