package models

import (
	"errors"
	"strings"
)

// TargetKind names the entity a Review or Photo is attached to.
type TargetKind string

const (
	TargetRestaurant TargetKind = "restaurant"
	TargetMenuItem   TargetKind = "menu_item"
)

var ErrUnknownTargetKind = errors.New("unknown target kind")

// targetModels maps each kind to the model holding its rows.
var targetModels = map[TargetKind]func() interface{}{
	TargetRestaurant: func() interface{} { return &Restaurant{} },
	TargetMenuItem:   func() interface{} { return &MenuItem{} },
}

// Target is a (kind, id) reference to a reviewable entity.
type Target struct {
	Kind TargetKind `json:"kind"`
	ID   uint       `json:"id"`
}

func ParseTargetKind(value string) (TargetKind, error) {
	kind := TargetKind(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := targetModels[kind]; !ok {
		return "", ErrUnknownTargetKind
	}
	return kind, nil
}

// Model returns an empty instance of the model backing the kind, or nil.
func (k TargetKind) Model() interface{} {
	newModel, ok := targetModels[k]
	if !ok {
		return nil
	}
	return newModel()
}
