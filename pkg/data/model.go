package data

import (
	"time"

	"github.com/google/uuid"
)

// BookPair is a named registration of an original edition and its
// translation. It never stores reading position.
type BookPair struct {
	ID                 string
	Name               string
	OriginalLocation   string
	OriginalOffset     int
	TranslatedLocation string
	TranslatedOffset   int
	CreatedAt          time.Time
}

// NewBookPair creates a pair with a fresh ID.
func NewBookPair(name, originalLocation string, originalOffset int, translatedLocation string, translatedOffset int) *BookPair {
	return &BookPair{
		ID:                 uuid.NewString(),
		Name:               name,
		OriginalLocation:   originalLocation,
		OriginalOffset:     originalOffset,
		TranslatedLocation: translatedLocation,
		TranslatedOffset:   translatedOffset,
		CreatedAt:          time.Now().UTC(),
	}
}
