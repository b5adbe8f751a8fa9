package model

import "github.com/google/uuid"

// Item is a to-do entry shown by the todo view.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// NewItem returns a pending item with a fresh ID.
func NewItem(title string) Item {
	return Item{ID: uuid.NewString(), Title: title}
}
