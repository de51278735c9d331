package model

import "time"

// Document holds the attributes every stored record shares. The store keys
// records by ID and filters them by UserID.
type Document struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Document) Doc() *Document { return d }
