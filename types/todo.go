package types

import "time"

// Todo represents a to-do item owned by a single user.
type Todo struct {
	// ID is the unique identifier of the to-do item.
	ID int `json:"id" db:"id"`

	// UserID identifies the user who owns this item. Ownership is
	// assigned at creation and never changes.
	UserID int `json:"user_id" db:"user_id"`

	// Title is a short summary of the item.
	Title string `json:"title" db:"title"`

	// Description is free-form text describing the item.
	Description string `json:"description" db:"description"`

	// Completed reports whether the item is done. New items start false.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is the timestamp when the item was created.
	// It is assigned by the server and never updated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
