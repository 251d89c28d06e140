package domain

import "time"

// Note is a free-form notepad entry. ID and CreatedAt are immutable after
// creation; the collection is kept sorted by CreatedAt descending.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
