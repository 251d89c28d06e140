package dto

// NoteCreateRequest payload for new notes.
type NoteCreateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteUpdateRequest payload for editing an existing note.
type NoteUpdateRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CardOrderRequest carries a dashboard card ordering preference.
type CardOrderRequest struct {
	Order []string `json:"order"`
}
