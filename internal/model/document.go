package model

import "time"

// Document describes the currently active uploaded document.
// Every cached artifact is implicitly scoped to it; a new upload
// replaces it and invalidates everything derived from the old one.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Pages      int       `json:"pages,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}
