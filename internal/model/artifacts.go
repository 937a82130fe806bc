package model

// Flashcard is one question/answer study card.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Mindmap is a generated concept tree for the active document.
type Mindmap struct {
	Root MindmapNode `json:"root"`
}

// MindmapNode is one concept with its sub-concepts.
type MindmapNode struct {
	Label    string        `json:"label"`
	Children []MindmapNode `json:"children,omitempty"`
}

// Podcast is a generated audio discussion of the active document.
// AudioURL points at the upstream-hosted audio and requires the
// session token to fetch.
type Podcast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Script      string `json:"script,omitempty"`
	AudioURL    string `json:"audio_url"`
	DurationSec int    `json:"duration_seconds,omitempty"`
}
