package cache

// Key names one cache slot. The set is closed: every slot corresponds to
// one generated artifact of the active document, and a new upload
// invalidates all of them together.
type Key string

// The cache key registry. One slot per feature.
const (
	KeyChatHistory   Key = "chat_history"
	KeyFlashcards    Key = "flashcards"
	KeyQuiz          Key = "quiz"
	KeySummary       Key = "summary"
	KeyQuestionPaper Key = "question_paper"
	KeyMindmap       Key = "mindmap"
	KeyPodcast       Key = "podcast"
	KeyDocument      Key = "document"
)

// DefaultNamespace is the product prefix joined to every slot name to form
// the storage key, keeping cache entries apart from unrelated data in a
// shared storage medium.
const DefaultNamespace = "eduseva"

// Registry returns every registered cache key. Clear iterates this list,
// so adding a slot here is all it takes to include it in full invalidation.
func Registry() []Key {
	return []Key{
		KeyChatHistory,
		KeyFlashcards,
		KeyQuiz,
		KeySummary,
		KeyQuestionPaper,
		KeyMindmap,
		KeyPodcast,
		KeyDocument,
	}
}
