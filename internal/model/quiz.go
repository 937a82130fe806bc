package model

// Quiz difficulty levels accepted by the generation API.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz holds a generated set of multiple-choice questions.
// Correct answers never come down with the quiz; scoring happens
// server-side via quiz submission.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizResult is the server-scored outcome of a quiz submission.
type QuizResult struct {
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}

// QuestionResult is the per-question breakdown of a scored submission.
type QuestionResult struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}
