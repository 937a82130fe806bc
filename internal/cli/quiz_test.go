package cli

import (
	"bytes"
	"strings"
	"testing"

	"eduseva-cli/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDifficulty(t *testing.T) {
	for _, ok := range []string{"", "easy", "medium", "hard"} {
		assert.NoError(t, validateDifficulty(ok))
	}

	err := validateDifficulty("extreme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extreme")
}

func TestIsValidOption(t *testing.T) {
	tests := []struct {
		answer      string
		optionCount int
		want        bool
	}{
		{"A", 4, true},
		{"D", 4, true},
		{"E", 4, false},
		{"a", 4, false},
		{"", 4, false},
		{"AB", 4, false},
		{"A", 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidOption(tt.answer, tt.optionCount), "answer %q with %d options", tt.answer, tt.optionCount)
	}
}

func twoQuestionQuiz() model.Quiz {
	return model.Quiz{Questions: []model.QuizQuestion{
		{Question: "What is ATP?", Options: []string{"A sugar", "An energy carrier", "An enzyme"}},
		{Question: "Where does glycolysis happen?", Options: []string{"Nucleus", "Cytoplasm"}},
	}}
}

func TestCollectAnswers(t *testing.T) {
	var out bytes.Buffer
	answers, err := collectAnswers(strings.NewReader("b\nA\n"), &out, twoQuestionQuiz())

	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, answers)
	assert.Contains(t, out.String(), "1. What is ATP?")
	assert.Contains(t, out.String(), "2. Where does glycolysis happen?")
}

func TestCollectAnswersRejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	answers, err := collectAnswers(strings.NewReader("z\n\nC\nB\n"), &out, twoQuestionQuiz())

	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B"}, answers)
	assert.Contains(t, out.String(), "Pick one of A-C.")
}

func TestCollectAnswersAbandoned(t *testing.T) {
	var out bytes.Buffer
	_, err := collectAnswers(strings.NewReader("A\n"), &out, twoQuestionQuiz())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "abandoned at question 2")
}
