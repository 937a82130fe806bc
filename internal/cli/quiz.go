package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"eduseva-cli/internal/model"

	"github.com/spf13/cobra"
)

func newQuizCmd(app *App) *cobra.Command {
	var (
		difficulty string
		questions  int
		regenerate bool
		take       bool
		export     string
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a quiz for the active document",
		Long: `Quiz generates multiple-choice questions for the active document.
With --take the quiz runs interactively and your answers are graded by
the API. Grading always goes to the server, even when the quiz itself
came from the cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLogin(); err != nil {
				return err
			}
			if err := app.requireDocument(ctx); err != nil {
				return err
			}
			if err := validateDifficulty(difficulty); err != nil {
				return err
			}

			app.Study.Quiz.Configure(difficulty, questions)

			var (
				quiz model.Quiz
				err  error
			)
			if regenerate {
				quiz, err = app.Study.Quiz.Regenerate(ctx)
			} else {
				quiz, err = app.Study.Quiz.Load(ctx)
			}
			if err != nil {
				return err
			}
			if len(quiz.Questions) == 0 {
				return fmt.Errorf("the server returned an empty quiz")
			}

			out := cmd.OutOrStdout()

			if !take {
				renderQuiz(out, quiz)
				if export != "" {
					if err := exportTo(export, func(w io.Writer) { renderQuiz(w, quiz) }); err != nil {
						return err
					}
					fmt.Fprintf(out, "Exported to %s\n", export)
				}
				return nil
			}

			answers, err := collectAnswers(cmd.InOrStdin(), out, quiz)
			if err != nil {
				return err
			}

			result, err := app.Study.Quiz.Submit(ctx, answers)
			if err != nil {
				return err
			}

			fmt.Fprintln(out)
			renderQuizResult(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard (empty lets the server decide)")
	cmd.Flags().IntVar(&questions, "questions", 0, "how many questions to request (0 lets the server decide)")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "skip the cache and generate a fresh quiz")
	cmd.Flags().BoolVar(&take, "take", false, "answer the quiz interactively and get it graded")
	cmd.Flags().StringVar(&export, "export", "", "also write the quiz to a markdown file")
	return cmd
}

func validateDifficulty(difficulty string) error {
	switch difficulty {
	case "", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		return nil
	default:
		return fmt.Errorf("invalid difficulty %q: use easy, medium or hard", difficulty)
	}
}

// collectAnswers runs through the quiz question by question, accepting
// option letters (A, B, ...) case-insensitively.
func collectAnswers(in io.Reader, out io.Writer, quiz model.Quiz) ([]string, error) {
	scanner := bufio.NewScanner(in)
	answers := make([]string, 0, len(quiz.Questions))

	for i, q := range quiz.Questions {
		fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "   %s) %s\n", optionLabel(j), opt)
		}

		for {
			fmt.Fprint(out, "Your answer: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return nil, fmt.Errorf("reading input: %w", err)
				}
				return nil, fmt.Errorf("quiz abandoned at question %d", i+1)
			}

			answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if isValidOption(answer, len(q.Options)) {
				answers = append(answers, answer)
				break
			}
			fmt.Fprintf(out, "Pick one of A-%s.\n", optionLabel(len(q.Options)-1))
		}
		fmt.Fprintln(out)
	}

	return answers, nil
}

func isValidOption(answer string, optionCount int) bool {
	if len(answer) != 1 || optionCount == 0 {
		return false
	}
	idx := int(answer[0] - 'A')
	return idx >= 0 && idx < optionCount
}
