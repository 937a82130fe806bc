package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"eduseva-cli/internal/model"
)

// The renderers write markdown. It reads fine in a terminal and the
// same output backs the --export flags.

func renderDocument(w io.Writer, doc *model.Document) {
	fmt.Fprintf(w, "Active document: %s", doc.Filename)
	if doc.Pages > 0 {
		fmt.Fprintf(w, " (%d pages)", doc.Pages)
	}
	if !doc.UploadedAt.IsZero() {
		fmt.Fprintf(w, ", uploaded %s", doc.UploadedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)
}

func renderFlashcards(w io.Writer, cards []model.Flashcard) {
	fmt.Fprintf(w, "# Flashcards (%d)\n\n", len(cards))
	for i, card := range cards {
		fmt.Fprintf(w, "## Card %d\n\n", i+1)
		fmt.Fprintf(w, "**Q:** %s\n\n", card.Question)
		fmt.Fprintf(w, "**A:** %s\n\n", card.Answer)
	}
}

func renderQuiz(w io.Writer, quiz model.Quiz) {
	fmt.Fprintf(w, "# Quiz (%d questions)\n\n", len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "   %s) %s\n", optionLabel(j), opt)
		}
		fmt.Fprintln(w)
	}
}

func renderQuizResult(w io.Writer, result *model.QuizResult) {
	fmt.Fprintf(w, "# Result: %d/%d\n\n", result.Score, result.Total)
	for i, r := range result.Results {
		mark := "✗"
		if r.Correct {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %d. %s\n", mark, i+1, r.Question)
		fmt.Fprintf(w, "   your answer: %s", r.YourAnswer)
		if !r.Correct {
			fmt.Fprintf(w, " (correct: %s)", r.CorrectAnswer)
		}
		fmt.Fprintln(w)
	}
}

func renderSummary(w io.Writer, summary string) {
	fmt.Fprintf(w, "# Summary\n\n%s\n", strings.TrimSpace(summary))
}

func renderPaper(w io.Writer, paper model.QuestionPaper) {
	fmt.Fprintf(w, "# %s\n\n", paper.Title)

	// The server normally sends the total; fall back to summing the
	// sections when it is omitted.
	total := paper.TotalMarks
	if total == 0 {
		total = paper.MarksTotal()
	}
	if total > 0 {
		fmt.Fprintf(w, "Total marks: %d", total)
		if paper.Duration != "" {
			fmt.Fprintf(w, " | Duration: %s", paper.Duration)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
	for _, section := range paper.Sections {
		fmt.Fprintf(w, "## %s\n\n", section.Name)
		for i, q := range section.Questions {
			fmt.Fprintf(w, "%d. %s", i+1, q.Question)
			if q.Marks > 0 {
				fmt.Fprintf(w, " [%d marks]", q.Marks)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
}

func renderMindmap(w io.Writer, m model.Mindmap) {
	fmt.Fprintf(w, "# Mindmap\n\n")
	fmt.Fprintln(w, m.Root.Label)
	for i, child := range m.Root.Children {
		renderMindmapNode(w, child, "", i == len(m.Root.Children)-1)
	}
}

// renderMindmapNode draws the subtree with box-drawing prefixes.
func renderMindmapNode(w io.Writer, node model.MindmapNode, prefix string, isLast bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, connector, node.Label)

	for i, child := range node.Children {
		renderMindmapNode(w, child, childPrefix, i == len(node.Children)-1)
	}
}

func renderPodcast(w io.Writer, p model.Podcast) {
	fmt.Fprintf(w, "# %s\n\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(w, "%s\n\n", p.Description)
	}
	if p.DurationSec > 0 {
		fmt.Fprintf(w, "Duration: %s\n\n", (time.Duration(p.DurationSec) * time.Second).String())
	}
	if p.Script != "" {
		fmt.Fprintf(w, "## Script\n\n%s\n", strings.TrimSpace(p.Script))
	}
}

func renderChatHistory(w io.Writer, history []model.ChatMessage) {
	fmt.Fprintf(w, "# Chat transcript (%d turns)\n\n", len(history))
	for _, msg := range history {
		speaker := "You"
		if msg.Role == model.RoleAssistant {
			speaker = "EduSeva"
		}
		fmt.Fprintf(w, "**%s:** %s\n\n", speaker, msg.Content)
	}
}

// optionLabel turns an option index into its letter: 0 -> A, 1 -> B.
func optionLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%d", i+1)
}

// exportTo writes rendered content to path.
func exportTo(path string, render func(io.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	render(f)
	return nil
}
