package study

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eduseva-cli/internal/api"
	"eduseva-cli/internal/cache"
	"eduseva-cli/internal/model"
)

// Generator is the slice of the API client the study features use.
type Generator interface {
	Upload(ctx context.Context, path string) (*model.Document, error)
	Chat(ctx context.Context, question string) (string, error)
	GenerateFlashcards(ctx context.Context, count int) ([]model.Flashcard, error)
	GenerateQuiz(ctx context.Context, difficulty string, numQuestions int) (*model.Quiz, error)
	SubmitQuiz(ctx context.Context, answers []string) (*model.QuizResult, error)
	GenerateSummary(ctx context.Context) (string, error)
	GenerateQuestionPaper(ctx context.Context, opts api.PaperOptions) (*model.QuestionPaper, error)
	GenerateMindmap(ctx context.Context) (*model.Mindmap, error)
	GeneratePodcast(ctx context.Context) (*model.Podcast, error)
}

// Study wires every feature controller to one API client and one cache.
// All artifacts describe the API's single active document, so uploading
// a new document resets everything at once.
type Study struct {
	gen   Generator
	cache *cache.Cache

	Flashcards *FlashcardsController
	Quiz       *QuizController
	Summary    *SummaryController
	Paper      *PaperController
	Mindmap    *MindmapController
	Podcast    *PodcastController
	Chat       *ChatSession
}

// New creates the study feature set. ttl is the artifact cache lifetime;
// zero caches without expiry.
func New(gen Generator, c *cache.Cache, ttl time.Duration) *Study {
	s := &Study{gen: gen, cache: c}

	s.Flashcards = &FlashcardsController{}
	s.Flashcards.controller = newController("Flashcards", cache.KeyFlashcards, c, ttl,
		func(ctx context.Context) ([]model.Flashcard, error) {
			return gen.GenerateFlashcards(ctx, s.Flashcards.count)
		},
		func(cards []model.Flashcard) bool { return len(cards) == 0 })

	s.Quiz = &QuizController{gen: gen}
	s.Quiz.controller = newController("Quiz", cache.KeyQuiz, c, ttl,
		func(ctx context.Context) (model.Quiz, error) {
			quiz, err := gen.GenerateQuiz(ctx, s.Quiz.difficulty, s.Quiz.numQuestions)
			if err != nil {
				return model.Quiz{}, err
			}
			return *quiz, nil
		},
		func(quiz model.Quiz) bool { return len(quiz.Questions) == 0 })

	s.Summary = &SummaryController{}
	s.Summary.controller = newController("Summary", cache.KeySummary, c, ttl,
		func(ctx context.Context) (string, error) {
			return gen.GenerateSummary(ctx)
		},
		func(summary string) bool { return strings.TrimSpace(summary) == "" })

	s.Paper = &PaperController{}
	s.Paper.controller = newController("QuestionPaper", cache.KeyQuestionPaper, c, ttl,
		func(ctx context.Context) (model.QuestionPaper, error) {
			paper, err := gen.GenerateQuestionPaper(ctx, s.Paper.opts)
			if err != nil {
				return model.QuestionPaper{}, err
			}
			return *paper, nil
		},
		func(paper model.QuestionPaper) bool { return len(paper.Sections) == 0 })

	s.Mindmap = &MindmapController{}
	s.Mindmap.controller = newController("Mindmap", cache.KeyMindmap, c, ttl,
		func(ctx context.Context) (model.Mindmap, error) {
			mindmap, err := gen.GenerateMindmap(ctx)
			if err != nil {
				return model.Mindmap{}, err
			}
			return *mindmap, nil
		},
		func(m model.Mindmap) bool { return m.Root.Label == "" && len(m.Root.Children) == 0 })

	s.Podcast = &PodcastController{}
	s.Podcast.controller = newController("Podcast", cache.KeyPodcast, c, ttl,
		func(ctx context.Context) (model.Podcast, error) {
			podcast, err := gen.GeneratePodcast(ctx)
			if err != nil {
				return model.Podcast{}, err
			}
			return *podcast, nil
		},
		func(p model.Podcast) bool { return p.AudioURL == "" && p.Script == "" })

	s.Chat = newChatSession(gen, c, ttl)

	return s
}

// Upload sends a new document to the API. On success every cached
// artifact is dropped, since it described the previous document, and
// the new document descriptor is stored. On failure the cache is left
// untouched.
func (s *Study) Upload(ctx context.Context, path string) (*model.Document, error) {
	doc, err := s.gen.Upload(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	s.cache.Clear(ctx)
	s.cache.Set(ctx, cache.KeyDocument, doc, 0)

	s.Flashcards.reset()
	s.Quiz.reset()
	s.Summary.reset()
	s.Paper.reset()
	s.Mindmap.reset()
	s.Podcast.reset()
	s.Chat.reset()

	log.Printf("[Study] Active document is now %q (%d pages)", doc.Filename, doc.Pages)
	return doc, nil
}

// ActiveDocument returns the descriptor of the last uploaded document,
// if one is cached.
func (s *Study) ActiveDocument(ctx context.Context) (*model.Document, bool) {
	var doc model.Document
	if !s.cache.Get(ctx, cache.KeyDocument, &doc) {
		return nil, false
	}
	return &doc, true
}

// reset clears in-memory controller state without touching the cache.
// Upload uses it after wiping the cache wholesale.
func (c *controller[T]) reset() {
	c.mu.Lock()
	var zero T
	c.state, c.value, c.err = StateEmpty, zero, nil
	c.mu.Unlock()
}

// FlashcardsController generates flashcards for the active document.
type FlashcardsController struct {
	*controller[[]model.Flashcard]
	count int
}

// Configure sets how many cards to request. Zero leaves it to the
// server.
func (f *FlashcardsController) Configure(count int) {
	f.count = count
}

// SummaryController generates a summary of the active document.
type SummaryController struct {
	*controller[string]
}

// QuizController generates quizzes and grades answers.
type QuizController struct {
	*controller[model.Quiz]
	gen          Generator
	difficulty   string
	numQuestions int
}

// Configure sets quiz generation options. Zero values leave the choice
// to the server.
func (q *QuizController) Configure(difficulty string, numQuestions int) {
	q.difficulty = difficulty
	q.numQuestions = numQuestions
}

// Submit grades answers against the last generated quiz. Grading always
// goes to the API; results are never cached because the quiz itself may
// be regenerated at any time.
func (q *QuizController) Submit(ctx context.Context, answers []string) (*model.QuizResult, error) {
	return q.gen.SubmitQuiz(ctx, answers)
}

// PaperController generates exam-style question papers. The paper slot
// is session-scoped: Discard wipes it when the caller is done, so a
// paper never survives into the next run.
type PaperController struct {
	*controller[model.QuestionPaper]
	opts api.PaperOptions
}

// Configure sets paper generation options.
func (p *PaperController) Configure(opts api.PaperOptions) {
	p.opts = opts
}

// Discard drops the generated paper from cache and memory.
func (p *PaperController) Discard(ctx context.Context) {
	p.Invalidate(ctx)
}

// MindmapController generates a mindmap of the active document.
type MindmapController struct {
	*controller[model.Mindmap]
}

// PodcastController generates a podcast episode for the active document.
type PodcastController struct {
	*controller[model.Podcast]
}
