package study_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"eduseva-cli/internal/api"
	"eduseva-cli/internal/cache"
	"eduseva-cli/internal/model"
	"eduseva-cli/internal/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGen counts calls per endpoint and delegates to overridable funcs.
type fakeGen struct {
	calls map[string]int

	uploadFn  func(ctx context.Context, path string) (*model.Document, error)
	chatFn    func(ctx context.Context, question string) (string, error)
	cardsFn   func(ctx context.Context, count int) ([]model.Flashcard, error)
	quizFn    func(ctx context.Context, difficulty string, n int) (*model.Quiz, error)
	summaryFn func(ctx context.Context) (string, error)
}

func newFakeGen() *fakeGen {
	return &fakeGen{calls: map[string]int{}}
}

func (f *fakeGen) Upload(ctx context.Context, path string) (*model.Document, error) {
	f.calls["upload"]++
	if f.uploadFn != nil {
		return f.uploadFn(ctx, path)
	}
	return &model.Document{ID: "doc-1", Filename: filepath.Base(path), Pages: 3, UploadedAt: time.Now()}, nil
}

func (f *fakeGen) Chat(ctx context.Context, question string) (string, error) {
	f.calls["chat"]++
	if f.chatFn != nil {
		return f.chatFn(ctx, question)
	}
	return "answer to: " + question, nil
}

func (f *fakeGen) GenerateFlashcards(ctx context.Context, count int) ([]model.Flashcard, error) {
	f.calls["flashcards"]++
	if f.cardsFn != nil {
		return f.cardsFn(ctx, count)
	}
	return []model.Flashcard{{Question: "Q", Answer: "A"}}, nil
}

func (f *fakeGen) GenerateQuiz(ctx context.Context, difficulty string, n int) (*model.Quiz, error) {
	f.calls["quiz"]++
	if f.quizFn != nil {
		return f.quizFn(ctx, difficulty, n)
	}
	return &model.Quiz{Questions: []model.QuizQuestion{{Question: "Q1", Options: []string{"A", "B"}}}}, nil
}

func (f *fakeGen) SubmitQuiz(ctx context.Context, answers []string) (*model.QuizResult, error) {
	f.calls["submit"]++
	return &model.QuizResult{Score: len(answers), Total: len(answers)}, nil
}

func (f *fakeGen) GenerateSummary(ctx context.Context) (string, error) {
	f.calls["summary"]++
	if f.summaryFn != nil {
		return f.summaryFn(ctx)
	}
	return "a summary", nil
}

func (f *fakeGen) GenerateQuestionPaper(ctx context.Context, opts api.PaperOptions) (*model.QuestionPaper, error) {
	f.calls["paper"]++
	return &model.QuestionPaper{Title: "Midterm", TotalMarks: 50}, nil
}

func (f *fakeGen) GenerateMindmap(ctx context.Context) (*model.Mindmap, error) {
	f.calls["mindmap"]++
	return &model.Mindmap{Root: model.MindmapNode{Label: "root"}}, nil
}

func (f *fakeGen) GeneratePodcast(ctx context.Context) (*model.Podcast, error) {
	f.calls["podcast"]++
	return &model.Podcast{Title: "Episode 1", AudioURL: "/audio/ep1.mp3"}, nil
}

func newTestStudy(t *testing.T) (*study.Study, *fakeGen, *cache.Cache) {
	t.Helper()
	gen := newFakeGen()
	c := cache.New(cache.NewMemoryStore(), "")
	return study.New(gen, c, time.Hour), gen, c
}

func TestLoadGeneratesOnceThenServesFromMemory(t *testing.T) {
	ctx := context.Background()
	s, gen, _ := newTestStudy(t)

	first, err := s.Summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a summary", first)
	assert.Equal(t, study.StateReady, s.Summary.State())

	second, err := s.Summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, gen.calls["summary"], "second load must not hit the network")
}

func TestLoadServesFromCacheAcrossInstances(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGen()
	c := cache.New(cache.NewMemoryStore(), "")

	_, err := study.New(gen, c, time.Hour).Flashcards.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls["flashcards"])

	// A fresh Study over the same cache, like a new process run.
	cards, err := study.New(gen, c, time.Hour).Flashcards.Load(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	assert.Equal(t, 1, gen.calls["flashcards"], "cache hit must not hit the network")
}

func TestEmptyCachedArtifactDoesNotShortCircuit(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGen()
	c := cache.New(cache.NewMemoryStore(), "")

	// A generation that produced nothing still writes the slot.
	gen.cardsFn = func(ctx context.Context, count int) ([]model.Flashcard, error) {
		return []model.Flashcard{}, nil
	}
	_, err := study.New(gen, c, time.Hour).Flashcards.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls["flashcards"])

	// A fresh run over the same cache must not get stuck on the empty
	// artifact: the slot counts as a miss and generation runs again.
	gen.cardsFn = nil
	cards, err := study.New(gen, c, time.Hour).Flashcards.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, cards)
	assert.Equal(t, 2, gen.calls["flashcards"])
}

func TestBlankCachedSummaryIsRegenerated(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGen()
	c := cache.New(cache.NewMemoryStore(), "")

	// A whitespace-only summary slot, e.g. from a degraded generation.
	c.Set(ctx, cache.KeySummary, "  \n", 0)

	summary, err := study.New(gen, c, time.Hour).Summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a summary", summary)
	assert.Equal(t, 1, gen.calls["summary"], "a blank summary must not be served as a hit")
}

func TestRegenerateBypassesCache(t *testing.T) {
	ctx := context.Background()
	s, gen, _ := newTestStudy(t)

	_, err := s.Summary.Load(ctx)
	require.NoError(t, err)

	gen.summaryFn = func(ctx context.Context) (string, error) { return "a fresher summary", nil }

	fresh, err := s.Summary.Regenerate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a fresher summary", fresh)
	assert.Equal(t, 2, gen.calls["summary"])

	// The regenerated artifact replaces the cached one.
	again, err := s.Summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a fresher summary", again)
}

func TestLoadPassesThroughLoadingState(t *testing.T) {
	ctx := context.Background()
	s, gen, _ := newTestStudy(t)

	var observed study.State
	gen.summaryFn = func(ctx context.Context) (string, error) {
		observed = s.Summary.State()
		return "s", nil
	}

	assert.Equal(t, study.StateEmpty, s.Summary.State())

	_, err := s.Summary.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, study.StateLoading, observed)
	assert.Equal(t, study.StateReady, s.Summary.State())
}

func TestFailedGenerationIsNotCached(t *testing.T) {
	ctx := context.Background()
	s, gen, c := newTestStudy(t)

	boom := errors.New("model overloaded")
	gen.summaryFn = func(ctx context.Context) (string, error) { return "", boom }

	_, err := s.Summary.Load(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, study.StateError, s.Summary.State())
	assert.ErrorIs(t, s.Summary.Err(), boom)

	// Nothing was written to the cache.
	assert.False(t, c.Has(ctx, cache.KeySummary))

	// A retry goes back through the network and recovers.
	gen.summaryFn = nil
	summary, err := s.Summary.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a summary", summary)
	assert.Equal(t, study.StateReady, s.Summary.State())
	assert.NoError(t, s.Summary.Err())
}

func TestUploadClearsEveryCachedArtifact(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStudy(t)

	_, err := s.Summary.Load(ctx)
	require.NoError(t, err)
	_, err = s.Flashcards.Load(ctx)
	require.NoError(t, err)
	require.True(t, c.Has(ctx, cache.KeySummary))
	require.True(t, c.Has(ctx, cache.KeyFlashcards))

	path := filepath.Join(t.TempDir(), "new.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	doc, err := s.Upload(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", doc.Filename)

	// Old artifacts are gone, controllers are back to empty.
	assert.False(t, c.Has(ctx, cache.KeySummary))
	assert.False(t, c.Has(ctx, cache.KeyFlashcards))
	assert.Equal(t, study.StateEmpty, s.Summary.State())
	assert.Equal(t, study.StateEmpty, s.Flashcards.State())

	// The new document descriptor is stored.
	active, ok := s.ActiveDocument(ctx)
	require.True(t, ok)
	assert.Equal(t, "doc-1", active.ID)
}

func TestFailedUploadLeavesCacheIntact(t *testing.T) {
	ctx := context.Background()
	s, gen, c := newTestStudy(t)

	_, err := s.Summary.Load(ctx)
	require.NoError(t, err)

	gen.uploadFn = func(ctx context.Context, path string) (*model.Document, error) {
		return nil, errors.New("file too large")
	}

	_, err = s.Upload(ctx, "big.pdf")
	require.Error(t, err)

	// The previous document's artifacts are still served.
	assert.True(t, c.Has(ctx, cache.KeySummary))
	assert.Equal(t, study.StateReady, s.Summary.State())
}

func TestQuizSubmitAlwaysGoesToNetwork(t *testing.T) {
	ctx := context.Background()
	s, gen, _ := newTestStudy(t)

	_, err := s.Quiz.Load(ctx)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := s.Quiz.Submit(ctx, []string{"A"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Score)
	}

	assert.Equal(t, 3, gen.calls["submit"])
}

func TestQuizConfigureFlowsIntoRequest(t *testing.T) {
	ctx := context.Background()
	s, gen, _ := newTestStudy(t)

	var gotDifficulty string
	var gotN int
	gen.quizFn = func(ctx context.Context, difficulty string, n int) (*model.Quiz, error) {
		gotDifficulty, gotN = difficulty, n
		return &model.Quiz{}, nil
	}

	s.Quiz.Configure(model.DifficultyHard, 10)
	_, err := s.Quiz.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.DifficultyHard, gotDifficulty)
	assert.Equal(t, 10, gotN)
}

func TestPaperDiscardWipesSlot(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStudy(t)

	_, err := s.Summary.Load(ctx)
	require.NoError(t, err)

	s.Paper.Configure(api.PaperOptions{TotalMarks: 50})
	paper, err := s.Paper.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Midterm", paper.Title)
	require.True(t, c.Has(ctx, cache.KeyQuestionPaper))

	s.Paper.Discard(ctx)

	assert.False(t, c.Has(ctx, cache.KeyQuestionPaper))
	assert.Equal(t, study.StateEmpty, s.Paper.State())

	// Only the paper slot is touched.
	assert.True(t, c.Has(ctx, cache.KeySummary))
}

func TestChatStartWipesStoredHistory(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStudy(t)

	// Leftover history from a previous session.
	c.Set(ctx, cache.KeyChatHistory, []model.ChatMessage{{Role: model.RoleUser, Content: "old"}}, 0)

	s.Chat.Start(ctx)

	assert.False(t, c.Has(ctx, cache.KeyChatHistory))
	assert.Empty(t, s.Chat.History())
}

func TestChatAskRecordsBothTurns(t *testing.T) {
	ctx := context.Background()
	s, _, c := newTestStudy(t)

	s.Chat.Start(ctx)

	answer, err := s.Chat.Ask(ctx, "what is mitosis?")
	require.NoError(t, err)
	assert.Equal(t, "answer to: what is mitosis?", answer)

	history := s.Chat.History()
	require.Len(t, history, 2)
	assert.Equal(t, model.RoleUser, history[0].Role)
	assert.Equal(t, "what is mitosis?", history[0].Content)
	assert.Equal(t, model.RoleAssistant, history[1].Role)

	// The transcript is persisted turn by turn.
	var stored []model.ChatMessage
	require.True(t, c.Get(ctx, cache.KeyChatHistory, &stored))
	assert.Len(t, stored, 2)
}

func TestChatFailedAskIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	s, gen, c := newTestStudy(t)

	s.Chat.Start(ctx)
	gen.chatFn = func(ctx context.Context, question string) (string, error) {
		return "", errors.New("timeout")
	}

	_, err := s.Chat.Ask(ctx, "anything")
	require.Error(t, err)

	// The question stays visible in the session transcript but never
	// reaches the cache.
	assert.Len(t, s.Chat.History(), 1)
	assert.False(t, c.Has(ctx, cache.KeyChatHistory))
}

func TestExpiredArtifactTriggersRegeneration(t *testing.T) {
	ctx := context.Background()
	gen := newFakeGen()
	c := cache.New(cache.NewMemoryStore(), "")
	s := study.New(gen, c, 30*time.Millisecond)

	_, err := s.Mindmap.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls["mindmap"])

	time.Sleep(60 * time.Millisecond)

	// A fresh instance past the TTL regenerates instead of reusing.
	_, err = study.New(gen, c, 30*time.Millisecond).Mindmap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls["mindmap"])
}
