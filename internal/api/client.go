package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eduseva-cli/internal/model"
	"eduseva-cli/pkg/apierror"
)

// maxResponseBytes caps how much of a JSON response body is read.
// Generated artifacts are text and stay far below this.
const maxResponseBytes = 16 << 20

// Client talks to the EduSeva generation API. The server keeps the
// uploaded document as server-side state, so generation endpoints take
// no document reference: they always operate on the active document.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.eduseva.app".
	BaseURL string

	// Timeout bounds each request end to end. Generation endpoints can
	// take a while, so this should be generous.
	Timeout time.Duration

	// Transport is the round tripper to send requests through, normally
	// a Chain of the middlewares in this package. nil means the default
	// transport.
	Transport http.RoundTripper
}

// New creates an API client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
	}
}

// envelope is the success flag every 2xx response carries alongside its
// payload fields.
type envelope struct {
	Success *bool `json:"success"`
}

// do executes the request, maps non-2xx responses to *apierror.Error
// and decodes the body into dest when given.
func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierror.FromResponse(resp.StatusCode, body)
	}

	// A 2xx with success:false still counts as a failure.
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Success != nil && !*env.Success {
		return apierror.FromResponse(resp.StatusCode, body)
	}

	if dest == nil {
		return nil
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// postJSON sends a JSON body to path and decodes the response into dest.
func (c *Client) postJSON(ctx context.Context, path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, dest)
}

// getJSON sends a GET to path and decodes the response into dest.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, dest)
}

// HealthStatus reports API availability.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health checks whether the API is reachable and serving.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var resp struct {
		envelope
		HealthStatus
	}
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp.HealthStatus, nil
}

// Login exchanges credentials for an API token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.Session, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp struct {
		envelope
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := c.postJSON(ctx, "/auth/login", payload, &resp); err != nil {
		return nil, err
	}

	return &model.Session{
		Token:     resp.Token,
		Email:     email,
		CreatedAt: time.Now(),
		ExpiresAt: resp.ExpiresAt,
	}, nil
}

// Upload sends a PDF to the API, replacing the active document. Only
// PDF files are accepted.
func (c *Client) Upload(ctx context.Context, path string) (*model.Document, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("only PDF files are supported, got %q", filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp struct {
		envelope
		Document model.Document `json:"document"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	if resp.Document.Filename == "" {
		resp.Document.Filename = filepath.Base(path)
	}
	if resp.Document.UploadedAt.IsZero() {
		resp.Document.UploadedAt = time.Now()
	}
	return &resp.Document, nil
}

// Chat asks a question about the active document and returns the answer.
func (c *Client) Chat(ctx context.Context, question string) (string, error) {
	payload := map[string]string{"question": question}

	var resp struct {
		envelope
		Answer string `json:"answer"`
	}
	if err := c.postJSON(ctx, "/chat", payload, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// GenerateFlashcards produces flashcards for the active document.
// count <= 0 leaves the amount to the server.
func (c *Client) GenerateFlashcards(ctx context.Context, count int) ([]model.Flashcard, error) {
	payload := map[string]any{}
	if count > 0 {
		payload["count"] = count
	}

	var resp struct {
		envelope
		Flashcards []model.Flashcard `json:"flashcards"`
	}
	if err := c.postJSON(ctx, "/generate-flashcards", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Flashcards, nil
}

// GenerateQuiz produces a quiz for the active document. Empty difficulty
// and numQuestions <= 0 leave the choice to the server.
func (c *Client) GenerateQuiz(ctx context.Context, difficulty string, numQuestions int) (*model.Quiz, error) {
	payload := map[string]any{}
	if difficulty != "" {
		payload["difficulty"] = difficulty
	}
	if numQuestions > 0 {
		payload["num_questions"] = numQuestions
	}

	var resp struct {
		envelope
		Questions []model.QuizQuestion `json:"questions"`
	}
	if err := c.postJSON(ctx, "/generate-quiz", payload, &resp); err != nil {
		return nil, err
	}
	return &model.Quiz{Questions: resp.Questions}, nil
}

// SubmitQuiz grades the given answers against the last generated quiz.
// Grading happens server-side; this call never touches the cache.
func (c *Client) SubmitQuiz(ctx context.Context, answers []string) (*model.QuizResult, error) {
	payload := map[string]any{"answers": answers}

	var resp struct {
		envelope
		model.QuizResult
	}
	if err := c.postJSON(ctx, "/submit-quiz", payload, &resp); err != nil {
		return nil, err
	}
	return &resp.QuizResult, nil
}

// GenerateSummary produces a summary of the active document.
func (c *Client) GenerateSummary(ctx context.Context) (string, error) {
	var resp struct {
		envelope
		Summary string `json:"summary"`
	}
	if err := c.postJSON(ctx, "/generate-summary", map[string]any{}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// PaperOptions tunes question paper generation. Zero values leave the
// choice to the server.
type PaperOptions struct {
	TotalMarks int    `json:"total_marks,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// GenerateQuestionPaper produces an exam-style question paper for the
// active document.
func (c *Client) GenerateQuestionPaper(ctx context.Context, opts PaperOptions) (*model.QuestionPaper, error) {
	var resp struct {
		envelope
		Paper model.QuestionPaper `json:"paper"`
	}
	if err := c.postJSON(ctx, "/generate-question-paper", opts, &resp); err != nil {
		return nil, err
	}
	return &resp.Paper, nil
}

// GenerateMindmap produces a mindmap of the active document.
func (c *Client) GenerateMindmap(ctx context.Context) (*model.Mindmap, error) {
	var resp struct {
		envelope
		Mindmap model.Mindmap `json:"mindmap"`
	}
	if err := c.postJSON(ctx, "/generate-mindmap", map[string]any{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Mindmap, nil
}

// GeneratePodcast produces a podcast episode discussing the active
// document. The returned AudioURL may be relative to the API base.
func (c *Client) GeneratePodcast(ctx context.Context) (*model.Podcast, error) {
	var resp struct {
		envelope
		Podcast model.Podcast `json:"podcast"`
	}
	if err := c.postJSON(ctx, "/generate-podcast", map[string]any{}, &resp); err != nil {
		return nil, err
	}
	return &resp.Podcast, nil
}

// DownloadAudio streams podcast audio to w, resolving relative URLs
// against the API base. Returns the number of bytes written.
func (c *Client) DownloadAudio(ctx context.Context, audioURL string, w io.Writer) (int64, error) {
	resolved, err := c.resolveURL(audioURL)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, apierror.FromResponse(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream audio: %w", err)
	}
	return n, nil
}

// resolveURL makes audio and asset URLs absolute.
func (c *Client) resolveURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.IsAbs() {
		return raw, nil
	}

	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}
