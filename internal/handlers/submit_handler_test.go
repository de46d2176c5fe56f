package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hrscreening/resume-screener/internal/models"
	"hrscreening/resume-screener/internal/services"
	"hrscreening/resume-screener/internal/validation"
)

const testJobDescription = "Looking for candidates with strong Python, Flask, HTML/CSS, JavaScript skills, " +
	"experience in AI/ML projects, attention to detail, and excellent communication."

type stubSheetLogger struct {
	err  error
	rows []*models.Submission
}

func (s *stubSheetLogger) LogSubmission(_ context.Context, submission *models.Submission) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, submission)
	return nil
}

type stubNotifier struct {
	configured bool
	err        error
	sent       int
}

func (s *stubNotifier) IsConfigured() bool {
	return s.configured
}

func (s *stubNotifier) SendDecision(name, email string, score int, decision models.Decision) error {
	if s.err != nil {
		return s.err
	}
	s.sent++
	return nil
}

type memorySubmissionRepo struct {
	created []*models.Submission
	err     error
}

func (r *memorySubmissionRepo) Create(submission *models.Submission) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, submission)
	return nil
}

func (r *memorySubmissionRepo) FindByID(id uuid.UUID) (*models.Submission, error) {
	for _, s := range r.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("submission not found")
}

func (r *memorySubmissionRepo) FindAll() ([]models.Submission, error) {
	out := make([]models.Submission, 0, len(r.created))
	for _, s := range r.created {
		out = append(out, *s)
	}
	return out, nil
}

type submitFixture struct {
	app      *fiber.App
	sheets   *stubSheetLogger
	notifier *stubNotifier
	repo     *memorySubmissionRepo
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureUploadDir())

	f := &submitFixture{
		sheets:   &stubSheetLogger{},
		notifier: &stubNotifier{},
		repo:     &memorySubmissionRepo{},
	}

	handler := NewSubmitHandler(
		validation.New(),
		storage,
		services.NewTextExtractorService(zap.NewNop()),
		services.NewScorerService(testJobDescription, 85),
		nil,
		f.sheets,
		f.notifier,
		f.repo,
		20*1024*1024,
		zap.NewNop(),
	)

	f.app = fiber.New()
	f.app.Post("/submit", handler.HandleSubmit)

	return f
}

func buildSubmitForm(t *testing.T, fields map[string]string, filename, fileContent string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}

	if filename != "" {
		fw, err := w.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(fileContent))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func defaultFields() map[string]string {
	return map[string]string{
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"phone": "+15550001111",
	}
}

func doSubmit(t *testing.T, app *fiber.App, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeSubmitResponse(t *testing.T, resp *http.Response) models.SubmitResponse {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out models.SubmitResponse
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}

func TestHandleSubmit_ScoresAndRecords(t *testing.T) {
	f := newSubmitFixture(t)
	f.notifier.configured = true

	body, contentType := buildSubmitForm(t, defaultFields(), "resume.txt",
		"I have strong Python and Flask experience")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSubmitResponse(t, resp)
	assert.True(t, out.OK)
	assert.Equal(t, 22, out.Score)
	assert.Equal(t, models.DecisionRejected, out.Decision)
	assert.NotEmpty(t, out.File)
	assert.Empty(t, out.Warnings)

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, 22, f.repo.created[0].Score)
	require.Len(t, f.sheets.rows, 1)
	assert.Equal(t, 1, f.notifier.sent)
}

func TestHandleSubmit_MissingFields(t *testing.T) {
	f := newSubmitFixture(t)

	fields := defaultFields()
	delete(fields, "phone")

	body, contentType := buildSubmitForm(t, fields, "resume.txt", "some text")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, f.repo.created)
}

func TestHandleSubmit_InvalidEmail(t *testing.T) {
	f := newSubmitFixture(t)

	fields := defaultFields()
	fields["email"] = "not-an-email"

	body, contentType := buildSubmitForm(t, fields, "resume.txt", "some text")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleSubmit_MissingResume(t *testing.T) {
	f := newSubmitFixture(t)

	body, contentType := buildSubmitForm(t, defaultFields(), "", "")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleSubmit_DisallowedExtension(t *testing.T) {
	f := newSubmitFixture(t)

	body, contentType := buildSubmitForm(t, defaultFields(), "resume.exe", "MZ")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleSubmit_CollaboratorFailuresAreWarnings(t *testing.T) {
	f := newSubmitFixture(t)
	f.sheets.err = errors.New("sheets unavailable")
	f.notifier.configured = false
	f.repo.err = errors.New("connection refused")

	body, contentType := buildSubmitForm(t, defaultFields(), "resume.txt",
		"I have strong Python and Flask experience")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSubmitResponse(t, resp)
	assert.True(t, out.OK)
	assert.Equal(t, 22, out.Score)
	assert.Equal(t, models.DecisionRejected, out.Decision)
	assert.Len(t, out.Warnings, 3)
}

func TestHandleSubmit_UnreadableResumeScoresZero(t *testing.T) {
	f := newSubmitFixture(t)

	// A txt upload carrying PDF bytes extracts garbage words that match no
	// keyword; an empty extraction behaves the same way.
	body, contentType := buildSubmitForm(t, defaultFields(), "resume.pdf", "not really a pdf")

	resp := doSubmit(t, f.app, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSubmitResponse(t, resp)
	assert.True(t, out.OK)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, models.DecisionRejected, out.Decision)
}

func TestHandleSubmit_AIScoringFailureUsesSafeDefault(t *testing.T) {
	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureUploadDir())

	repo := &memorySubmissionRepo{}

	handler := NewSubmitHandler(
		validation.New(),
		storage,
		services.NewTextExtractorService(zap.NewNop()),
		services.NewScorerService(testJobDescription, 85),
		&stubAIScorer{err: errors.New("model unavailable")},
		&stubSheetLogger{},
		&stubNotifier{},
		repo,
		20*1024*1024,
		zap.NewNop(),
	)

	app := fiber.New()
	app.Post("/submit", handler.HandleSubmit)

	body, contentType := buildSubmitForm(t, defaultFields(), "resume.txt",
		"I have strong Python and Flask experience")

	resp := doSubmit(t, app, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSubmitResponse(t, resp)
	assert.True(t, out.OK)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, models.DecisionRejected, out.Decision)

	found := false
	for _, w := range out.Warnings {
		if strings.HasPrefix(w, "AI scoring failed") {
			found = true
		}
	}
	assert.True(t, found, "expected an AI scoring warning, got %v", out.Warnings)
}

func TestHandleSubmit_NilAIEvaluationUsesSafeDefault(t *testing.T) {
	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureUploadDir())

	// An implementation that breaks the non-nil-on-error contract must not
	// crash the handler.
	handler := NewSubmitHandler(
		validation.New(),
		storage,
		services.NewTextExtractorService(zap.NewNop()),
		services.NewScorerService(testJobDescription, 85),
		&stubAIScorer{err: errors.New("model unavailable"), evalNil: true},
		&stubSheetLogger{},
		&stubNotifier{},
		&memorySubmissionRepo{},
		20*1024*1024,
		zap.NewNop(),
	)

	app := fiber.New()
	app.Post("/submit", handler.HandleSubmit)

	body, contentType := buildSubmitForm(t, defaultFields(), "resume.txt",
		"I have strong Python and Flask experience")

	resp := doSubmit(t, app, body, contentType)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeSubmitResponse(t, resp)
	assert.True(t, out.OK)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, models.DecisionRejected, out.Decision)
}

type stubAIScorer struct {
	eval    *services.AIEvaluation
	err     error
	evalNil bool
}

func (s *stubAIScorer) Evaluate(_ context.Context, resumeText string) (*services.AIEvaluation, error) {
	if s.err != nil {
		if s.evalNil {
			return nil, s.err
		}
		return &services.AIEvaluation{
			Score:    0,
			Decision: models.DecisionRejected,
			Feedback: fmt.Sprintf("AI evaluation unavailable: %v", s.err),
		}, s.err
	}
	return s.eval, nil
}
