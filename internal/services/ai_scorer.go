package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hrscreening/resume-screener/internal/models"
)

// AIScorerService delegates scoring to Gemini instead of the local keyword
// scorer. The model is a fallible collaborator: any transport error, empty
// reply, or malformed JSON falls back to the safe default (score 0,
// Rejected) rather than failing the submission.
type AIScorerService interface {
	// Evaluate returns a non-nil evaluation even when it errors; on failure
	// the evaluation is the safe default and the error carries the cause.
	Evaluate(ctx context.Context, resumeText string) (*AIEvaluation, error)
}

type AIEvaluation struct {
	Score    int             `json:"score"`
	Decision models.Decision `json:"-"`
	Feedback string          `json:"feedback"`
}

type aiScorerService struct {
	gemini         GeminiService
	jobDescription string
	threshold      int
	maxRetries     int
	log            *zap.Logger
}

func NewAIScorerService(
	gemini GeminiService,
	jobDescription string,
	threshold int,
	maxRetries int,
	log *zap.Logger,
) AIScorerService {
	return &aiScorerService{
		gemini:         gemini,
		jobDescription: jobDescription,
		threshold:      threshold,
		maxRetries:     maxRetries,
		log:            log,
	}
}

// Evaluate implements AIScorerService. On any failure the returned evaluation
// is the safe default and the error describes what went wrong; callers treat
// the error as a warning, not a submission failure.
func (a *aiScorerService) Evaluate(ctx context.Context, resumeText string) (*AIEvaluation, error) {
	if strings.TrimSpace(resumeText) == "" {
		return &AIEvaluation{
			Score:    0,
			Decision: models.DecisionRejected,
			Feedback: "No extractable text in resume.",
		}, nil
	}

	prompt := a.buildPrompt(resumeText)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, 0.2, a.maxRetries)
	if err != nil {
		a.log.Warn("ai evaluation failed", zap.Error(err))
		return a.safeDefault("AI evaluation unavailable."), fmt.Errorf("ai evaluation failed: %w", err)
	}

	var eval AIEvaluation
	if err := json.Unmarshal([]byte(extractJSON(response)), &eval); err != nil {
		a.log.Warn("ai evaluation returned malformed JSON", zap.Error(err))
		return a.safeDefault("AI evaluation returned malformed output."), fmt.Errorf("failed to parse ai evaluation: %w", err)
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 100 {
		eval.Score = 100
	}

	// The threshold is policy configuration; a decision emitted by the model
	// is ignored so the policy lives in one place.
	eval.Decision = models.DecisionRejected
	if eval.Score >= a.threshold {
		eval.Decision = models.DecisionAccepted
	}

	if eval.Feedback == "" {
		eval.Feedback = fmt.Sprintf("Resume scored %d/100 by AI evaluation.", eval.Score)
	}

	return &eval, nil
}

func (a *aiScorerService) safeDefault(note string) *AIEvaluation {
	return &AIEvaluation{
		Score:    0,
		Decision: models.DecisionRejected,
		Feedback: note,
	}
}

func (a *aiScorerService) buildPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert HR recruiter screening a job applicant's resume.

JOB DESCRIPTION:
%s

CANDIDATE RESUME:
%s

Rate how well the resume matches the job description on a 0-100 scale.

Return your response in the following JSON format:
{
  "score": <0-100 integer>,
  "feedback": "<one or two sentences explaining the score>"
}

Return ONLY the JSON object, no additional text.`, a.jobDescription, resumeText)
}

// extractJSON pulls a JSON object out of text that may be wrapped in
// markdown code fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
