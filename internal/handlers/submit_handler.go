package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrscreening/resume-screener/internal/models"
	"hrscreening/resume-screener/internal/repositories"
	"hrscreening/resume-screener/internal/services"
)

type SubmitHandler struct {
	validate       *validator.Validate
	storageService services.StorageService
	extractor      services.TextExtractorService
	scorer         services.ScorerService
	aiScorer       services.AIScorerService // nil unless SCORING_MODE=gemini
	sheetLogger    services.SheetLoggerService
	notifier       services.NotifierService
	submissionRepo repositories.SubmissionRepository
	maxFileSize    int64
	log            *zap.Logger
}

func NewSubmitHandler(
	validate *validator.Validate,
	storageService services.StorageService,
	extractor services.TextExtractorService,
	scorer services.ScorerService,
	aiScorer services.AIScorerService,
	sheetLogger services.SheetLoggerService,
	notifier services.NotifierService,
	submissionRepo repositories.SubmissionRepository,
	maxFileSize int64,
	log *zap.Logger,
) *SubmitHandler {
	return &SubmitHandler{
		validate:       validate,
		storageService: storageService,
		extractor:      extractor,
		scorer:         scorer,
		aiScorer:       aiScorer,
		sheetLogger:    sheetLogger,
		notifier:       notifier,
		submissionRepo: submissionRepo,
		maxFileSize:    maxFileSize,
		log:            log,
	}
}

// HandleSubmit handles POST /submit. Collaborator failures (sheet append,
// email, database insert) become warnings in the response body: a
// well-formed submission with a readable resume always yields a score and a
// decision.
func (h *SubmitHandler) HandleSubmit(c *fiber.Ctx) error {
	var warnings []string

	req := models.SubmitRequest{
		Name:  strings.TrimSpace(c.FormValue("name")),
		Email: strings.TrimSpace(c.FormValue("email")),
		Phone: strings.TrimSpace(c.FormValue("phone")),
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Name, email and phone are required",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: validationMessage(err),
		})
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Resume file required",
		})
	}

	if file.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "No file selected",
		})
	}

	if !services.IsAllowedFile(file.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file type. Allowed: %s", strings.Join(services.AllowedExtensionList(), ", ")),
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("failed to save resume file: %v", err),
		})
	}

	// Extraction failures degrade to empty text, which scores zero.
	resumeText := h.extractor.ExtractText(filePath)

	score, decision, reasons := h.evaluate(c, resumeText, &warnings)

	submission := &models.Submission{
		ID:         uuid.New(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		ResumeFile: filename,
		Score:      score,
		Decision:   decision,
		Reasons:    reasons,
		CreatedAt:  time.Now(),
	}

	if err := h.submissionRepo.Create(submission); err != nil {
		h.log.Warn("submission insert failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("Database logging failed: %v", err))
	}

	if err := h.sheetLogger.LogSubmission(c.UserContext(), submission); err != nil {
		h.log.Warn("sheets append failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("Sheets logging failed: %v", err))
	}

	if !h.notifier.IsConfigured() {
		warnings = append(warnings, "Email: not configured - skipped")
	} else if err := h.notifier.SendDecision(req.Name, req.Email, score, decision); err != nil {
		h.log.Warn("notification email failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("Email: %v", err))
	}

	if warnings == nil {
		warnings = []string{}
	}

	return c.JSON(models.SubmitResponse{
		OK:       true,
		Message:  fmt.Sprintf("Application submitted for %s", req.Name),
		Score:    score,
		Decision: decision,
		Warnings: warnings,
		File:     filename,
	})
}

// evaluate runs the configured scorer. The Gemini path is fallible; its
// failures downgrade to the safe default plus a warning.
func (h *SubmitHandler) evaluate(c *fiber.Ctx, resumeText string, warnings *[]string) (int, models.Decision, string) {
	if h.aiScorer != nil {
		eval, err := h.aiScorer.Evaluate(c.UserContext(), resumeText)
		if err != nil {
			*warnings = append(*warnings, fmt.Sprintf("AI scoring failed, using safe default: %v", err))
		}
		if eval == nil {
			eval = &services.AIEvaluation{
				Score:    0,
				Decision: models.DecisionRejected,
				Feedback: "AI evaluation unavailable.",
			}
		}
		return eval.Score, eval.Decision, eval.Feedback
	}

	score := h.scorer.Score(resumeText)
	decision := h.scorer.Decide(score)
	reasons := fmt.Sprintf("Resume scored %d/100 against required keywords.", score)

	return score, decision, reasons
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid submission"
	}

	switch errs[0].Field() {
	case "Email":
		return "Invalid email address"
	case "Phone":
		return "Invalid phone number"
	default:
		return "Name, email and phone are required"
	}
}
