package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hrscreening/resume-screener/internal/models"
	"hrscreening/resume-screener/internal/services"
)

// ChatHandler proxies free-text questions to Gemini. Service failures are
// surfaced as descriptive reply strings with a 200, never as a crash.
type ChatHandler struct {
	gemini     services.GeminiService // nil when no API key is configured
	maxRetries int
	log        *zap.Logger
}

func NewChatHandler(gemini services.GeminiService, maxRetries int, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		gemini:     gemini,
		maxRetries: maxRetries,
		log:        log,
	}
}

const chatPromptPrefix = "You are a helpful, concise assistant for an internship program. " +
	"Answer briefly and professionally.\n\nUser: "

// HandleChat handles POST /chat.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ChatResponse{
			OK:    false,
			Reply: "Please enter a message.",
		})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ChatResponse{
			OK:    false,
			Reply: "Please enter a message.",
		})
	}

	if h.gemini == nil {
		return c.JSON(models.ChatResponse{
			OK:    true,
			Reply: "(Gemini API key missing - set GEMINI_API_KEY)",
		})
	}

	prompt := chatPromptPrefix + message + "\nAssistant:"

	reply, err := h.gemini.GenerateTextWithRetry(c.UserContext(), prompt, 0.2, h.maxRetries)
	if err != nil {
		h.log.Warn("chat request failed", zap.Error(err))
		reply = fmt.Sprintf("(Gemini request failed: %v)", err)
	}

	return c.JSON(models.ChatResponse{
		OK:    true,
		Reply: reply,
	})
}
