package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/ai"
	"healthassist/internal/models"
)

const physicalWelcome = "Hello! I am your general health assistant. How can I help you with your physical health questions today?"

func chatKind(c *fiber.Ctx) (string, bool) {
	switch c.Params("kind") {
	case models.ChatPhysical:
		return models.ChatPhysical, true
	case models.ChatMental:
		return models.ChatMental, true
	}
	return "", false
}

func (s *Server) handleGetChatHistory(c *fiber.Ctx) error {
	kind, ok := chatKind(c)
	if !ok {
		return badRequest(c, "chat kind must be physical or mental")
	}
	userID := currentUserID(c)

	history, err := s.db.ListChatHistory(userID, kind, queryLimit(c, 50))
	if err != nil {
		return internalError(c, s.logger, err, "failed to load chat history")
	}

	// First visit to the physical assistant gets a greeting.
	if kind == models.ChatPhysical && len(history) == 0 {
		if err := s.db.AppendChatMessage(userID, kind, models.RoleBot, physicalWelcome); err != nil {
			return internalError(c, s.logger, err, "failed to store greeting")
		}
		history, err = s.db.ListChatHistory(userID, kind, queryLimit(c, 50))
		if err != nil {
			return internalError(c, s.logger, err, "failed to load chat history")
		}
	}

	return c.JSON(fiber.Map{"messages": history})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	kind, ok := chatKind(c)
	if !ok {
		return badRequest(c, "chat kind must be physical or mental")
	}
	if s.ai == nil {
		return aiUnavailable(c)
	}
	userID := currentUserID(c)

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return badRequest(c, "message is required")
	}

	if err := s.db.AppendChatMessage(userID, kind, models.RoleUser, req.Message); err != nil {
		return internalError(c, s.logger, err, "failed to store message")
	}

	history, err := s.db.ListChatHistory(userID, kind, 20)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load chat history")
	}

	var reply string
	if kind == models.ChatPhysical {
		reply = s.ai.Generate(c.Context(), "physical_chat", ai.PhysicalChatPrompt(history, req.Message))
	} else {
		reply = s.ai.Generate(c.Context(), "mindful_chat", ai.MindfulChatPrompt(history, req.Message))
	}

	if err := s.db.AppendChatMessage(userID, kind, models.RoleBot, reply); err != nil {
		return internalError(c, s.logger, err, "failed to store reply")
	}

	return c.JSON(fiber.Map{"reply": reply})
}

func (s *Server) handleClearChat(c *fiber.Ctx) error {
	kind, ok := chatKind(c)
	if !ok {
		return badRequest(c, "chat kind must be physical or mental")
	}
	if err := s.db.ClearChatHistory(currentUserID(c), kind); err != nil {
		return internalError(c, s.logger, err, "failed to clear chat history")
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}
