package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) handleVAPIDKey(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"public_key": s.cfg.Push.VAPIDPublicKey})
}

// handlePushSubscribe stores the subscription object the browser hands back
// from PushManager.subscribe, verbatim.
func (s *Server) handlePushSubscribe(c *fiber.Ctx) error {
	userID := currentUserID(c)

	body := c.Body()
	var probe struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.Endpoint == "" ||
		probe.Keys.P256dh == "" || probe.Keys.Auth == "" {
		return badRequest(c, "a browser push subscription with endpoint and keys is required")
	}

	if err := s.db.SavePushSubscription(userID, string(body)); err != nil {
		return internalError(c, s.logger, err, "failed to save subscription")
	}

	s.db.LogHistory(userID, "Notifications", "Push subscription registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "subscribed"})
}

func (s *Server) handlePushUnsubscribe(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := s.db.DeletePushSubscription(userID); err != nil {
		return internalError(c, s.logger, err, "failed to delete subscription")
	}
	s.db.LogHistory(userID, "Notifications", "Push subscription removed")
	return c.JSON(fiber.Map{"status": "unsubscribed"})
}

// handlePushTest sends a test notification so the user can confirm their
// browser is wired up.
func (s *Server) handlePushTest(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := s.notifier.Send(c.Context(), userID, "Test Notification",
		"Notifications are working. You will receive your reminders here."); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "sent"})
}
