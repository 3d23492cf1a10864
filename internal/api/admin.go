package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"healthassist/internal/database"
)

func (s *Server) handleAdminListUsers(c *fiber.Ctx) error {
	users, err := s.db.ListUsers()
	if err != nil {
		return internalError(c, s.logger, err, "failed to list users")
	}
	return c.JSON(fiber.Map{"users": users, "total": len(users)})
}

func (s *Server) handleAdminCreateUser(c *fiber.Ctx) error {
	adminID := currentUserID(c)

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		return badRequest(c, "name, email and a password of at least 8 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, s.logger, err, "failed to hash password")
	}

	id, err := s.db.CreateUser(req.Name, req.Email, string(hash), req.Age, req.Gender)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		return internalError(c, s.logger, err, "failed to create user")
	}

	s.db.LogHistory(id, "Admin", "Account created by administrator")
	s.logger.Info().Int64("admin_id", adminID).Int64("user_id", id).Msg("Admin created user")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user_id": id})
}

func (s *Server) handleAdminViewUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	user, err := s.db.GetUser(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to load user")
	}
	history, err := s.db.ListHistory(id, 100)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load history")
	}
	meds, err := s.db.ListMedications(id)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load medications")
	}
	appts, err := s.db.ListAppointments(id)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load appointments")
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"history":      history,
		"medications":  meds,
		"appointments": appts,
	})
}

func (s *Server) setBlocked(c *fiber.Ctx, blocked bool) error {
	adminID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if id == adminID {
		return badRequest(c, "cannot change your own account")
	}

	if err := s.db.SetUserBlocked(id, blocked); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to update user")
	}

	action := "unblocked"
	if blocked {
		action = "blocked"
	}
	s.db.LogHistory(id, "Admin", fmt.Sprintf("Account %s by administrator", action))
	s.logger.Info().Int64("admin_id", adminID).Int64("user_id", id).Str("action", action).Msg("Admin moderation")
	return c.JSON(fiber.Map{"status": action})
}

func (s *Server) handleAdminBlockUser(c *fiber.Ctx) error {
	return s.setBlocked(c, true)
}

func (s *Server) handleAdminUnblockUser(c *fiber.Ctx) error {
	return s.setBlocked(c, false)
}

func (s *Server) setAdmin(c *fiber.Ctx, admin bool) error {
	adminID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if id == adminID {
		return badRequest(c, "cannot change your own account")
	}

	if err := s.db.SetUserAdmin(id, admin); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to update user")
	}

	action := "demoted"
	if admin {
		action = "promoted"
	}
	s.db.LogHistory(id, "Admin", fmt.Sprintf("Account %s by administrator", action))
	s.logger.Info().Int64("admin_id", adminID).Int64("user_id", id).Str("action", action).Msg("Admin role change")
	return c.JSON(fiber.Map{"status": action})
}

func (s *Server) handleAdminPromoteUser(c *fiber.Ctx) error {
	return s.setAdmin(c, true)
}

func (s *Server) handleAdminDemoteUser(c *fiber.Ctx) error {
	return s.setAdmin(c, false)
}

func (s *Server) handleAdminDeleteUser(c *fiber.Ctx) error {
	adminID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	if id == adminID {
		return badRequest(c, "cannot delete your own admin account")
	}

	if err := s.db.DeleteUser(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to delete user")
	}

	s.logger.Info().Int64("admin_id", adminID).Int64("user_id", id).Msg("Admin deleted user")
	return c.JSON(fiber.Map{"status": "deleted"})
}
