package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"healthassist/internal/database"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
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

	s.db.LogHistory(id, "Security", "Account created")

	token, err := s.issueToken(id, false)
	if err != nil {
		return internalError(c, s.logger, err, "failed to issue token")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "user_id": id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := s.db.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return unauthorized(c, "invalid email or password")
		}
		return internalError(c, s.logger, err, "failed to look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return unauthorized(c, "invalid email or password")
	}
	if user.IsBlocked {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "account is blocked"})
	}

	s.db.LogHistory(user.ID, "Security", "Logged in")

	token, err := s.issueToken(user.ID, user.IsAdmin)
	if err != nil {
		return internalError(c, s.logger, err, "failed to issue token")
	}
	return c.JSON(fiber.Map{"token": token, "user_id": user.ID, "is_admin": user.IsAdmin})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "new password must be at least 8 characters")
	}

	user, err := s.db.GetUser(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return unauthorized(c, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, s.logger, err, "failed to hash password")
	}
	if err := s.db.UpdateUserPassword(userID, string(hash)); err != nil {
		return internalError(c, s.logger, err, "failed to update password")
	}

	s.db.LogHistory(userID, "Security", "Password changed")
	return c.JSON(fiber.Map{"status": "password updated"})
}
