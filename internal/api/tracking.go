package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/database"
	"healthassist/internal/models"
)

func (s *Server) handleListExercise(c *fiber.Ctx) error {
	entries, err := s.db.ListExercise(currentUserID(c), queryLimit(c, 50))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list exercise log")
	}
	return c.JSON(fiber.Map{"exercise": entries})
}

type exerciseRequest struct {
	ExerciseName    string  `json:"exercise_name"`
	DurationSeconds int     `json:"duration_seconds"`
	CaloriesBurned  float64 `json:"calories_burned"`
}

func (s *Server) handleLogExercise(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ExerciseName == "" || req.DurationSeconds <= 0 {
		return badRequest(c, "exercise_name and a positive duration_seconds are required")
	}

	id, err := s.db.LogExercise(&models.ExerciseEntry{
		UserID:          userID,
		ExerciseName:    req.ExerciseName,
		DurationSeconds: req.DurationSeconds,
		CaloriesBurned:  req.CaloriesBurned,
	})
	if err != nil {
		return internalError(c, s.logger, err, "failed to log exercise")
	}

	s.db.LogHistory(userID, "Exercise",
		fmt.Sprintf("Completed %s (%ds)", req.ExerciseName, req.DurationSeconds))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleListWeights(c *fiber.Ctx) error {
	entries, err := s.db.ListWeights(currentUserID(c))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list weight log")
	}
	return c.JSON(fiber.Map{"weights": entries})
}

type weightRequest struct {
	Weight   float64 `json:"weight"`
	LoggedAt string  `json:"logged_at"`
}

func (s *Server) handleLogWeight(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req weightRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Weight <= 0 {
		return badRequest(c, "weight must be positive")
	}
	loggedAt, err := s.localDateOrToday(userID, req.LoggedAt)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.db.LogWeight(userID, req.Weight, loggedAt); err != nil {
		return internalError(c, s.logger, err, "failed to log weight")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"logged_at": loggedAt})
}

func (s *Server) handleListJournal(c *fiber.Ctx) error {
	entries, err := s.db.ListJournalEntries(currentUserID(c), queryLimit(c, 30))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list journal")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (s *Server) handleGetJournalEntry(c *fiber.Ctx) error {
	date := c.Params("date")
	if !validDate(date) {
		return badRequest(c, "date must be YYYY-MM-DD")
	}
	entry, err := s.db.GetJournalEntry(currentUserID(c), date)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to load journal entry")
	}
	return c.JSON(entry)
}

type journalRequest struct {
	Mood          int    `json:"mood"`
	EntryText     string `json:"entry_text"`
	GratitudeText string `json:"gratitude_text"`
	LoggedAt      string `json:"logged_at"`
}

func (s *Server) handleSaveJournalEntry(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req journalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Mood < 1 || req.Mood > 5 {
		return badRequest(c, "mood must be between 1 and 5")
	}
	loggedAt, err := s.localDateOrToday(userID, req.LoggedAt)
	if err != nil {
		return badRequest(c, err.Error())
	}

	sentiment := "Neutral"
	if s.ai != nil && req.EntryText != "" {
		sentiment = s.ai.AnalyzeSentiment(c.Context(), req.EntryText)
	}

	entry := &models.JournalEntry{
		UserID:        userID,
		Mood:          req.Mood,
		EntryText:     req.EntryText,
		GratitudeText: req.GratitudeText,
		Sentiment:     sentiment,
		LoggedAt:      loggedAt,
	}
	if err := s.db.SaveJournalEntry(entry); err != nil {
		return internalError(c, s.logger, err, "failed to save journal entry")
	}

	s.db.LogHistory(userID, "Journal", "Journal entry saved")
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (s *Server) handleListHistory(c *fiber.Ctx) error {
	events, err := s.db.ListHistory(currentUserID(c), queryLimit(c, 100))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list history")
	}
	return c.JSON(fiber.Map{"history": events})
}

// localDateOrToday validates an explicit YYYY-MM-DD date or falls back to
// today in the user's timezone.
func (s *Server) localDateOrToday(userID int64, date string) (string, error) {
	if date != "" {
		if !validDate(date) {
			return "", fmt.Errorf("date must be YYYY-MM-DD")
		}
		return date, nil
	}

	loc := time.UTC
	if user, err := s.db.GetUser(userID); err == nil && user.Timezone != "" {
		if l, err := time.LoadLocation(user.Timezone); err == nil {
			loc = l
		}
	}
	return time.Now().In(loc).Format(models.DateLayout), nil
}

func queryLimit(c *fiber.Ctx, def int) int {
	limit := c.QueryInt("limit", def)
	if limit <= 0 || limit > 500 {
		return def
	}
	return limit
}
