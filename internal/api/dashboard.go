package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/models"
)

// handleDashboard aggregates the home-screen summary: next appointment, BMI,
// the weight trend and the last week's exercise totals.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.db.GetUser(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load user")
	}

	loc := time.UTC
	if user.Timezone != "" {
		if l, err := time.LoadLocation(user.Timezone); err == nil {
			loc = l
		}
	}
	localNow := time.Now().In(loc)

	var next *models.Appointment
	appts, err := s.db.ListUpcomingAppointments(userID, localNow.Format(models.DateLayout))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list appointments")
	}
	if len(appts) > 0 {
		next = appts[0]
	}

	weights, err := s.db.ListWeights(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to list weight log")
	}

	sessions, seconds, calories, err := s.db.ExerciseTotalsSince(userID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return internalError(c, s.logger, err, "failed to total exercise")
	}

	bmi := user.BMI()
	return c.JSON(fiber.Map{
		"next_appointment": next,
		"bmi":              bmi,
		"bmi_category":     models.BMICategory(bmi),
		"weight_trend":     weights,
		"exercise_week": fiber.Map{
			"sessions":         sessions,
			"duration_seconds": seconds,
			"calories_burned":  calories,
		},
	})
}

// handleMoodSummary returns mood counts over the last 30 local days.
func (s *Server) handleMoodSummary(c *fiber.Ctx) error {
	userID := currentUserID(c)

	from, err := s.localDateOrToday(userID, "")
	if err != nil {
		return internalError(c, s.logger, err, "failed to resolve date")
	}
	fromDay, _ := time.Parse(models.DateLayout, from)
	fromDate := fromDay.AddDate(0, 0, -30).Format(models.DateLayout)

	counts, err := s.db.MoodCounts(userID, fromDate)
	if err != nil {
		return internalError(c, s.logger, err, "failed to summarize moods")
	}

	summary := make(map[string]int, 5)
	for mood := 1; mood <= 5; mood++ {
		summary[strconv.Itoa(mood)] = counts[mood]
	}
	return c.JSON(fiber.Map{"from": fromDate, "moods": summary})
}
