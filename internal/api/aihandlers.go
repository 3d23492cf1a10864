package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/ai"
	"healthassist/internal/database"
	"healthassist/internal/models"
)

type symptomRequest struct {
	Symptoms string `json:"symptoms"`
	Severity string `json:"severity"`
	Duration string `json:"duration"`
}

func (s *Server) handleSymptomCheck(c *fiber.Ctx) error {
	if s.ai == nil {
		return aiUnavailable(c)
	}

	var req symptomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Symptoms == "" {
		return badRequest(c, "symptoms are required")
	}

	result := s.ai.Generate(c.Context(), "symptom",
		ai.SymptomPrompt(req.Symptoms, req.Severity, req.Duration))
	return c.JSON(fiber.Map{"result": result})
}

type healthMetricsRequest struct {
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Cholesterol int    `json:"cholesterol"`
	Sugar       int    `json:"sugar"`
	Systolic    int    `json:"systolic"`
	Diastolic   int    `json:"diastolic"`
}

func (s *Server) handleHealthMetrics(c *fiber.Ctx) error {
	if s.ai == nil {
		return aiUnavailable(c)
	}

	var req healthMetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Age <= 0 {
		return badRequest(c, "age is required")
	}

	result := s.ai.Generate(c.Context(), "health_metrics",
		ai.HealthMetricsPrompt(req.Age, req.Gender, req.Cholesterol, req.Sugar, req.Systolic, req.Diastolic))
	return c.JSON(fiber.Map{"result": result})
}

type bmiRequest struct {
	Age    int     `json:"age"`
	Gender string  `json:"gender"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}

func (s *Server) handleBMIAdvice(c *fiber.Ctx) error {
	var req bmiRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Weight <= 0 || req.Height <= 0 {
		return badRequest(c, "positive weight and height are required")
	}

	h := req.Height / 100
	bmi := req.Weight / (h * h)
	category := models.BMICategory(bmi)

	resp := fiber.Map{"bmi": bmi, "category": category}
	if s.ai != nil {
		resp["advice"] = s.ai.Generate(c.Context(), "bmi_advice",
			ai.BMIAdvicePrompt(req.Age, req.Gender, bmi, category))
	}
	return c.JSON(resp)
}

func (s *Server) handleGenerateDietPlan(c *fiber.Ctx) error {
	if s.ai == nil {
		return aiUnavailable(c)
	}
	userID := currentUserID(c)

	user, err := s.db.GetUser(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load user")
	}

	plan := s.ai.Generate(c.Context(), "diet_plan", ai.DietPlanPrompt(user))
	if plan != ai.ApologyResponse {
		if _, err := s.db.SaveDietPlan(userID, plan); err != nil {
			return internalError(c, s.logger, err, "failed to save diet plan")
		}
		s.db.LogHistory(userID, "AI", "Generated diet plan")
	}
	return c.JSON(fiber.Map{"plan": plan})
}

func (s *Server) handleGetDietPlan(c *fiber.Ctx) error {
	doc, err := s.db.LatestDietPlan(currentUserID(c))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to load diet plan")
	}
	return c.JSON(doc)
}

func (s *Server) handleGenerateHealthReview(c *fiber.Ctx) error {
	if s.ai == nil {
		return aiUnavailable(c)
	}
	userID := currentUserID(c)

	user, err := s.db.GetUser(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load user")
	}
	meds, err := s.db.ListMedications(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load medications")
	}
	appts, err := s.db.ListAppointments(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load appointments")
	}

	review := s.ai.Generate(c.Context(), "health_review", ai.HealthReviewPrompt(user, meds, appts))
	if review != ai.ApologyResponse {
		if _, err := s.db.SaveHealthReview(userID, review); err != nil {
			return internalError(c, s.logger, err, "failed to save health review")
		}
		s.db.LogHistory(userID, "AI", "Generated health review")
	}
	return c.JSON(fiber.Map{"review": review})
}

func (s *Server) handleGetHealthReview(c *fiber.Ctx) error {
	doc, err := s.db.LatestHealthReview(currentUserID(c))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to load health review")
	}
	return c.JSON(doc)
}
