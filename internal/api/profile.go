package api

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"healthassist/internal/database"
	"healthassist/internal/models"
)

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	user, err := s.db.GetUser(currentUserID(c))
	if err != nil {
		return internalError(c, s.logger, err, "failed to load profile")
	}
	return c.JSON(user)
}

type updateProfileRequest struct {
	Name                 string  `json:"name"`
	Age                  int     `json:"age"`
	Gender               string  `json:"gender"`
	Timezone             string  `json:"timezone"`
	Weight               float64 `json:"weight"`
	Height               float64 `json:"height"`
	BloodGroup           string  `json:"blood_group"`
	BloodSugar           int     `json:"blood_sugar"`
	SystolicBP           int     `json:"systolic_bp"`
	DiastolicBP          int     `json:"diastolic_bp"`
	Cholesterol          int     `json:"cholesterol"`
	ChronicIllnesses     string  `json:"chronic_illnesses"`
	PastSurgeries        string  `json:"past_surgeries"`
	GeneticDiseases      string  `json:"genetic_diseases"`
	LastCheckupDate      string  `json:"last_checkup_date"`
	PhoneNumber          string  `json:"phone_number"`
	EmergencyNumber      string  `json:"emergency_number"`
	Address              string  `json:"address"`
	HealthInsurance      string  `json:"health_insurance_provider"`
	HealthPolicyID       string  `json:"health_policy_id"`
	HealthGroupNumber    string  `json:"health_group_number"`
	LifeInsurance        string  `json:"life_insurance_provider"`
	LifePolicyID         string  `json:"life_policy_id"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	// An unknown zone would make the scheduler silently skip this user,
	// so reject it here.
	if tz := strings.TrimSpace(req.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return badRequest(c, fmt.Sprintf("unknown timezone %q", tz))
		}
	}

	user, err := s.db.GetUser(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to load profile")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Age = req.Age
	user.Gender = req.Gender
	user.Timezone = strings.TrimSpace(req.Timezone)
	user.WeightKg = req.Weight
	user.HeightCm = req.Height
	user.BloodGroup = req.BloodGroup
	user.BloodSugar = req.BloodSugar
	user.SystolicBP = req.SystolicBP
	user.DiastolicBP = req.DiastolicBP
	user.Cholesterol = req.Cholesterol
	user.ChronicIllnesses = req.ChronicIllnesses
	user.PastSurgeries = req.PastSurgeries
	user.GeneticDiseases = req.GeneticDiseases
	user.LastCheckupDate = req.LastCheckupDate
	user.PhoneNumber = req.PhoneNumber
	user.EmergencyNumber = req.EmergencyNumber
	user.Address = req.Address
	user.HealthInsuranceProvider = req.HealthInsurance
	user.HealthPolicyID = req.HealthPolicyID
	user.HealthGroupNumber = req.HealthGroupNumber
	user.LifeInsuranceProvider = req.LifeInsurance
	user.LifePolicyID = req.LifePolicyID
	if req.NotificationsEnabled != nil {
		user.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := s.db.UpdateUserProfile(user); err != nil {
		return internalError(c, s.logger, err, "failed to update profile")
	}

	s.db.LogHistory(userID, "Profile", "Profile updated")
	return c.JSON(user)
}

var allowedPhotoExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func (s *Server) handleUploadPhoto(c *fiber.Ctx) error {
	userID := currentUserID(c)

	file, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "photo file is required")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExt[ext] {
		return badRequest(c, "unsupported image type")
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(s.cfg.Server.UploadDir, filename)); err != nil {
		return internalError(c, s.logger, err, "failed to store photo")
	}
	if err := s.db.UpdateUserPhoto(userID, filename); err != nil {
		return internalError(c, s.logger, err, "failed to record photo")
	}

	return c.JSON(fiber.Map{"photo_filename": filename})
}

func (s *Server) handleDeleteAccount(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := s.db.DeleteUser(userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to delete account")
	}
	return c.JSON(fiber.Map{"status": "account deleted"})
}

func parseIDParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id")
	}
	return int64(id), nil
}

// validDate reports whether s is a YYYY-MM-DD date.
func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

// validTime reports whether s is an HH:MM time.
func validTime(s string) bool {
	if len(s) != len(models.TimeLayout) {
		return false
	}
	_, err := time.Parse(models.TimeLayout, s)
	return err == nil
}
