package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/database"
	"healthassist/internal/models"
)

func (s *Server) handleListMedications(c *fiber.Ctx) error {
	meds, err := s.db.ListMedications(currentUserID(c))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list medications")
	}
	return c.JSON(fiber.Map{"medications": meds})
}

type medicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleCreateMedication(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req medicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "medication name is required")
	}
	if req.StartDate != "" && !validDate(req.StartDate) {
		return badRequest(c, "start_date must be YYYY-MM-DD")
	}
	if req.EndDate != "" && !validDate(req.EndDate) {
		return badRequest(c, "end_date must be YYYY-MM-DD")
	}

	id, err := s.db.CreateMedication(&models.Medication{
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return internalError(c, s.logger, err, "failed to create medication")
	}

	s.db.LogHistory(userID, "Medication", fmt.Sprintf("Added medication %s", req.Name))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleUpdateMedication(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid medication id")
	}

	var req medicationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "medication name is required")
	}
	if req.StartDate != "" && !validDate(req.StartDate) {
		return badRequest(c, "start_date must be YYYY-MM-DD")
	}
	if req.EndDate != "" && !validDate(req.EndDate) {
		return badRequest(c, "end_date must be YYYY-MM-DD")
	}

	err = s.db.UpdateMedication(&models.Medication{
		ID:        id,
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to update medication")
	}

	s.db.LogHistory(userID, "Medication", fmt.Sprintf("Updated medication %s", req.Name))
	return c.JSON(fiber.Map{"status": "updated"})
}

func (s *Server) handleDeleteMedication(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid medication id")
	}
	if err := s.db.DeleteMedication(userID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to delete medication")
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (s *Server) handleListReminders(c *fiber.Ctx) error {
	reminders, err := s.db.ListReminders(currentUserID(c))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list reminders")
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

type reminderRequest struct {
	MedicationID int64    `json:"medication_id"`
	MedName      string   `json:"med_name"`
	Time         string   `json:"time"`
	Days         []string `json:"days"`
}

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func (r *reminderRequest) validate() error {
	if strings.TrimSpace(r.MedName) == "" {
		return fmt.Errorf("med_name is required")
	}
	if !validTime(r.Time) {
		return fmt.Errorf("time must be HH:MM")
	}
	if len(r.Days) == 0 {
		return fmt.Errorf("at least one day is required")
	}
	for _, d := range r.Days {
		if !weekdayNames[strings.ToLower(strings.TrimSpace(d))] {
			return fmt.Errorf("unknown day %q", d)
		}
	}
	return nil
}

func (s *Server) handleCreateReminder(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	id, err := s.db.CreateReminder(&models.MedicationReminder{
		UserID:       userID,
		MedicationID: req.MedicationID,
		MedName:      req.MedName,
		Time:         req.Time,
		Days:         models.JoinWeekdays(req.Days),
	})
	if err != nil {
		return internalError(c, s.logger, err, "failed to create reminder")
	}

	s.db.LogHistory(userID, "Medication", fmt.Sprintf("Added reminder for %s at %s", req.MedName, req.Time))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleUpdateReminder(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}

	var req reminderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err = s.db.UpdateReminder(&models.MedicationReminder{
		ID:      id,
		UserID:  userID,
		MedName: req.MedName,
		Time:    req.Time,
		Days:    models.JoinWeekdays(req.Days),
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to update reminder")
	}
	return c.JSON(fiber.Map{"status": "updated"})
}

func (s *Server) handleDeleteReminder(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid reminder id")
	}
	if err := s.db.DeleteReminder(userID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to delete reminder")
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
