package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/database"
	"healthassist/internal/models"
)

func (s *Server) handleListAppointments(c *fiber.Ctx) error {
	appts, err := s.db.ListAppointments(currentUserID(c))
	if err != nil {
		return internalError(c, s.logger, err, "failed to list appointments")
	}
	return c.JSON(fiber.Map{"appointments": appts})
}

type appointmentRequest struct {
	DoctorName string `json:"doctor_name"`
	Specialty  string `json:"specialty"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reason     string `json:"reason"`
	LeadHours  int    `json:"reminder_time"`
}

func (r *appointmentRequest) validate() error {
	if strings.TrimSpace(r.DoctorName) == "" {
		return fmt.Errorf("doctor_name is required")
	}
	if !validDate(r.Date) {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if !validTime(r.Time) {
		return fmt.Errorf("time must be HH:MM")
	}
	if r.LeadHours < 0 || r.LeadHours > 72 {
		return fmt.Errorf("reminder_time must be between 0 and 72 hours")
	}
	return nil
}

func (s *Server) handleCreateAppointment(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req appointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	id, err := s.db.CreateAppointment(&models.Appointment{
		UserID:     userID,
		DoctorName: req.DoctorName,
		Specialty:  req.Specialty,
		Date:       req.Date,
		Time:       req.Time,
		Reason:     req.Reason,
		LeadHours:  req.LeadHours,
	})
	if err != nil {
		return internalError(c, s.logger, err, "failed to create appointment")
	}

	s.db.LogHistory(userID, "Appointment",
		fmt.Sprintf("Scheduled appointment with Dr. %s on %s", req.DoctorName, req.Date))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) handleUpdateAppointment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var req appointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return badRequest(c, err.Error())
	}

	err = s.db.UpdateAppointment(&models.Appointment{
		ID:         id,
		UserID:     userID,
		DoctorName: req.DoctorName,
		Specialty:  req.Specialty,
		Date:       req.Date,
		Time:       req.Time,
		Reason:     req.Reason,
		LeadHours:  req.LeadHours,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to update appointment")
	}
	return c.JSON(fiber.Map{"status": "updated"})
}

func (s *Server) handleDeleteAppointment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	id, err := parseIDParam(c)
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}
	if err := s.db.DeleteAppointment(userID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, s.logger, err, "failed to delete appointment")
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
