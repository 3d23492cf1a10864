package api

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"healthassist/internal/database"
	"healthassist/internal/report"
)

func (s *Server) reportData(userID int64) (*report.Data, error) {
	user, err := s.db.GetUser(userID)
	if err != nil {
		return nil, err
	}
	meds, err := s.db.ListMedications(userID)
	if err != nil {
		return nil, err
	}
	appts, err := s.db.ListAppointments(userID)
	if err != nil {
		return nil, err
	}
	exercise, err := s.db.ListExercise(userID, 200)
	if err != nil {
		return nil, err
	}
	journal, err := s.db.ListJournalEntries(userID, 200)
	if err != nil {
		return nil, err
	}

	data := &report.Data{
		User:         user,
		Medications:  meds,
		Appointments: appts,
		Exercise:     exercise,
		Journal:      journal,
	}

	if doc, err := s.db.LatestDietPlan(userID); err == nil {
		data.DietPlanHTML = doc.HTML
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	if doc, err := s.db.LatestHealthReview(userID); err == nil {
		data.ReviewHTML = doc.HTML
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	return data, nil
}

func (s *Server) handleDownloadReport(c *fiber.Ctx) error {
	userID := currentUserID(c)

	data, err := s.reportData(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to gather report data")
	}

	now := time.Now()
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", report.Filename(data.User.Name, now)))
	return c.SendString(report.BuildText(data, now))
}

func (s *Server) handleDownloadReportXLSX(c *fiber.Ctx) error {
	userID := currentUserID(c)

	data, err := s.reportData(userID)
	if err != nil {
		return internalError(c, s.logger, err, "failed to gather report data")
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(data, &buf); err != nil {
		return internalError(c, s.logger, err, "failed to build workbook")
	}

	filename := strings.TrimSuffix(report.Filename(data.User.Name, time.Now()), ".txt") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(buf.Bytes())
}
