package database

import (
	"database/sql"
	"fmt"

	"healthassist/internal/models"
)

// CreateAppointment schedules a new doctor visit.
func (db *DB) CreateAppointment(a *models.Appointment) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO appointments (user_id, doctor_name, specialty, date, time, reason, reminder_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.DoctorName, a.Specialty, a.Date, a.Time, a.Reason, a.LeadHours,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}
	return res.LastInsertId()
}

// ListAppointments returns all of the user's appointments, soonest first.
func (db *DB) ListAppointments(userID int64) ([]*models.Appointment, error) {
	return db.queryAppointments(
		`SELECT id, user_id, doctor_name, specialty, date, time, reason, reminder_time, created_at
		 FROM appointments WHERE user_id = ? ORDER BY date, time`, userID)
}

// ListUpcomingAppointments returns the user's appointments on or after
// fromDate (a YYYY-MM-DD string). The scheduler passes the user's local
// "today" so past visits never produce reminders.
func (db *DB) ListUpcomingAppointments(userID int64, fromDate string) ([]*models.Appointment, error) {
	return db.queryAppointments(
		`SELECT id, user_id, doctor_name, specialty, date, time, reason, reminder_time, created_at
		 FROM appointments WHERE user_id = ? AND date >= ? ORDER BY date, time`, userID, fromDate)
}

func (db *DB) queryAppointments(query string, args ...any) ([]*models.Appointment, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.DoctorName, &a.Specialty,
			&a.Date, &a.Time, &a.Reason, &a.LeadHours, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}

// GetAppointment returns one appointment if it belongs to the user.
func (db *DB) GetAppointment(userID, apptID int64) (*models.Appointment, error) {
	var a models.Appointment
	err := db.QueryRow(
		`SELECT id, user_id, doctor_name, specialty, date, time, reason, reminder_time, created_at
		 FROM appointments WHERE id = ? AND user_id = ?`, apptID, userID).
		Scan(&a.ID, &a.UserID, &a.DoctorName, &a.Specialty,
			&a.Date, &a.Time, &a.Reason, &a.LeadHours, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

// UpdateAppointment rewrites an appointment's details.
func (db *DB) UpdateAppointment(a *models.Appointment) error {
	res, err := db.Exec(
		`UPDATE appointments SET doctor_name = ?, specialty = ?, date = ?, time = ?,
			reason = ?, reminder_time = ?
		 WHERE id = ? AND user_id = ?`,
		a.DoctorName, a.Specialty, a.Date, a.Time, a.Reason, a.LeadHours, a.ID, a.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAppointment removes an appointment if it belongs to the user.
func (db *DB) DeleteAppointment(userID, apptID int64) error {
	res, err := db.Exec(`DELETE FROM appointments WHERE id = ? AND user_id = ?`, apptID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
