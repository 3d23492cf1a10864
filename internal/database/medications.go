package database

import (
	"database/sql"
	"fmt"

	"healthassist/internal/models"
)

// CreateMedication adds a medication to the user's list.
func (db *DB) CreateMedication(m *models.Medication) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO medications (user_id, name, dosage, frequency, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, NULLIF(?, ''))`,
		m.UserID, m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create medication: %w", err)
	}
	return res.LastInsertId()
}

// ListMedications returns the user's medications, newest first.
func (db *DB) ListMedications(userID int64) ([]*models.Medication, error) {
	rows, err := db.Query(
		`SELECT id, user_id, name, dosage, frequency, start_date, COALESCE(end_date, ''), created_at
		 FROM medications WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		var m models.Medication
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency,
			&m.StartDate, &m.EndDate, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, &m)
	}
	return meds, rows.Err()
}

// UpdateMedication rewrites a medication's details if it belongs to the user.
func (db *DB) UpdateMedication(m *models.Medication) error {
	res, err := db.Exec(
		`UPDATE medications SET name = ?, dosage = ?, frequency = ?, start_date = ?,
			end_date = NULLIF(?, '') WHERE id = ? AND user_id = ?`,
		m.Name, m.Dosage, m.Frequency, m.StartDate, m.EndDate, m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMedication removes a medication if it belongs to the user.
func (db *DB) DeleteMedication(userID, medID int64) error {
	res, err := db.Exec(`DELETE FROM medications WHERE id = ? AND user_id = ?`, medID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateReminder adds a recurring medication reminder.
func (db *DB) CreateReminder(r *models.MedicationReminder) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO reminders (user_id, medication_id, med_name, time, days)
		 VALUES (?, NULLIF(?, 0), ?, ?, ?)`,
		r.UserID, r.MedicationID, r.MedName, r.Time, r.Days,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create reminder: %w", err)
	}
	return res.LastInsertId()
}

// ListReminders returns the user's medication reminders, earliest time first.
func (db *DB) ListReminders(userID int64) ([]*models.MedicationReminder, error) {
	rows, err := db.Query(
		`SELECT id, user_id, COALESCE(medication_id, 0), med_name, time, days, created_at
		 FROM reminders WHERE user_id = ? ORDER BY time`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*models.MedicationReminder
	for rows.Next() {
		var r models.MedicationReminder
		if err := rows.Scan(&r.ID, &r.UserID, &r.MedicationID, &r.MedName,
			&r.Time, &r.Days, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &r)
	}
	return reminders, rows.Err()
}

// GetReminder returns one reminder if it belongs to the user.
func (db *DB) GetReminder(userID, reminderID int64) (*models.MedicationReminder, error) {
	var r models.MedicationReminder
	err := db.QueryRow(
		`SELECT id, user_id, COALESCE(medication_id, 0), med_name, time, days, created_at
		 FROM reminders WHERE id = ? AND user_id = ?`, reminderID, userID).
		Scan(&r.ID, &r.UserID, &r.MedicationID, &r.MedName, &r.Time, &r.Days, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &r, nil
}

// UpdateReminder rewrites a reminder's schedule.
func (db *DB) UpdateReminder(r *models.MedicationReminder) error {
	res, err := db.Exec(
		`UPDATE reminders SET med_name = ?, time = ?, days = ? WHERE id = ? AND user_id = ?`,
		r.MedName, r.Time, r.Days, r.ID, r.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder removes a reminder if it belongs to the user.
func (db *DB) DeleteReminder(userID, reminderID int64) error {
	res, err := db.Exec(`DELETE FROM reminders WHERE id = ? AND user_id = ?`, reminderID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
