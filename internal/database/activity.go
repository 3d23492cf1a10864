package database

import (
	"fmt"
	"time"

	"healthassist/internal/models"
)

// LogExercise records a completed workout.
func (db *DB) LogExercise(e *models.ExerciseEntry) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO exercise_log (user_id, exercise_name, duration_seconds, calories_burned)
		 VALUES (?, ?, ?, ?)`,
		e.UserID, e.ExerciseName, e.DurationSeconds, e.CaloriesBurned,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to log exercise: %w", err)
	}
	return res.LastInsertId()
}

// ListExercise returns the user's workout history, newest first.
func (db *DB) ListExercise(userID int64, limit int) ([]*models.ExerciseEntry, error) {
	rows, err := db.Query(
		`SELECT id, user_id, exercise_name, duration_seconds, calories_burned, completed_at
		 FROM exercise_log WHERE user_id = ? ORDER BY completed_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise log: %w", err)
	}
	defer rows.Close()

	var entries []*models.ExerciseEntry
	for rows.Next() {
		var e models.ExerciseEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseName,
			&e.DurationSeconds, &e.CaloriesBurned, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exercise entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// LogWeight stores the weight reading for a local date, keeping one per day.
func (db *DB) LogWeight(userID int64, weightKg float64, loggedAt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to log weight: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM weight_log WHERE user_id = ? AND logged_at = ?`,
		userID, loggedAt); err != nil {
		return fmt.Errorf("failed to log weight: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO weight_log (user_id, weight, logged_at) VALUES (?, ?, ?)`,
		userID, weightKg, loggedAt); err != nil {
		return fmt.Errorf("failed to log weight: %w", err)
	}
	return tx.Commit()
}

// ListWeights returns the user's weight trend, oldest first.
func (db *DB) ListWeights(userID int64) ([]*models.WeightEntry, error) {
	rows, err := db.Query(
		`SELECT id, user_id, weight, logged_at
		 FROM weight_log WHERE user_id = ? ORDER BY logged_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight log: %w", err)
	}
	defer rows.Close()

	var entries []*models.WeightEntry
	for rows.Next() {
		var e models.WeightEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.WeightKg, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weight entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ExerciseTotalsSince sums the user's workouts completed at or after since.
func (db *DB) ExerciseTotalsSince(userID int64, since time.Time) (sessions int, seconds int, calories float64, err error) {
	err = db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(calories_burned), 0)
		 FROM exercise_log WHERE user_id = ? AND completed_at >= ?`,
		userID, since).Scan(&sessions, &seconds, &calories)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to total exercise log: %w", err)
	}
	return sessions, seconds, calories, nil
}

// LogHistory appends an audit event for the user's activity timeline.
// Failures are logged and swallowed: audit must never break the caller.
func (db *DB) LogHistory(userID int64, eventType, description string) {
	_, err := db.Exec(
		`INSERT INTO history_log (user_id, event_type, description) VALUES (?, ?, ?)`,
		userID, eventType, description,
	)
	if err != nil {
		db.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("event_type", eventType).
			Msg("Failed to write history log")
	}
}

// ListHistory returns the user's audit timeline, newest first.
func (db *DB) ListHistory(userID int64, limit int) ([]*models.HistoryEvent, error) {
	rows, err := db.Query(
		`SELECT id, user_id, event_type, COALESCE(description, ''), event_timestamp
		 FROM history_log WHERE user_id = ? ORDER BY event_timestamp DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var events []*models.HistoryEvent
	for rows.Next() {
		var ev models.HistoryEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.EventType, &ev.Description, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history event: %w", err)
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}
