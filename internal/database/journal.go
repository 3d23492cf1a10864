package database

import (
	"database/sql"
	"fmt"

	"healthassist/internal/models"
)

// SaveJournalEntry stores the mood journal for a local date, replacing any
// earlier entry for the same day.
func (db *DB) SaveJournalEntry(e *models.JournalEntry) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM journal_log WHERE user_id = ? AND logged_at = ?`,
		e.UserID, e.LoggedAt); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO journal_log (user_id, mood, entry_text, gratitude_text, sentiment, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Mood, e.EntryText, e.GratitudeText, e.Sentiment, e.LoggedAt,
	); err != nil {
		return fmt.Errorf("failed to save journal entry: %w", err)
	}
	return tx.Commit()
}

// GetJournalEntry returns the entry for a local date, or ErrNotFound.
func (db *DB) GetJournalEntry(userID int64, loggedAt string) (*models.JournalEntry, error) {
	var e models.JournalEntry
	err := db.QueryRow(
		`SELECT id, user_id, mood, COALESCE(entry_text, ''), COALESCE(gratitude_text, ''),
			COALESCE(sentiment, ''), logged_at, created_at
		 FROM journal_log WHERE user_id = ? AND logged_at = ?`, userID, loggedAt).
		Scan(&e.ID, &e.UserID, &e.Mood, &e.EntryText, &e.GratitudeText,
			&e.Sentiment, &e.LoggedAt, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return &e, nil
}

// ListJournalEntries returns the user's journal, newest first.
func (db *DB) ListJournalEntries(userID int64, limit int) ([]*models.JournalEntry, error) {
	rows, err := db.Query(
		`SELECT id, user_id, mood, COALESCE(entry_text, ''), COALESCE(gratitude_text, ''),
			COALESCE(sentiment, ''), logged_at, created_at
		 FROM journal_log WHERE user_id = ? ORDER BY logged_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Mood, &e.EntryText, &e.GratitudeText,
			&e.Sentiment, &e.LoggedAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// MoodCounts returns how many journal entries carry each mood score (1-5)
// on or after fromDate (YYYY-MM-DD, the owner's local calendar).
func (db *DB) MoodCounts(userID int64, fromDate string) (map[int]int, error) {
	rows, err := db.Query(
		`SELECT mood, COUNT(*) FROM journal_log
		 WHERE user_id = ? AND logged_at >= ? GROUP BY mood`,
		userID, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count moods: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var mood, n int
		if err := rows.Scan(&mood, &n); err != nil {
			return nil, fmt.Errorf("failed to scan mood count: %w", err)
		}
		counts[mood] = n
	}
	return counts, rows.Err()
}

// AppendChatMessage stores one turn of an assistant conversation.
// kind is models.ChatPhysical or models.ChatMental.
func (db *DB) AppendChatMessage(userID int64, kind, role, content string) error {
	_, err := db.Exec(
		`INSERT INTO chat_history (user_id, kind, role, content) VALUES (?, ?, ?, ?)`,
		userID, kind, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// ListChatHistory returns the last limit turns of a conversation, oldest first.
func (db *DB) ListChatHistory(userID int64, kind string, limit int) ([]*models.ChatMessage, error) {
	rows, err := db.Query(
		`SELECT id, user_id, role, content, timestamp FROM (
			SELECT id, user_id, role, content, timestamp
			FROM chat_history WHERE user_id = ? AND kind = ?
			ORDER BY id DESC LIMIT ?
		 ) ORDER BY id`,
		userID, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat history: %w", err)
	}
	defer rows.Close()

	var msgs []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// ClearChatHistory deletes the whole conversation of one kind.
func (db *DB) ClearChatHistory(userID int64, kind string) error {
	_, err := db.Exec(`DELETE FROM chat_history WHERE user_id = ? AND kind = ?`, userID, kind)
	if err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}
	return nil
}
