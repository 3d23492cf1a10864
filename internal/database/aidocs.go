package database

import (
	"database/sql"
	"fmt"

	"healthassist/internal/models"
)

// SaveDietPlan stores a freshly generated diet plan.
func (db *DB) SaveDietPlan(userID int64, planHTML string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO diet_plans (user_id, plan_html) VALUES (?, ?)`, userID, planHTML)
	if err != nil {
		return 0, fmt.Errorf("failed to save diet plan: %w", err)
	}
	return res.LastInsertId()
}

// LatestDietPlan returns the user's most recent diet plan, or ErrNotFound.
func (db *DB) LatestDietPlan(userID int64) (*models.AIDocument, error) {
	return db.latestDoc(userID,
		`SELECT id, user_id, plan_html, created_at
		 FROM diet_plans WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`)
}

// SaveHealthReview stores a freshly generated health review.
func (db *DB) SaveHealthReview(userID int64, reviewHTML string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO health_reviews (user_id, review_html) VALUES (?, ?)`, userID, reviewHTML)
	if err != nil {
		return 0, fmt.Errorf("failed to save health review: %w", err)
	}
	return res.LastInsertId()
}

// LatestHealthReview returns the user's most recent review, or ErrNotFound.
func (db *DB) LatestHealthReview(userID int64) (*models.AIDocument, error) {
	return db.latestDoc(userID,
		`SELECT id, user_id, review_html, created_at
		 FROM health_reviews WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`)
}

func (db *DB) latestDoc(userID int64, query string) (*models.AIDocument, error) {
	var doc models.AIDocument
	err := db.QueryRow(query, userID).Scan(&doc.ID, &doc.UserID, &doc.HTML, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return &doc, nil
}
