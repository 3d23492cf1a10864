package database

import (
	"database/sql"
	"fmt"

	"healthassist/internal/models"
)

// SavePushSubscription stores or replaces the user's browser push
// subscription. Each user keeps at most one.
func (db *DB) SavePushSubscription(userID int64, subscriptionJSON string) error {
	_, err := db.Exec(
		`INSERT INTO push_subscriptions (user_id, subscription_json) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET subscription_json = excluded.subscription_json`,
		userID, subscriptionJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

// GetPushSubscription returns the user's stored subscription, or ErrNotFound.
func (db *DB) GetPushSubscription(userID int64) (*models.PushSubscription, error) {
	var s models.PushSubscription
	err := db.QueryRow(
		`SELECT user_id, subscription_json FROM push_subscriptions WHERE user_id = ?`, userID).
		Scan(&s.UserID, &s.SubscriptionJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get push subscription: %w", err)
	}
	return &s, nil
}

// DeletePushSubscription removes the user's subscription. Called on
// unsubscribe and when the push service reports the endpoint gone.
func (db *DB) DeletePushSubscription(userID int64) error {
	_, err := db.Exec(`DELETE FROM push_subscriptions WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}
