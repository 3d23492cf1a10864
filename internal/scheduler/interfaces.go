package scheduler

import (
	"context"

	"healthassist/internal/models"
)

// Store provides the read side the scheduler needs each pass.
type Store interface {
	// ListNotifiableUsers returns users with notifications enabled and a
	// stored push subscription.
	ListNotifiableUsers() ([]*models.User, error)

	// ListReminders returns the user's recurring medication reminders.
	ListReminders(userID int64) ([]*models.MedicationReminder, error)

	// ListUpcomingAppointments returns the user's appointments on or after
	// fromDate (YYYY-MM-DD in the user's local calendar).
	ListUpcomingAppointments(userID int64, fromDate string) ([]*models.Appointment, error)
}

// Notifier delivers one notification to a user's registered channel.
type Notifier interface {
	Send(ctx context.Context, userID int64, title, body string) error
}
