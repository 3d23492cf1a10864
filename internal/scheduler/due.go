package scheduler

import (
	"fmt"
	"strings"
	"time"

	"healthassist/internal/models"
)

// Notification titles pushed to the browser.
const (
	TitleMedication  = "Medication Reminder"
	TitleAppointment = "Appointment Reminder"
)

// userLocation resolves the user's IANA timezone. An empty name means UTC;
// an unknown name is an error and the caller skips the user for this pass.
func userLocation(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}

// reminderDue reports whether a recurring medication reminder fires at
// localNow: the stored HH:MM must equal the current local minute and the
// current weekday must be in the reminder's day set. Malformed rows never
// fire.
func reminderDue(r *models.MedicationReminder, localNow time.Time) bool {
	if len(r.Time) != len(models.TimeLayout) {
		return false
	}
	if _, err := time.Parse(models.TimeLayout, r.Time); err != nil {
		return false
	}
	if localNow.Format(models.TimeLayout) != r.Time {
		return false
	}
	return r.OnWeekday(strings.ToLower(localNow.Weekday().String()))
}

// appointmentDue reports whether the appointment's lead reminder fires at
// localNow. The visit date must be on or after the user's local today, and
// the instant (start - lead hours) must land in the current local minute.
// Malformed rows never fire.
func appointmentDue(a *models.Appointment, localNow time.Time) bool {
	today := localNow.Format(models.DateLayout)
	if a.Date < today {
		return false
	}
	start, err := a.LocalStart(localNow.Location())
	if err != nil {
		return false
	}
	remindAt := start.Add(-time.Duration(a.LeadHours) * time.Hour)
	return remindAt.Truncate(time.Minute).Equal(localNow.Truncate(time.Minute))
}

// medicationBody is the push body for a due medication reminder.
func medicationBody(r *models.MedicationReminder) string {
	return fmt.Sprintf("It's time to take your medication: %s.", r.MedName)
}

// appointmentBody is the push body for a due appointment reminder. The time
// is rendered 12-hour in the user's zone.
func appointmentBody(a *models.Appointment, loc *time.Location) string {
	start, err := a.LocalStart(loc)
	if err != nil {
		return fmt.Sprintf("Your appointment with Dr. %s is at %s today.", a.DoctorName, a.Time)
	}
	return fmt.Sprintf("Your appointment with Dr. %s is at %s today.",
		a.DoctorName, start.Format("03:04 PM"))
}
