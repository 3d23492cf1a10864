package models

import (
	"strings"
	"time"
)

// Layouts for the local date/time strings stored on reminders and appointments.
// These values carry no zone; they are interpreted in the owning user's timezone.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// User is an account with a health profile. Timezone is an IANA zone name;
// an empty value means UTC.
type User struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Age          int     `json:"age"`
	Gender       string  `json:"gender"`
	Timezone     string  `json:"timezone"`
	WeightKg     float64 `json:"weight,omitempty"`
	HeightCm     float64 `json:"height,omitempty"`
	BloodGroup   string  `json:"blood_group,omitempty"`
	BloodSugar   int     `json:"blood_sugar,omitempty"`
	SystolicBP   int     `json:"systolic_bp,omitempty"`
	DiastolicBP  int     `json:"diastolic_bp,omitempty"`
	Cholesterol  int     `json:"cholesterol,omitempty"`

	ChronicIllnesses string `json:"chronic_illnesses,omitempty"`
	PastSurgeries    string `json:"past_surgeries,omitempty"`
	GeneticDiseases  string `json:"genetic_diseases,omitempty"`
	LastCheckupDate  string `json:"last_checkup_date,omitempty"`

	PhoneNumber     string `json:"phone_number,omitempty"`
	EmergencyNumber string `json:"emergency_number,omitempty"`
	Address         string `json:"address,omitempty"`
	PhotoFilename   string `json:"photo_filename,omitempty"`

	HealthInsuranceProvider string `json:"health_insurance_provider,omitempty"`
	HealthPolicyID          string `json:"health_policy_id,omitempty"`
	HealthGroupNumber       string `json:"health_group_number,omitempty"`
	LifeInsuranceProvider   string `json:"life_insurance_provider,omitempty"`
	LifePolicyID            string `json:"life_policy_id,omitempty"`

	NotificationsEnabled bool      `json:"notifications_enabled"`
	IsAdmin              bool      `json:"is_admin"`
	IsBlocked            bool      `json:"is_blocked"`
	CreatedAt            time.Time `json:"created_at"`
}

// BMI returns the body mass index, or 0 if weight/height are unset.
func (u *User) BMI() float64 {
	if u.WeightKg <= 0 || u.HeightCm <= 0 {
		return 0
	}
	h := u.HeightCm / 100
	return u.WeightKg / (h * h)
}

// BMICategory classifies a BMI value using the standard WHO cut-offs.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "N/A"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// Medication is a drug the user currently takes.
type Medication struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"start_date"` // YYYY-MM-DD
	EndDate   string    `json:"end_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MedicationReminder is a recurring reminder: fire at Time (local HH:MM,
// owner's timezone) on each weekday in Days. Days is stored as a
// comma-joined list of lowercase full day names ("monday,thursday").
type MedicationReminder struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	MedicationID int64     `json:"medication_id,omitempty"`
	MedName      string    `json:"med_name"`
	Time         string    `json:"time"`
	Days         string    `json:"days"`
	CreatedAt    time.Time `json:"created_at"`
}

// Weekdays returns the day set as a slice of lowercase day names.
func (r *MedicationReminder) Weekdays() []string {
	if r.Days == "" {
		return nil
	}
	parts := strings.Split(r.Days, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OnWeekday reports whether the reminder recurs on the given lowercase
// full day name (e.g. "monday").
func (r *MedicationReminder) OnWeekday(day string) bool {
	for _, d := range r.Weekdays() {
		if d == day {
			return true
		}
	}
	return false
}

// JoinWeekdays normalizes a day-name list into the stored representation.
func JoinWeekdays(days []string) string {
	norm := make([]string, 0, len(days))
	for _, d := range days {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			norm = append(norm, d)
		}
	}
	return strings.Join(norm, ",")
}

// Appointment is a one-shot doctor visit. Date and Time are local to the
// owner's timezone; a reminder fires LeadHours before the visit.
type Appointment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	DoctorName string    `json:"doctor_name"`
	Specialty  string    `json:"specialty"`
	Date       string    `json:"date"` // YYYY-MM-DD
	Time       string    `json:"time"` // HH:MM
	Reason     string    `json:"reason"`
	LeadHours  int       `json:"reminder_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// LocalStart parses the appointment's date and time in the given location.
func (a *Appointment) LocalStart(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, a.Date+" "+a.Time, loc)
}

// ExerciseEntry is a completed workout.
type ExerciseEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ExerciseName    string    `json:"exercise_name"`
	DurationSeconds int       `json:"duration_seconds"`
	CaloriesBurned  float64   `json:"calories_burned"`
	CompletedAt     time.Time `json:"completed_at"`
}

// WeightEntry is one point of the weight trend, at most one per day.
type WeightEntry struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	WeightKg float64 `json:"weight"`
	LoggedAt string  `json:"logged_at"` // YYYY-MM-DD
}

// JournalEntry is the daily mood journal record, one per local date.
// Mood ranges 1 (sad) to 5 (great).
type JournalEntry struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Mood          int       `json:"mood"`
	EntryText     string    `json:"entry_text,omitempty"`
	GratitudeText string    `json:"gratitude_text,omitempty"`
	Sentiment     string    `json:"sentiment,omitempty"`
	LoggedAt      string    `json:"logged_at"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"created_at"`
}

// Chat kinds kept in separate histories.
const (
	ChatPhysical = "physical"
	ChatMental   = "mental"
)

// Chat roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEvent is an audit record ("Security", "Medication", "Admin", ...).
type HistoryEvent struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"event_timestamp"`
}

// PushSubscription is the raw browser push subscription for a user,
// stored as the JSON blob the browser hands back; one per user.
type PushSubscription struct {
	UserID           int64  `json:"user_id"`
	SubscriptionJSON string `json:"subscription_json"`
}

// AIDocument is a stored generated document (diet plan or health review).
type AIDocument struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}
