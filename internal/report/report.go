package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"healthassist/internal/models"
)

// Data is everything that goes into a user's health report.
type Data struct {
	User         *models.User
	Medications  []*models.Medication
	Appointments []*models.Appointment
	Exercise     []*models.ExerciseEntry
	Journal      []*models.JournalEntry
	DietPlanHTML string
	ReviewHTML   string
}

var moodLabels = map[int]string{
	1: "Sad",
	2: "Okay",
	3: "Neutral",
	4: "Good",
	5: "Great",
}

// MoodLabel names a 1-5 mood score.
func MoodLabel(mood int) string {
	if label, ok := moodLabels[mood]; ok {
		return label
	}
	return "Unknown"
}

// Filename returns the download name for a text report.
func Filename(userName string, now time.Time) string {
	return fmt.Sprintf("HealthReport_%s_%s.txt",
		strings.ReplaceAll(userName, " ", "_"), now.Format("20060102"))
}

// BuildText renders the full plain-text health report.
func BuildText(d *Data, now time.Time) string {
	var b strings.Builder
	u := d.User

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("=========================================")
	line(" Health Report for: %s", u.Name)
	line(" Report Generated On: %s", now.Format("2006-01-02 15:04:05"))
	line("=========================================")

	line("\n--- Personal & Biometric Information ---\n")
	line("User ID: %d", u.ID)
	line("Email: %s", u.Email)
	line("Age: %s", intField(u.Age))
	line("Gender: %s", capitalize(u.Gender))
	line("Weight: %s kg", floatField(u.WeightKg))
	line("Height: %s cm", floatField(u.HeightCm))
	line("Blood Group: %s", textField(u.BloodGroup, "N/A"))
	line("Blood Sugar: %s mg/dL", intField(u.BloodSugar))
	line("Blood Pressure: %s/%s mmHg", intField(u.SystolicBP), intField(u.DiastolicBP))
	line("Cholesterol: %s mg/dL", intField(u.Cholesterol))

	line("\n--- Medical History ---\n")
	line("Chronic Illnesses: %s", textField(u.ChronicIllnesses, "None listed"))
	line("Past Surgeries: %s", textField(u.PastSurgeries, "None listed"))
	line("Family Genetic Diseases: %s", textField(u.GeneticDiseases, "None listed"))

	line("\n--- Current Medications ---\n")
	if len(d.Medications) == 0 {
		line("No medications listed.")
	}
	for _, m := range d.Medications {
		line("- %s (%s), Frequency: %s", m.Name, m.Dosage, m.Frequency)
	}

	line("\n--- Upcoming Appointments ---\n")
	if len(d.Appointments) == 0 {
		line("No upcoming appointments.")
	}
	for _, a := range d.Appointments {
		line("- Dr. %s (%s) on %s at %s", a.DoctorName, a.Specialty, a.Date, a.Time)
	}

	line("\n--- Exercise Log ---\n")
	if len(d.Exercise) == 0 {
		line("No exercises logged.")
	}
	for _, e := range d.Exercise {
		line("- %s: %s for %dm %ds (Est. %.1f kcal)",
			e.CompletedAt.Format("2006-01-02 15:04"), e.ExerciseName,
			e.DurationSeconds/60, e.DurationSeconds%60, e.CaloriesBurned)
	}

	line("\n--- Journal History ---\n")
	if len(d.Journal) == 0 {
		line("No journal entries found.")
	}
	for _, j := range d.Journal {
		line("Date: %s | Mood: %s", j.LoggedAt, MoodLabel(j.Mood))
		if j.EntryText != "" {
			line("  Thoughts: %s", j.EntryText)
		}
		if j.GratitudeText != "" {
			line("  Grateful for: %s", j.GratitudeText)
		}
		line(strings.Repeat("-", 20))
	}

	line("\n--- Most Recent AI Health Review ---\n")
	if d.ReviewHTML == "" {
		line("No AI Health Review has been generated yet.")
	} else {
		line("%s", HTMLToText(d.ReviewHTML))
	}

	line("\n--- Most Recent Diet Plan ---\n")
	if d.DietPlanHTML == "" {
		line("No diet plan has been generated and saved yet.")
	} else {
		line("%s", HTMLToText(d.DietPlanHTML))
	}

	return b.String()
}

var (
	blockTagRe = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|table|ul|ol)>|<br\s*/?>`)
	anyTagRe   = regexp.MustCompile(`<[^>]*>`)
	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText flattens stored AI HTML into readable plain text: block
// boundaries become newlines, all other tags are dropped.
func HTMLToText(html string) string {
	text := blockTagRe.ReplaceAllString(html, "\n")
	text = anyTagRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func capitalize(s string) string {
	if s == "" {
		return "N/A"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func textField(s, alt string) string {
	if strings.TrimSpace(s) == "" {
		return alt
	}
	return s
}

func intField(v int) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", v)
}

func floatField(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%g", v)
}
