package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"healthassist/internal/models"
)

func sampleData() *Data {
	return &Data{
		User: &models.User{
			ID: 1, Name: "Jane Doe", Email: "jane@example.com",
			Age: 44, Gender: "female", WeightKg: 68, HeightCm: 170,
			BloodGroup: "O+", SystolicBP: 120, DiastolicBP: 80,
		},
		Medications: []*models.Medication{
			{Name: "Lisinopril", Dosage: "10mg", Frequency: "daily", StartDate: "2026-01-01"},
		},
		Appointments: []*models.Appointment{
			{DoctorName: "Patel", Specialty: "Cardiology", Date: "2026-09-15", Time: "10:00", Reason: "follow-up"},
		},
		Exercise: []*models.ExerciseEntry{
			{ExerciseName: "Running", DurationSeconds: 1830, CaloriesBurned: 312.5,
				CompletedAt: time.Date(2026, 8, 30, 7, 15, 0, 0, time.UTC)},
		},
		Journal: []*models.JournalEntry{
			{Mood: 4, EntryText: "productive day", GratitudeText: "good coffee", LoggedAt: "2026-08-30"},
		},
		ReviewHTML: "<h4>Summary</h4><p>Keep it up &amp; stay active.</p>",
	}
}

func TestBuildText_Sections(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	text := BuildText(sampleData(), now)

	assert.Contains(t, text, "Health Report for: Jane Doe")
	assert.Contains(t, text, "Report Generated On: 2026-08-31 12:00:00")
	assert.Contains(t, text, "Blood Pressure: 120/80 mmHg")
	assert.Contains(t, text, "- Lisinopril (10mg), Frequency: daily")
	assert.Contains(t, text, "- Dr. Patel (Cardiology) on 2026-09-15 at 10:00")
	assert.Contains(t, text, "Running for 30m 30s (Est. 312.5 kcal)")
	assert.Contains(t, text, "Date: 2026-08-30 | Mood: Good")
	assert.Contains(t, text, "Grateful for: good coffee")
	assert.Contains(t, text, "Keep it up & stay active.")
	assert.NotContains(t, text, "<h4>")
}

func TestBuildText_EmptySections(t *testing.T) {
	d := &Data{User: &models.User{ID: 2, Name: "Empty", Email: "e@example.com"}}
	text := BuildText(d, time.Now())

	assert.Contains(t, text, "No medications listed.")
	assert.Contains(t, text, "No upcoming appointments.")
	assert.Contains(t, text, "No exercises logged.")
	assert.Contains(t, text, "No journal entries found.")
	assert.Contains(t, text, "No AI Health Review has been generated yet.")
	assert.Contains(t, text, "No diet plan has been generated and saved yet.")
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "HealthReport_Jane_Doe_20260831.txt", Filename("Jane Doe", now))
}

func TestMoodLabel(t *testing.T) {
	assert.Equal(t, "Sad", MoodLabel(1))
	assert.Equal(t, "Great", MoodLabel(5))
	assert.Equal(t, "Unknown", MoodLabel(9))
}

func TestHTMLToText(t *testing.T) {
	got := HTMLToText("<h4>Plan</h4><p>Eat more greens.</p><ul><li>Spinach</li><li>Kale</li></ul>")
	assert.Contains(t, got, "Plan")
	assert.Contains(t, got, "Eat more greens.")
	assert.Contains(t, got, "Spinach")
	assert.NotContains(t, got, "<")
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(sampleData(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Profile", "Medications", "Appointments", "Exercise Log", "Journal"},
		f.GetSheetList())

	rows, err := f.GetRows("Medications")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Lisinopril", rows[1][0])

	cell, err := f.GetCellValue("Profile", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Value", cell)
}
