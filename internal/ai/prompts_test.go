package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"healthassist/internal/models"
)

func TestSymptomPrompt(t *testing.T) {
	p := SymptomPrompt("headache, nausea", "moderate", "3 days")

	assert.Contains(t, p, "Symptoms: headache, nausea")
	assert.Contains(t, p, "Severity: moderate")
	assert.Contains(t, p, "Duration: 3 days")
	assert.Contains(t, p, "Possible Conditions")
	assert.Contains(t, p, "Important Disclaimer")
}

func TestSentimentPrompt_SingleWordInstruction(t *testing.T) {
	p := SentimentPrompt("I had a wonderful day")

	assert.Contains(t, p, "only a single word")
	assert.Contains(t, p, "'Positive', 'Negative', or 'Neutral'")
	assert.Contains(t, p, "I had a wonderful day")
}

func TestPhysicalChatPrompt_TruncatesHistory(t *testing.T) {
	var history []*models.ChatMessage
	for i := 0; i < 10; i++ {
		history = append(history, &models.ChatMessage{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		})
	}

	p := PhysicalChatPrompt(history, "What about my knee?")

	assert.NotContains(t, p, "message 3")
	assert.Contains(t, p, "message 4")
	assert.Contains(t, p, "message 9")
	assert.Contains(t, p, "Patient's Question: What about my knee?")
}

func TestPhysicalChatPrompt_RoleLabels(t *testing.T) {
	history := []*models.ChatMessage{
		{Role: models.RoleUser, Content: "my back hurts"},
		{Role: models.RoleBot, Content: "how long has it hurt?"},
	}

	p := PhysicalChatPrompt(history, "about a week")

	assert.Contains(t, p, "Patient: my back hurts")
	assert.Contains(t, p, "Doctor: how long has it hurt?")
}

func TestMindfulChatPrompt_CarriesCrisisProtocol(t *testing.T) {
	p := MindfulChatPrompt(nil, "I feel overwhelmed")

	assert.Contains(t, p, "MindWell")
	assert.Contains(t, p, CrisisResponse)
	assert.Contains(t, p, "User's new message:** I feel overwhelmed")
}

func TestDietPlanPrompt_MissingBiometrics(t *testing.T) {
	u := &models.User{Age: 40, Gender: "male"}
	p := DietPlanPrompt(u)

	assert.Contains(t, p, "BMI: N/A")
	assert.Contains(t, p, "Blood Sugar: Not set")
	assert.Contains(t, p, "Chronic Illnesses: None listed")
}

func TestHealthReviewPrompt_IncludesMedsAndAppointments(t *testing.T) {
	u := &models.User{Age: 55, Gender: "female", WeightKg: 70, HeightCm: 165}
	meds := []*models.Medication{{Name: "Lisinopril", Dosage: "10mg"}}
	appts := []*models.Appointment{{DoctorName: "Patel", Specialty: "Cardiology", Date: "2026-09-15"}}

	p := HealthReviewPrompt(u, meds, appts)

	assert.Contains(t, p, "- Lisinopril (10mg)")
	assert.Contains(t, p, "- Dr. Patel (Cardiology) on 2026-09-15")
	assert.Contains(t, p, "25.7")
}

func TestHealthReviewPrompt_EmptyLists(t *testing.T) {
	p := HealthReviewPrompt(&models.User{Age: 30}, nil, nil)

	assert.Contains(t, p, "Current Medications: None")
	assert.Contains(t, p, "Upcoming Appointments: None")
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "<p>hi</p>", CleanHTML("```html\n<p>hi</p>\n```"))
	assert.Equal(t, "<p>hi</p>", CleanHTML("```\n<p>hi</p>\n```"))
	assert.Equal(t, "<p>hi</p>", CleanHTML("  <p>hi</p>  "))
}
