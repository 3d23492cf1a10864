package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BMI(t *testing.T) {
	u := &User{WeightKg: 80, HeightCm: 180}
	assert.InDelta(t, 24.69, u.BMI(), 0.01)

	t.Run("unset biometrics", func(t *testing.T) {
		assert.Zero(t, (&User{WeightKg: 80}).BMI())
		assert.Zero(t, (&User{HeightCm: 180}).BMI())
	})
}

func TestBMICategory(t *testing.T) {
	assert.Equal(t, "N/A", BMICategory(0))
	assert.Equal(t, "Underweight", BMICategory(18.4))
	assert.Equal(t, "Normal weight", BMICategory(18.5))
	assert.Equal(t, "Normal weight", BMICategory(24.9))
	assert.Equal(t, "Overweight", BMICategory(25))
	assert.Equal(t, "Obese", BMICategory(30))
}

func TestMedicationReminder_Weekdays(t *testing.T) {
	r := &MedicationReminder{Days: "monday, Thursday ,sunday"}
	assert.Equal(t, []string{"monday", "thursday", "sunday"}, r.Weekdays())

	assert.True(t, r.OnWeekday("thursday"))
	assert.False(t, r.OnWeekday("tuesday"))

	t.Run("empty day set", func(t *testing.T) {
		empty := &MedicationReminder{}
		assert.Nil(t, empty.Weekdays())
		assert.False(t, empty.OnWeekday("monday"))
	})
}

func TestJoinWeekdays(t *testing.T) {
	assert.Equal(t, "monday,friday", JoinWeekdays([]string{" Monday", "", "FRIDAY "}))
	assert.Equal(t, "", JoinWeekdays(nil))
}

func TestAppointment_LocalStart(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	a := &Appointment{Date: "2026-08-31", Time: "14:30"}
	start, err := a.LocalStart(loc)
	require.NoError(t, err)

	assert.Equal(t, "2026-08-31T14:30:00+05:30", start.Format(time.RFC3339))
	assert.Equal(t, time.Monday, start.Weekday())

	t.Run("malformed time", func(t *testing.T) {
		bad := &Appointment{Date: "2026-08-31", Time: "2pm"}
		_, err := bad.LocalStart(loc)
		assert.Error(t, err)
	})
}
