package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassist/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) int64 {
	t.Helper()
	id, err := db.CreateUser("Test User", email, "hash", 30, "female")
	require.NoError(t, err)
	return id
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	_, err := db.CreateUser("A", "dup@example.com", "h", 20, "male")
	require.NoError(t, err)

	_, err = db.CreateUser("B", "dup@example.com", "h", 25, "female")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestGetUserByEmail_NormalizesCase(t *testing.T) {
	db := newTestDB(t)
	id := createTestUser(t, db, "casey@example.com")

	u, err := db.GetUserByEmail("  Casey@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
}

func TestUpdateUserProfile_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	id := createTestUser(t, db, "profile@example.com")

	u, err := db.GetUser(id)
	require.NoError(t, err)

	u.Timezone = "Asia/Kolkata"
	u.WeightKg = 72.5
	u.HeightCm = 175
	u.NotificationsEnabled = false
	require.NoError(t, db.UpdateUserProfile(u))

	got, err := db.GetUser(id)
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", got.Timezone)
	assert.Equal(t, 72.5, got.WeightKg)
	assert.False(t, got.NotificationsEnabled)
}

func TestReminderCRUD(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "rem@example.com")

	id, err := db.CreateReminder(&models.MedicationReminder{
		UserID:  userID,
		MedName: "Aspirin",
		Time:    "09:00",
		Days:    "monday,thursday",
	})
	require.NoError(t, err)

	reminders, err := db.ListReminders(userID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "Aspirin", reminders[0].MedName)
	assert.True(t, reminders[0].OnWeekday("monday"))

	r := reminders[0]
	r.Time = "21:30"
	require.NoError(t, db.UpdateReminder(r))

	got, err := db.GetReminder(userID, id)
	require.NoError(t, err)
	assert.Equal(t, "21:30", got.Time)

	require.NoError(t, db.DeleteReminder(userID, id))
	_, err = db.GetReminder(userID, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteReminder_WrongOwner(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")

	id, err := db.CreateReminder(&models.MedicationReminder{
		UserID: owner, MedName: "Ibuprofen", Time: "08:00", Days: "friday",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, db.DeleteReminder(other, id), ErrNotFound)

	reminders, err := db.ListReminders(owner)
	require.NoError(t, err)
	assert.Len(t, reminders, 1)
}

func TestListUpcomingAppointments_FiltersPastDates(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "appt@example.com")

	for _, date := range []string{"2026-01-10", "2026-03-01", "2026-05-20"} {
		_, err := db.CreateAppointment(&models.Appointment{
			UserID:     userID,
			DoctorName: "Smith",
			Specialty:  "Cardiology",
			Date:       date,
			Time:       "14:30",
			Reason:     "checkup",
			LeadHours:  2,
		})
		require.NoError(t, err)
	}

	upcoming, err := db.ListUpcomingAppointments(userID, "2026-03-01")
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "2026-03-01", upcoming[0].Date)
	assert.Equal(t, "2026-05-20", upcoming[1].Date)
}

func TestListNotifiableUsers(t *testing.T) {
	db := newTestDB(t)

	subscribed := createTestUser(t, db, "sub@example.com")
	require.NoError(t, db.SavePushSubscription(subscribed, `{"endpoint":"https://push.example/1"}`))

	// Subscribed but notifications turned off.
	muted := createTestUser(t, db, "muted@example.com")
	require.NoError(t, db.SavePushSubscription(muted, `{"endpoint":"https://push.example/2"}`))
	u, err := db.GetUser(muted)
	require.NoError(t, err)
	u.NotificationsEnabled = false
	require.NoError(t, db.UpdateUserProfile(u))

	// Enabled but never subscribed.
	createTestUser(t, db, "nosub@example.com")

	users, err := db.ListNotifiableUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, subscribed, users[0].ID)
}

func TestSavePushSubscription_ReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "push@example.com")

	require.NoError(t, db.SavePushSubscription(userID, `{"endpoint":"old"}`))
	require.NoError(t, db.SavePushSubscription(userID, `{"endpoint":"new"}`))

	sub, err := db.GetPushSubscription(userID)
	require.NoError(t, err)
	assert.Equal(t, `{"endpoint":"new"}`, sub.SubscriptionJSON)

	require.NoError(t, db.DeletePushSubscription(userID))
	_, err = db.GetPushSubscription(userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogWeight_OnePerDay(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "weight@example.com")

	require.NoError(t, db.LogWeight(userID, 80.0, "2026-08-30"))
	require.NoError(t, db.LogWeight(userID, 79.4, "2026-08-30"))
	require.NoError(t, db.LogWeight(userID, 79.0, "2026-08-31"))

	entries, err := db.ListWeights(userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 79.4, entries[0].WeightKg)
	assert.Equal(t, 79.0, entries[1].WeightKg)
}

func TestJournalEntry_ReplacesSameDay(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "journal@example.com")

	require.NoError(t, db.SaveJournalEntry(&models.JournalEntry{
		UserID: userID, Mood: 2, EntryText: "rough day", LoggedAt: "2026-08-31",
	}))
	require.NoError(t, db.SaveJournalEntry(&models.JournalEntry{
		UserID: userID, Mood: 4, EntryText: "better now", Sentiment: "Positive", LoggedAt: "2026-08-31",
	}))

	got, err := db.GetJournalEntry(userID, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Mood)
	assert.Equal(t, "better now", got.EntryText)
	assert.Equal(t, "Positive", got.Sentiment)
}

func TestChatHistory_OrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "chat@example.com")

	for i := 0; i < 5; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleBot
		}
		require.NoError(t, db.AppendChatMessage(userID, models.ChatPhysical, role, "msg"))
	}
	require.NoError(t, db.AppendChatMessage(userID, models.ChatMental, models.RoleUser, "other kind"))

	msgs, err := db.ListChatHistory(userID, models.ChatPhysical, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Less(t, msgs[0].ID, msgs[2].ID)

	require.NoError(t, db.ClearChatHistory(userID, models.ChatPhysical))
	msgs, err = db.ListChatHistory(userID, models.ChatPhysical, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	mental, err := db.ListChatHistory(userID, models.ChatMental, 10)
	require.NoError(t, err)
	assert.Len(t, mental, 1)
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := newTestDB(t)
	userID := createTestUser(t, db, "gone@example.com")

	_, err := db.CreateReminder(&models.MedicationReminder{
		UserID: userID, MedName: "Metformin", Time: "12:00", Days: "monday",
	})
	require.NoError(t, err)
	require.NoError(t, db.SavePushSubscription(userID, `{"endpoint":"e"}`))

	require.NoError(t, db.DeleteUser(userID))

	reminders, err := db.ListReminders(userID)
	require.NoError(t, err)
	assert.Empty(t, reminders)
	_, err = db.GetPushSubscription(userID)
	assert.ErrorIs(t, err, ErrNotFound)
}
