package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassist/internal/config"
	"healthassist/internal/database"
	"healthassist/internal/notify"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	logger := zerolog.Nop()

	db, err := database.NewDB(filepath.Join(dir, "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret"
	cfg.Server.UploadDir = filepath.Join(dir, "uploads")
	cfg.Push.Subscriber = "mailto:test@example.com"

	notifier := notify.NewDispatcher(cfg.Push, db, &logger)
	return New(cfg, db, nil, notifier, &logger)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, s *Server, email string) string {
	t.Helper()

	resp := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Test User", "email": email, "password": "hunter2secret", "age": 30, "gender": "female",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "dup@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Other", "email": "dup@example.com", "password": "hunter2secret",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegister_ShortPassword(t *testing.T) {
	s := newTestServer(t)
	resp := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "A", "email": "short@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "login@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "login@example.com", "password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_Succeeds(t *testing.T) {
	s := newTestServer(t)
	registerAndLogin(t, s, "ok@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "OK@example.com", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.NotEmpty(t, body["token"])
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)

	resp := doJSON(t, s, http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfile_UpdateRejectsUnknownTimezone(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "tz@example.com")

	resp := doJSON(t, s, http.MethodPut, "/api/profile", token, map[string]any{
		"name": "Test User", "timezone": "Not/AZone",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPut, "/api/profile", token, map[string]any{
		"name": "Test User", "timezone": "Asia/Kolkata",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Asia/Kolkata", body["timezone"])
}

func TestReminderLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "rem@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/reminders", token, map[string]any{
		"med_name": "Aspirin", "time": "09:00", "days": []string{"Monday", "thursday"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(decode(t, resp)["id"].(float64))

	resp = doJSON(t, s, http.MethodGet, "/api/reminders", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	reminders := body["reminders"].([]any)
	require.Len(t, reminders, 1)
	first := reminders[0].(map[string]any)
	assert.Equal(t, "monday,thursday", first["days"])

	resp = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReminder_RejectsBadTimeAndDays(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "badrem@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/reminders", token, map[string]any{
		"med_name": "Aspirin", "time": "9am", "days": []string{"monday"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/reminders", token, map[string]any{
		"med_name": "Aspirin", "time": "09:00", "days": []string{"someday"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReminders_IsolatedPerUser(t *testing.T) {
	s := newTestServer(t)
	alice := registerAndLogin(t, s, "alice@example.com")
	bob := registerAndLogin(t, s, "bob@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/reminders", alice, map[string]any{
		"med_name": "Aspirin", "time": "09:00", "days": []string{"monday"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(decode(t, resp)["id"].(float64))

	resp = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/reminders/%d", id), bob, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAppointment_Validation(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "appt@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/appointments", token, map[string]any{
		"doctor_name": "Smith", "date": "31-12-2026", "time": "14:30", "reminder_time": 2,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/appointments", token, map[string]any{
		"doctor_name": "Smith", "specialty": "Cardiology",
		"date": "2026-12-31", "time": "14:30", "reason": "checkup", "reminder_time": 2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestPushSubscribe_RejectsPartialSubscription(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "push@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/push/subscribe", token, map[string]any{
		"endpoint": "https://push.example/abc",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/push/subscribe", token, map[string]any{
		"endpoint": "https://push.example/abc",
		"keys":     map[string]string{"p256dh": "key", "auth": "auth"},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAdminRoutes_ForbiddenForRegularUsers(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "user@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAIRoutes_UnavailableWithoutClient(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "noai@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/ai/symptom", token, map[string]any{
		"symptoms": "headache",
	})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestBMIAdvice_ComputesWithoutAI(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "bmi@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/ai/bmi", token, map[string]any{
		"age": 30, "gender": "male", "weight": 80, "height": 180,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.InDelta(t, 24.69, body["bmi"].(float64), 0.01)
	assert.Equal(t, "Normal weight", body["category"])
	_, hasAdvice := body["advice"]
	assert.False(t, hasAdvice)
}

func TestJournal_SaveAndFetch(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "journal@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/journal", token, map[string]any{
		"mood": 4, "entry_text": "good day", "logged_at": "2026-08-31",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/journal/2026-08-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, float64(4), body["mood"])
	assert.Equal(t, "Neutral", body["sentiment"])
}

func TestJournal_RejectsBadMood(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "mood@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/journal", token, map[string]any{"mood": 7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDownloadReport(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "report@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/report", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Health Report for: Test User")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "HealthReport_Test_User_")
}

func TestChat_HistorySeedsGreeting(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "chat@example.com")

	resp := doJSON(t, s, http.MethodGet, "/api/chat/physical", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	msgs := body["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, physicalWelcome, msgs[0].(map[string]any)["content"])

	// Mental chat starts empty.
	resp = doJSON(t, s, http.MethodGet, "/api/chat/mental", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Empty(t, body["messages"])

	resp = doJSON(t, s, http.MethodGet, "/api/chat/unknown", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_Summary(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "dash@example.com")

	resp := doJSON(t, s, http.MethodPut, "/api/profile", token, map[string]any{
		"name": "Test User", "age": 30, "gender": "female",
		"weight": 80, "height": 180,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodPost, "/api/appointments", token, map[string]any{
		"doctor_name": "Adams", "specialty": "Cardiology",
		"date": "2099-01-15", "time": "10:00", "reminder_time": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodPost, "/api/exercise", token, map[string]any{
		"exercise_name": "Running", "duration_seconds": 1200, "calories_burned": 150,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	assert.InDelta(t, 24.69, body["bmi"].(float64), 0.01)
	assert.Equal(t, "Normal weight", body["bmi_category"])

	next := body["next_appointment"].(map[string]any)
	assert.Equal(t, "Adams", next["doctor_name"])

	week := body["exercise_week"].(map[string]any)
	assert.EqualValues(t, 1, week["sessions"])
	assert.EqualValues(t, 1200, week["duration_seconds"])
}

func TestJournal_MoodSummary(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "moods@example.com")

	for _, mood := range []int{5, 5, 2} {
		resp := doJSON(t, s, http.MethodPost, "/api/journal", token, map[string]any{
			"mood": mood, "logged_at": fmt.Sprintf("2099-01-0%d", mood),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, s, http.MethodGet, "/api/journal/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	moods := body["moods"].(map[string]any)
	// Same-day entries replace each other, so the two mood-5 writes on
	// 2099-01-05 collapse into one.
	assert.EqualValues(t, 1, moods["5"])
	assert.EqualValues(t, 1, moods["2"])
	assert.EqualValues(t, 0, moods["1"])
}

func TestAdmin_PromoteAndDemote(t *testing.T) {
	s := newTestServer(t)
	alice := registerAndLogin(t, s, "padmin@example.com")
	registerAndLogin(t, s, "member@example.com")

	// Regular users cannot touch admin routes.
	resp := doJSON(t, s, http.MethodPost, "/api/admin/users/2/promote", alice, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The middleware reads the role from the database on every request, so
	// no re-login is needed.
	require.NoError(t, s.db.SetUserAdmin(1, true))

	resp = doJSON(t, s, http.MethodPost, "/api/admin/users/2/promote", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "promoted", decode(t, resp)["status"])

	user, err := s.db.GetUser(2)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	resp = doJSON(t, s, http.MethodPost, "/api/admin/users/2/demote", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user, err = s.db.GetUser(2)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	// Self-demotion is rejected.
	resp = doJSON(t, s, http.MethodPost, "/api/admin/users/1/demote", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMedicationLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerAndLogin(t, s, "meds@example.com")

	resp := doJSON(t, s, http.MethodPost, "/api/medications", token, map[string]any{
		"name": "Aspirin", "dosage": "100mg", "frequency": "daily", "start_date": "2026-01-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int(decode(t, resp)["id"].(float64))

	resp = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/medications/%d", id), token, map[string]any{
		"name": "Aspirin", "dosage": "200mg", "frequency": "twice daily", "start_date": "2026-01-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodGet, "/api/medications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meds := decode(t, resp)["medications"].([]any)
	require.Len(t, meds, 1)
	assert.Equal(t, "200mg", meds[0].(map[string]any)["dosage"])

	// Another user cannot touch it.
	mallory := registerAndLogin(t, s, "mallory@example.com")
	resp = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/medications/%d", id), mallory, map[string]any{
		"name": "Aspirin", "dosage": "500mg",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodPut, fmt.Sprintf("/api/medications/%d", id), token, map[string]any{
		"name": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodDelete, fmt.Sprintf("/api/medications/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAdmin_CreateUser(t *testing.T) {
	s := newTestServer(t)
	alice := registerAndLogin(t, s, "creator@example.com")

	// Regular users cannot create accounts through the admin surface.
	resp := doJSON(t, s, http.MethodPost, "/api/admin/users", alice, map[string]any{
		"name": "New User", "email": "new@example.com", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	require.NoError(t, s.db.SetUserAdmin(1, true))

	resp = doJSON(t, s, http.MethodPost, "/api/admin/users", alice, map[string]any{
		"name": "New User", "email": "new@example.com", "password": "hunter2secret",
		"age": 40, "gender": "male",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := int64(decode(t, resp)["user_id"].(float64))

	user, err := s.db.GetUser(id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	history, err := s.db.ListHistory(id, 10)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, "Admin", history[0].EventType)

	// Duplicate emails are rejected just like self-registration.
	resp = doJSON(t, s, http.MethodPost, "/api/admin/users", alice, map[string]any{
		"name": "New User", "email": "new@example.com", "password": "hunter2secret",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, s, http.MethodPost, "/api/admin/users", alice, map[string]any{
		"name": "Short", "email": "short@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The new account can log in normally.
	resp = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "new@example.com", "password": "hunter2secret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
