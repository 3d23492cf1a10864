package notify

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthassist/internal/config"
	"healthassist/internal/database"
	"healthassist/internal/models"
)

func pushConfig(pub, priv string) config.PushConfig {
	return config.PushConfig{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subscriber:      "mailto:ops@example.com",
	}
}

type fakeSubStore struct {
	subs    map[int64]string
	deleted []int64
}

func (s *fakeSubStore) GetPushSubscription(userID int64) (*models.PushSubscription, error) {
	raw, ok := s.subs[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &models.PushSubscription{UserID: userID, SubscriptionJSON: raw}, nil
}

func (s *fakeSubStore) DeletePushSubscription(userID int64) error {
	s.deleted = append(s.deleted, userID)
	delete(s.subs, userID)
	return nil
}

// subscriptionJSON builds a browser-shaped subscription pointing at endpoint,
// with a real P-256 key so payload encryption succeeds.
func subscriptionJSON(t *testing.T, endpoint string) string {
	t.Helper()

	key, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)

	raw, err := json.Marshal(map[string]any{
		"endpoint": endpoint,
		"keys": map[string]string{
			"p256dh": base64.RawURLEncoding.EncodeToString(key.PublicKey().Bytes()),
			"auth":   base64.RawURLEncoding.EncodeToString(auth),
		},
	})
	require.NoError(t, err)
	return string(raw)
}

func newTestDispatcher(t *testing.T, store *fakeSubStore) *Dispatcher {
	t.Helper()

	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)

	logger := zerolog.Nop()
	d := NewDispatcher(pushConfig(pub, priv), store, &logger)
	// No jitter in tests.
	d.limiter = NewRateLimiter(RateLimiterConfig{Rate: 1000, Burst: 1000})
	return d
}

func TestSend_DeliversToEndpoint(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	store := &fakeSubStore{subs: map[int64]string{1: subscriptionJSON(t, server.URL)}}
	d := newTestDispatcher(t, store)

	err := d.Send(context.Background(), 1, "Medication Reminder", "It's time to take your medication: Aspirin.")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Empty(t, store.deleted)
}

func TestSend_GoneEndpointRemovesSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer server.Close()

	store := &fakeSubStore{subs: map[int64]string{7: subscriptionJSON(t, server.URL)}}
	d := newTestDispatcher(t, store)

	err := d.Send(context.Background(), 7, "t", "b")
	assert.Error(t, err)
	assert.Equal(t, []int64{7}, store.deleted)
}

func TestSend_NoSubscription(t *testing.T) {
	d := newTestDispatcher(t, &fakeSubStore{subs: map[int64]string{}})

	err := d.Send(context.Background(), 42, "t", "b")
	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestSend_MalformedStoredSubscription(t *testing.T) {
	store := &fakeSubStore{subs: map[int64]string{1: "{not json"}}
	d := newTestDispatcher(t, store)

	err := d.Send(context.Background(), 1, "t", "b")
	assert.Error(t, err)
	assert.Empty(t, store.deleted)
}

func TestRateLimiter_BurstExhaustion(t *testing.T) {
	r := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})

	assert.True(t, r.TryAcquire())
	assert.True(t, r.TryAcquire())
	assert.False(t, r.TryAcquire())
}

func TestRateLimiter_WaitHonoursCancel(t *testing.T) {
	r := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 1})
	require.True(t, r.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
