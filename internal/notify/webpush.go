package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"healthassist/internal/config"
	"healthassist/internal/database"
	"healthassist/internal/models"
)

// ErrNoSubscription is returned when the user has no stored push
// subscription.
var ErrNoSubscription = errors.New("no push subscription for user")

// SubscriptionStore is the slice of the database the dispatcher needs.
type SubscriptionStore interface {
	GetPushSubscription(userID int64) (*models.PushSubscription, error)
	DeletePushSubscription(userID int64) error
}

// payload is the JSON body handed to the service worker.
type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Dispatcher sends browser push notifications signed with the server's
// VAPID keys. A 404 or 410 from the push service means the browser dropped
// the subscription; the stored copy is deleted so the user is not retried
// every pass.
type Dispatcher struct {
	cfg     config.PushConfig
	store   SubscriptionStore
	limiter *RateLimiter
	logger  *zerolog.Logger
}

func NewDispatcher(cfg config.PushConfig, store SubscriptionStore, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:     cfg,
		store:   store,
		limiter: NewRateLimiter(DefaultRateLimiterConfig()),
		logger:  logger,
	}
}

// Send pushes one notification to the user's registered browser.
func (d *Dispatcher) Send(ctx context.Context, userID int64, title, body string) error {
	stored, err := d.store.GetPushSubscription(userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNoSubscription
		}
		return fmt.Errorf("failed to load subscription: %w", err)
	}

	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(stored.SubscriptionJSON), &sub); err != nil {
		return fmt.Errorf("malformed stored subscription: %w", err)
	}

	msg, err := json.Marshal(payload{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, msg, &sub, &webpush.Options{
		Subscriber:      d.cfg.Subscriber,
		VAPIDPublicKey:  d.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: d.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return fmt.Errorf("push send failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		d.logger.Info().
			Int64("user_id", userID).
			Int("status", resp.StatusCode).
			Msg("Push subscription expired, removing")
		if err := d.store.DeletePushSubscription(userID); err != nil {
			d.logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to remove expired subscription")
		}
		return fmt.Errorf("subscription expired (status %d)", resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return nil
}
