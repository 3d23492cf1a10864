package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"

	"healthassist/internal/metrics"
	"healthassist/internal/models"
)

// Config holds configuration for the reminder scheduler.
type Config struct {
	// CheckInterval is how often a pass runs. The default of 59 seconds
	// keeps the pass drifting through each minute so no minute boundary
	// is skipped.
	CheckInterval time.Duration

	// MaxConcurrentNotifications limits parallel sends within one pass.
	MaxConcurrentNotifications int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CheckInterval:              59 * time.Second,
		MaxConcurrentNotifications: 10,
	}
}

// Scheduler periodically scans every notifiable user's reminders and
// appointments and pushes the ones due in the current minute. Delivery is
// at-least-once: nothing marks a reminder as sent, so a pass that fires
// twice within one minute may deliver a duplicate, while a crashed pass
// is simply retried by the next one.
type Scheduler struct {
	config   *Config
	store    Store
	notifier Notifier
	clk      clock.Clock
	logger   *zerolog.Logger

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates a scheduler. A nil config gets defaults; clk lets tests drive
// time, pass clock.New() in production.
func New(config *Config, store Store, notifier Notifier, clk clock.Clock, logger *zerolog.Logger) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = 59 * time.Second
	}
	if config.MaxConcurrentNotifications <= 0 {
		config.MaxConcurrentNotifications = 10
	}

	return &Scheduler{
		config:   config,
		store:    store,
		notifier: notifier,
		clk:      clk,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the check loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop()

	s.logger.Info().
		Dur("check_interval", s.config.CheckInterval).
		Int("max_concurrent", s.config.MaxConcurrentNotifications).
		Msg("Reminder scheduler started")
}

// Stop gracefully stops the scheduler, waiting for an in-flight pass.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.logger.Info().Msg("Reminder scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	// Run immediately on start
	s.RunPass(context.Background())

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.RunPass(context.Background())
		}
	}
}

// RunPass executes one scheduler pass. The wall-clock instant is read once
// and converted per user, so every user is judged against the same moment.
func (s *Scheduler) RunPass(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	started := s.clk.Now()
	now := started.UTC()

	users, err := s.store.ListNotifiableUsers()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list notifiable users")
		return
	}

	sem := make(chan struct{}, s.config.MaxConcurrentNotifications)
	var wg sync.WaitGroup

	for _, user := range users {
		select {
		case <-ctx.Done():
			s.logger.Warn().Msg("Scheduler pass cancelled")
			wg.Wait()
			return
		default:
		}
		s.checkUser(ctx, user, now, sem, &wg)
	}

	wg.Wait()

	metrics.IncSchedulerTick()
	metrics.ObserveTickDuration(s.clk.Now().Sub(started).Seconds())
}

func (s *Scheduler) checkUser(ctx context.Context, user *models.User, now time.Time, sem chan struct{}, wg *sync.WaitGroup) {
	loc, err := userLocation(user.Timezone)
	if err != nil {
		s.logger.Warn().
			Int64("user_id", user.ID).
			Str("timezone", user.Timezone).
			Msg("Unknown timezone, skipping user")
		metrics.IncUserSkipped("bad_timezone")
		return
	}
	localNow := now.In(loc)

	reminders, err := s.store.ListReminders(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list reminders")
		metrics.IncUserSkipped("store_error")
	} else {
		for _, r := range reminders {
			if reminderDue(r, localNow) {
				s.dispatch(ctx, user.ID, "medication", TitleMedication, medicationBody(r), sem, wg)
			}
		}
	}

	appts, err := s.store.ListUpcomingAppointments(user.ID, localNow.Format(models.DateLayout))
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to list appointments")
		metrics.IncUserSkipped("store_error")
		return
	}
	for _, a := range appts {
		if appointmentDue(a, localNow) {
			s.dispatch(ctx, user.ID, "appointment", TitleAppointment, appointmentBody(a, loc), sem, wg)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, userID int64, kind, title, body string, sem chan struct{}, wg *sync.WaitGroup) {
	wg.Add(1)
	sem <- struct{}{} // acquire

	go func() {
		defer wg.Done()
		defer func() { <-sem }() // release

		if err := s.notifier.Send(ctx, userID, title, body); err != nil {
			s.logger.Error().Err(err).
				Int64("user_id", userID).
				Str("type", kind).
				Msg("Failed to send notification")
			metrics.IncNotificationSent(kind, "error")
			return
		}
		metrics.IncNotificationSent(kind, "sent")
		s.logger.Debug().
			Int64("user_id", userID).
			Str("type", kind).
			Str("body", strings.TrimSpace(body)).
			Msg("Notification sent")
	}()
}
