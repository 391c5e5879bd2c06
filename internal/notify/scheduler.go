package notify

import (
	"context"
	"fmt"
	"time"

	"wishbot/internal/config"
	"wishbot/internal/domain"
	"wishbot/internal/metrics"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

const leaseKey = "wishbot:notify:leader"

// PassResult summarizes one scheduler pass.
type PassResult struct {
	Planned int
	Sent    int
	Failed  int
}

// Scheduler runs reminder passes periodically. When a lease is configured
// only the instance holding it sends reminders.
type Scheduler struct {
	planner *Planner
	gateway domain.Gateway
	lease   domain.Lease
	cfg     config.NotificationConfig
	logger  *zerolog.Logger
	now     func() time.Time
	token   string
}

func NewScheduler(planner *Planner, gateway domain.Gateway, lease domain.Lease, cfg config.NotificationConfig, logger *zerolog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Minute
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = 2 * cfg.Interval
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "scheduler").Logger()

	return &Scheduler{
		planner: planner,
		gateway: gateway,
		lease:   lease,
		cfg:     cfg,
		logger:  &l,
		now:     time.Now,
	}
}

// Run performs a pass immediately and then every interval until ctx is
// done. A failed pass is retried after the retry interval. A pass in
// progress is allowed to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.cfg.Interval).Msg("Notification scheduler started")
	defer s.logger.Info().Msg("Notification scheduler stopped")
	defer s.resign()

	for {
		wait := s.cfg.Interval

		if s.lead(ctx) {
			passCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Interval)
			if _, err := s.RunOnce(passCtx); err != nil {
				s.logger.Error().Err(err).Msg("Notification pass failed")
				wait = s.cfg.RetryInterval
			}
			cancel()
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce plans and delivers one batch of reminders. Only planning errors
// fail the pass; per-recipient delivery failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) (PassResult, error) {
	reminders, err := s.planner.Plan(ctx, s.now())
	if err != nil {
		return PassResult{}, fmt.Errorf("plan reminders: %w", err)
	}

	res := PassResult{Planned: len(reminders)}
	var failures *multierror.Error
	for _, r := range reminders {
		var text string
		switch r.Kind {
		case KindCategory:
			text = CategoryReminderText(r.User.Language, r)
		default:
			text = ItemReminderText(r.User.Language, r)
		}

		if err := s.gateway.Deliver(ctx, r.User.TelegramID, text, ""); err != nil {
			res.Failed++
			failures = multierror.Append(failures, fmt.Errorf("user %d: %w", r.User.ID, err))
			metrics.IncNotification(string(r.Kind), "failed")
			continue
		}
		res.Sent++
		metrics.IncNotification(string(r.Kind), "sent")
	}

	if err := failures.ErrorOrNil(); err != nil {
		s.logger.Warn().Err(err).Int("failed", res.Failed).Msg("Some reminders were not delivered")
	}
	s.logger.Info().Int("planned", res.Planned).Int("sent", res.Sent).Int("failed", res.Failed).Msg("Notification pass finished")
	return res, nil
}

// lead reports whether this instance may run a pass, acquiring or renewing
// the lease as needed.
func (s *Scheduler) lead(ctx context.Context) bool {
	if s.lease == nil {
		return true
	}

	if s.token != "" {
		ok, err := s.lease.Refresh(ctx, leaseKey, s.token, s.cfg.LeaseTTL)
		if err == nil && ok {
			return true
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("Lease refresh failed")
		}
		s.token = ""
	}

	token, ok, err := s.lease.Acquire(ctx, leaseKey, s.cfg.LeaseTTL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Lease acquire failed")
		return false
	}
	if !ok {
		s.logger.Debug().Msg("Another instance holds the scheduler lease")
		return false
	}
	s.token = token
	s.logger.Info().Msg("Scheduler lease acquired")
	return true
}

func (s *Scheduler) resign() {
	if s.lease == nil || s.token == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.lease.Release(ctx, leaseKey, s.token); err != nil {
		s.logger.Warn().Err(err).Msg("Lease release failed")
	}
	s.token = ""
}
