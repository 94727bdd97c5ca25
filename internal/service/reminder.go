package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xgraupera/WanderWise/internal/repo"
)

// Sender delivers one outbound notification. Implemented by mail.SMTPSender
// in production and mail.LogSender when no relay is configured.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// sweepSendConcurrency bounds how many notifications one sweep delivers in
// parallel, so a large due batch cannot open that many SMTP conversations.
const sweepSendConcurrency = 4

// ReminderService runs the due-reminder sweep: claim due rows, notify, and
// release any row whose notification failed so a later sweep retries it.
type ReminderService struct {
	reminders   repo.ReminderRepo
	sender      Sender
	log         *slog.Logger
	sendTimeout time.Duration
	batchSize   int
}

// NewReminderService constructs a ReminderService.
func NewReminderService(reminders repo.ReminderRepo, sender Sender, log *slog.Logger, sendTimeout time.Duration, batchSize int) *ReminderService {
	return &ReminderService{
		reminders:   reminders,
		sender:      sender,
		log:         log,
		sendTimeout: sendTimeout,
		batchSize:   batchSize,
	}
}

// SweepDue processes all reminders due at now and returns how many were
// notified.
//
// Claiming is atomic per reminder (the repo's conditional update skips rows a
// concurrent sweep holds), so overlapping sweeps deliver each notification at
// most once. A failed send logs, resets the reminder to unsent for the next
// sweep, and never blocks the remaining batch; each send is individually
// bounded by the configured timeout.
func (s *ReminderService) SweepDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.ClaimDue(ctx, now, s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("service.ReminderService.SweepDue: %w", err)
	}

	var notified atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepSendConcurrency)

	for _, rem := range due {
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(gctx, s.sendTimeout)
			defer cancel()

			subject := "Cancellation deadline reminder"
			body := fmt.Sprintf("Don't forget to cancel your reservation: %s.\nDeadline: %s",
				rem.ReservationType, rem.SendAt.Format("2006-01-02"))

			if err := s.sender.Send(sendCtx, rem.Email, subject, body); err != nil {
				s.log.Error("reminder notification failed", "reminder_id", rem.ID, "error", err)
				if resetErr := s.reminders.ResetSent(ctx, rem.ID); resetErr != nil {
					s.log.Error("reminder reset failed", "reminder_id", rem.ID, "error", resetErr)
				}
				return nil // best-effort: keep processing the rest of the batch
			}

			notified.Add(1)
			return nil
		})
	}

	_ = g.Wait() // workers only ever return nil; failures are handled in-flight

	return int(notified.Load()), nil
}

// Run sweeps on a fixed interval until the context is cancelled. Launch it in
// its own goroutine from main; it stands in for an external cron trigger.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("reminder sweep started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder sweep stopped")
			return
		case <-ticker.C:
			n, err := s.SweepDue(ctx, time.Now().UTC())
			if err != nil {
				s.log.Error("reminder sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.log.Info("reminders notified", "count", n)
			}
		}
	}
}
