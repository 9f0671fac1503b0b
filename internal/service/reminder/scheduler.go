package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"VisitBot/bot/chat/visit"
	"VisitBot/entity"
	"VisitBot/internal/lib/sl"
)

type VisitFinder interface {
	FindVisitsByReminderDate(ctx context.Context, from, to time.Time) ([]*entity.Visit, error)
}

type Sender interface {
	SendText(ctx context.Context, chatID, text string) error
}

// Scheduler sends each officer the visits they planned for today, once a day.
type Scheduler struct {
	visits VisitFinder
	sender Sender
	loc    *time.Location
	hour   int
	minute int
	now    func() time.Time
	log    *slog.Logger
}

func NewScheduler(visits VisitFinder, sender Sender, loc *time.Location, hour, minute int, log *slog.Logger) *Scheduler {
	return &Scheduler{
		visits: visits,
		sender: sender,
		loc:    loc,
		hour:   hour,
		minute: minute,
		now:    time.Now,
		log:    log.With(sl.Module("reminder")),
	}
}

// Run fires RunOnce at the configured time every day until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("reminder scheduler started",
		slog.String("at", fmt.Sprintf("%02d:%02d", s.hour, s.minute)),
		slog.String("timezone", s.loc.String()),
	)
	for {
		next := s.NextRun(s.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.log.Error("reminder run", sl.Err(err))
			}
		}
	}
}

// NextRun returns the first scheduled time strictly after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	now = now.In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce sends today's reminders and returns how many were delivered.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	visits, err := s.visits.FindVisitsByReminderDate(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("find visits: %w", err)
	}
	if len(visits) == 0 {
		s.log.Debug("no reminders for today")
		return 0, nil
	}

	sent := 0
	for _, v := range visits {
		if strings.TrimSpace(v.UserID) == "" {
			continue
		}
		if err = s.sender.SendText(ctx, v.UserID, Message(v)); err != nil {
			s.log.Warn("send reminder",
				slog.String("user_id", v.UserID),
				slog.String("visit_id", v.ID),
				sl.Err(err),
			)
			continue
		}
		sent++
	}
	s.log.Info("reminders sent", slog.Int("sent", sent), slog.Int("found", len(visits)))
	return sent, nil
}

// Message renders the reminder for one visit.
func Message(v *entity.Visit) string {
	var sb strings.Builder
	sb.WriteString("🔔 *REMINDER KUNJUNGAN HARI INI*\n\n")
	sb.WriteString("Nama: " + orDash(v.Name) + "\n")
	sb.WriteString("SPK: " + orDash(v.Code) + "\n")
	sb.WriteString("Alamat: " + orDash(v.Address) + "\n")
	if v.Appointment != nil && *v.Appointment > 0 {
		sb.WriteString("Janji Bayar: " + visit.FormatRupiah(*v.Appointment) + "\n")
	}
	if strings.TrimSpace(v.Note) != "" {
		sb.WriteString("Catatan: " + v.Note + "\n")
	}
	sb.WriteString("\n_Jangan lupa kunjungan hari ini!_")
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
