package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"VisitBot/entity"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fakeVisits struct {
	visits   []*entity.Visit
	err      error
	from, to time.Time
}

func (f *fakeVisits) FindVisitsByReminderDate(_ context.Context, from, to time.Time) ([]*entity.Visit, error) {
	f.from, f.to = from, to
	return f.visits, f.err
}

type fakeSender struct {
	sent map[string]string
	fail map[string]bool
}

func (f *fakeSender) SendText(_ context.Context, chatID, text string) error {
	if f.fail[chatID] {
		return errors.New("gateway down")
	}
	f.sent[chatID] = text
	return nil
}

func newTestScheduler(visits *fakeVisits, sender *fakeSender, now time.Time) *Scheduler {
	s := NewScheduler(visits, sender, wib, 7, 30, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return now }
	return s
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler(&fakeVisits{}, &fakeSender{}, time.Time{})

	before := time.Date(2026, 10, 17, 6, 0, 0, 0, wib)
	assert.Equal(t, time.Date(2026, 10, 17, 7, 30, 0, 0, wib), s.NextRun(before))

	exactly := time.Date(2026, 10, 17, 7, 30, 0, 0, wib)
	assert.Equal(t, time.Date(2026, 10, 18, 7, 30, 0, 0, wib), s.NextRun(exactly))

	// 23:00 UTC is already the next morning in WIB
	utc := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 18, 7, 30, 0, 0, wib), s.NextRun(utc))
}

func TestRunOnce(t *testing.T) {
	visits := &fakeVisits{visits: []*entity.Visit{
		{ID: "v1", UserID: "628111", Name: "Budi", Code: "123", Address: "Desa Lamuk", Appointment: entity.Int64(500_000), Note: "janji bayar"},
		{ID: "v2", UserID: "628222", Name: "Sari"},
		{ID: "v3", UserID: "628333"},
		{ID: "v4", UserID: " "},
	}}
	sender := &fakeSender{sent: map[string]string{}, fail: map[string]bool{"628333": true}}
	s := newTestScheduler(visits, sender, time.Date(2026, 10, 17, 7, 30, 0, 0, wib))

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, wib), visits.from)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, wib), visits.to)

	assert.Equal(t, "🔔 *REMINDER KUNJUNGAN HARI INI*\n\n"+
		"Nama: Budi\nSPK: 123\nAlamat: Desa Lamuk\n"+
		"Janji Bayar: Rp500.000\nCatatan: janji bayar\n"+
		"\n_Jangan lupa kunjungan hari ini!_", sender.sent["628111"])
	assert.Equal(t, "🔔 *REMINDER KUNJUNGAN HARI INI*\n\n"+
		"Nama: Sari\nSPK: -\nAlamat: -\n"+
		"\n_Jangan lupa kunjungan hari ini!_", sender.sent["628222"])
}

func TestRunOnce_FinderError(t *testing.T) {
	s := newTestScheduler(&fakeVisits{err: errors.New("db down")}, &fakeSender{}, time.Now())
	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestScheduler(&fakeVisits{}, &fakeSender{}, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
