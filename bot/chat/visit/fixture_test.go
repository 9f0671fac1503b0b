package visit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"VisitBot/bot/chat"
	"VisitBot/entity"
)

const (
	officer = "628111@s.whatsapp.net"
	group   = "120363@g.us"
	spk     = "123456789012"
)

var wib = time.FixedZone("WIB", 7*60*60)

type outbound struct {
	chatID string
	text   string
}

type fakeMessenger struct {
	mu  sync.Mutex
	out []outbound
}

func (f *fakeMessenger) SendText(_ context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, outbound{chatID: chatID, text: text})
	return nil
}

func (f *fakeMessenger) SendReply(ctx context.Context, chatID, _, text string) error {
	return f.SendText(ctx, chatID, text)
}

func (f *fakeMessenger) last() outbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.out) == 0 {
		return outbound{}
	}
	return f.out[len(f.out)-1]
}

func (f *fakeMessenger) to(chatID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, o := range f.out {
		if o.chatID == chatID {
			texts = append(texts, o.text)
		}
	}
	return texts
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = nil
}

type fakeBills struct {
	bills map[string]*entity.Bill
	err   error
}

func (f *fakeBills) FindBillByCode(_ context.Context, code string) (*entity.Bill, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bills[code], nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (f *fakeUsers) IsRegistered(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeUsers) Register(_ context.Context, userID, accountOfficer string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := entity.NewUser(userID, accountOfficer)
	f.users[userID] = u
	return u, nil
}

type fakeVisits struct {
	mu    sync.Mutex
	saved []*entity.Visit
	err   error
}

func (f *fakeVisits) SaveVisit(_ context.Context, v *entity.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, v.Clone())
	return nil
}

type fixture struct {
	t      *testing.T
	engine *chat.Engine
	m      *fakeMessenger
	bills  *fakeBills
	users  *fakeUsers
	visits *fakeVisits
	seq    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		t: t,
		m: &fakeMessenger{},
		bills: &fakeBills{bills: map[string]*entity.Bill{
			spk: {
				Code:            spk,
				Name:            "Budi",
				Address:         "Desa Lamuk RT 006 RW 008",
				LastInstallment: 1_250_000,
				Plafond:         20_000_000,
			},
		}},
		users:  &fakeUsers{users: map[string]*entity.User{officer: entity.NewUser(officer, "andi")}},
		visits: &fakeVisits{},
	}
	f.engine = chat.NewEngine(
		chat.NewMemorySessionStore(0),
		chat.NewRouter(".", log),
		chat.NewStepRegistry(),
		f.users,
		log,
	)
	_, err := Register(Deps{
		Engine:         f.engine,
		Bills:          f.bills,
		Users:          f.users,
		Visits:         f.visits,
		Prefix:         ".",
		MinAppointment: 3000,
		Location:       wib,
		Now:            func() time.Time { return time.Date(2026, 10, 17, 10, 0, 0, 0, wib) },
		Log:            log,
	})
	require.NoError(t, err)
	return f
}

// send delivers a direct message from the officer.
func (f *fixture) send(text string) chat.Outcome {
	return f.sendAs(officer, officer, text)
}

func (f *fixture) sendAs(from, chatID, text string) chat.Outcome {
	f.seq++
	return f.engine.Dispatch(context.Background(), f.m, chat.InboundMessage{
		ID:     fmt.Sprintf("msg-%d", f.seq),
		From:   from,
		ChatID: chatID,
		Body:   text,
	})
}

func (f *fixture) session(userID string) *chat.Session {
	f.t.Helper()
	s, err := f.engine.Session(context.Background(), userID)
	require.NoError(f.t, err)
	return s
}

func (f *fixture) state() chat.State {
	f.t.Helper()
	s := f.session(officer)
	if s == nil {
		return ""
	}
	return s.State
}

var errDB = errors.New("db down")

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
