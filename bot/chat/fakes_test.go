package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"VisitBot/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type sent struct {
	ChatID  string
	ReplyTo string
	Text    string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakeMessenger) SendText(_ context.Context, chatID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{ChatID: chatID, Text: text})
	return f.err
}

func (f *fakeMessenger) SendReply(_ context.Context, chatID, replyToID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{ChatID: chatID, ReplyTo: replyToID, Text: text})
	return f.err
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		out = append(out, s.Text)
	}
	return out
}

type fakeUsers struct {
	mu         sync.Mutex
	registered map[string]bool
	err        error
}

func newFakeUsers(ids ...string) *fakeUsers {
	u := &fakeUsers{registered: make(map[string]bool)}
	for _, id := range ids {
		u.registered[id] = true
	}
	return u
}

func (f *fakeUsers) IsRegistered(_ context.Context, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registered[userID], f.err
}

func (f *fakeUsers) Register(_ context.Context, userID, accountOfficer string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered[userID] = true
	return entity.NewUser(userID, accountOfficer), nil
}

// fakeStep delegates to optional funcs and counts calls.
type fakeStep struct {
	state   State
	enter   func(session *Session) StepResult
	handle  func(session *Session, msg InboundMessage) StepResult
	mu      sync.Mutex
	entered int
	handled int
}

func (s *fakeStep) State() State { return s.state }

func (s *fakeStep) Enter(_ context.Context, _ Messenger, session *Session) StepResult {
	s.mu.Lock()
	s.entered++
	s.mu.Unlock()
	if s.enter != nil {
		return s.enter(session)
	}
	return StepResult{}
}

func (s *fakeStep) HandleInput(_ context.Context, _ Messenger, session *Session, msg InboundMessage) StepResult {
	s.mu.Lock()
	s.handled++
	s.mu.Unlock()
	if s.handle != nil {
		return s.handle(session, msg)
	}
	return StepResult{}
}

func (s *fakeStep) counts() (entered, handled int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entered, s.handled
}

type fakeCommand struct {
	trigger string
	execute func(ctx context.Context, m Messenger, msg InboundMessage, args string) error
	mu      sync.Mutex
	calls   []string
}

func (c *fakeCommand) Trigger() string { return c.trigger }

func (c *fakeCommand) Execute(ctx context.Context, m Messenger, msg InboundMessage, args string) error {
	c.mu.Lock()
	c.calls = append(c.calls, args)
	c.mu.Unlock()
	if c.execute != nil {
		return c.execute(ctx, m, msg, args)
	}
	return nil
}

func (c *fakeCommand) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type recordingListener struct {
	mu      sync.Mutex
	changed []State
	closed  []string
}

func (l *recordingListener) OnStateChanged(session Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changed = append(l.changed, session.State)
}

func (l *recordingListener) OnSessionClosed(session Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = append(l.closed, session.UserID)
}

// failingStore wraps a store and fails Get.
type failingStore struct {
	SessionStore
}

func (failingStore) Get(context.Context, string) (*Session, error) {
	return nil, errors.New("store down")
}
