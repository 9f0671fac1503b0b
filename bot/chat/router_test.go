package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, cmds ...Command) *Router {
	t.Helper()
	r := NewRouter(".", discardLogger())
	for _, c := range cmds {
		require.NoError(t, r.Register(c))
	}
	return r
}

func TestRouter_Register(t *testing.T) {
	r := NewRouter(".", discardLogger())
	require.NoError(t, r.Register(&fakeCommand{trigger: "Tagihan"}))

	assert.Error(t, r.Register(&fakeCommand{trigger: "tagihan"}))
	assert.Error(t, r.Register(&fakeCommand{trigger: "  "}))
	assert.Equal(t, []string{"tagihan"}, r.Triggers())
}

func TestRouter_Match(t *testing.T) {
	cmd := &fakeCommand{trigger: "tagihan"}
	r := newTestRouter(t, cmd)

	tests := []struct {
		name string
		text string
		ok   bool
		args string
	}{
		{"trigger with args", ".tagihan 123 Budi sehat", true, "123 Budi sehat"},
		{"case insensitive", ".TAGIHAN 1", true, "1"},
		{"no args", ".tagihan", true, ""},
		{"no prefix", "tagihan 1", false, ""},
		{"unknown trigger", ".unknown 1", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, args, ok := r.Match(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, cmd, c)
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestRouter_EmptyPrefixMatchesNothing(t *testing.T) {
	r := NewRouter("", discardLogger())
	require.NoError(t, r.Register(&fakeCommand{trigger: "tagihan"}))
	_, _, ok := r.Match("tagihan 1")
	assert.False(t, ok)
}

func TestRouter_Dispatch(t *testing.T) {
	ctx := context.Background()
	ok := &fakeCommand{trigger: "ok"}
	failing := &fakeCommand{trigger: "fail", execute: func(context.Context, Messenger, InboundMessage, string) error {
		return errors.New("boom")
	}}
	panicking := &fakeCommand{trigger: "panic", execute: func(context.Context, Messenger, InboundMessage, string) error {
		panic("bad input")
	}}
	r := newTestRouter(t, ok, failing, panicking)
	m := &fakeMessenger{}

	assert.Equal(t, OutcomeHandled, r.Dispatch(ctx, m, InboundMessage{ID: "1", From: "u", Body: ".ok a"}))
	assert.Equal(t, []string{"a"}, ok.calls)

	assert.Equal(t, OutcomeNoMatch, r.Dispatch(ctx, m, InboundMessage{ID: "2", From: "u", Body: "hello"}))
	assert.Equal(t, OutcomeFailed, r.Dispatch(ctx, m, InboundMessage{ID: "3", From: "u", Body: ".fail"}))
	assert.Equal(t, OutcomeFailed, r.Dispatch(ctx, m, InboundMessage{ID: "4", From: "u", Body: ".panic"}))

	// markers are released after failure and panic
	assert.Equal(t, OutcomeFailed, r.Dispatch(ctx, m, InboundMessage{ID: "4", From: "u", Body: ".panic"}))
	assert.Equal(t, 2, panicking.callCount())
}

func TestRouter_DispatchCaption(t *testing.T) {
	cmd := &fakeCommand{trigger: "tagihan"}
	r := newTestRouter(t, cmd)
	out := r.Dispatch(context.Background(), &fakeMessenger{}, InboundMessage{
		ID:        "1",
		From:      "u",
		Caption:   ".tagihan 42",
		ImagePath: "/media/a.jpg",
	})
	assert.Equal(t, OutcomeHandled, out)
	assert.Equal(t, []string{"42"}, cmd.calls)
}

func TestRouter_DuplicateInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	cmd := &fakeCommand{trigger: "slow", execute: func(context.Context, Messenger, InboundMessage, string) error {
		close(started)
		<-release
		return nil
	}}
	r := newTestRouter(t, cmd)
	ctx := context.Background()
	msg := InboundMessage{ID: "dup", From: "u", Body: ".slow"}

	done := make(chan Outcome)
	go func() {
		done <- r.Dispatch(ctx, &fakeMessenger{}, msg)
	}()
	<-started

	assert.Equal(t, OutcomeDuplicate, r.Dispatch(ctx, &fakeMessenger{}, msg))
	close(release)
	assert.Equal(t, OutcomeHandled, <-done)
	assert.Equal(t, 1, cmd.callCount())

	// a redelivery after completion is processed again
	release = make(chan struct{})
	close(release)
	started = make(chan struct{})
	assert.Equal(t, OutcomeHandled, r.Dispatch(ctx, &fakeMessenger{}, msg))
	assert.Equal(t, 2, cmd.callCount())
}

func TestRouter_MessagesWithoutIDAreNotDeduplicated(t *testing.T) {
	cmd := &fakeCommand{trigger: "ok"}
	r := newTestRouter(t, cmd)
	msg := InboundMessage{From: "u", Body: ".ok"}
	r.Dispatch(context.Background(), &fakeMessenger{}, msg)
	r.Dispatch(context.Background(), &fakeMessenger{}, msg)
	assert.Equal(t, 2, cmd.callCount())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "duplicate", OutcomeDuplicate.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}
