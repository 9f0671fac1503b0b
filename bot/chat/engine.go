package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"VisitBot/internal/lib/sl"
)

// GenericApology is sent when a step fails for reasons the user cannot fix.
const GenericApology = "Maaf, terjadi kesalahan. Silakan coba lagi."

const maxTransitions = 20

// Engine routes each inbound message either to the step owning the sender's
// session or to the command router, and drives prompts after every state change.
type Engine struct {
	store    SessionStore
	router   *Router
	steps    *StepRegistry
	users    UserRegistry
	listener SessionListener
	log      *slog.Logger
}

func NewEngine(store SessionStore, router *Router, steps *StepRegistry, users UserRegistry, log *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		router: router,
		steps:  steps,
		users:  users,
		log:    log.With(sl.Module("chat.engine")),
	}
}

// SetListener sets the observer of state changes (may be nil).
func (e *Engine) SetListener(l SessionListener) {
	e.listener = l
}

func (e *Engine) Router() *Router {
	return e.router
}

func (e *Engine) Steps() *StepRegistry {
	return e.steps
}

// Dispatch handles one inbound message. It never returns an error and never
// panics; failures are logged and, inside a session, answered with an apology.
func (e *Engine) Dispatch(ctx context.Context, m Messenger, msg InboundMessage) (outcome Outcome) {
	log := e.log.With(
		slog.String("message_id", msg.ID),
		slog.String("from", msg.From),
	)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("dispatch panic", slog.Any("panic", rec))
			outcome = OutcomeFailed
		}
	}()

	if msg.From == "" {
		return OutcomeIgnored
	}
	session, err := e.store.Get(ctx, msg.From)
	// group chats never drive or touch a conversation
	if msg.IsGroup() {
		if err != nil {
			log.Error("load session", sl.Err(err))
			return OutcomeFailed
		}
		if session != nil {
			return OutcomeIgnored
		}
		return e.router.Dispatch(ctx, m, msg)
	}
	if err != nil {
		log.Error("load session", sl.Err(err))
		e.apologize(ctx, m, msg.From)
		return OutcomeFailed
	}
	if session == nil {
		return e.router.Dispatch(ctx, m, msg)
	}
	if _, _, ok := e.router.Match(msg.Text()); ok {
		return e.router.Dispatch(ctx, m, msg)
	}

	step, ok := e.steps.Get(session.State)
	if !ok {
		log.Error("no step for state", slog.String("state", string(session.State)))
		e.apologize(ctx, m, session.UserID)
		return OutcomeFailed
	}

	result := step.HandleInput(ctx, m, session, msg)
	return e.processResult(ctx, m, session, result)
}

// Start opens a session for a freshly created visit and sends the first prompt.
func (e *Engine) Start(ctx context.Context, m Messenger, session *Session) error {
	active, err := e.store.IsActive(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if active {
		return ErrSessionActive
	}
	e.log.Info("starting session",
		slog.String("user_id", session.UserID),
		slog.String("visit_type", string(session.Visit.Type)),
	)
	return e.advance(ctx, m, session)
}

// Cancel removes the user's session. It reports whether one existed.
func (e *Engine) Cancel(ctx context.Context, userID string) (bool, error) {
	session, err := e.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if err = e.store.Remove(ctx, userID); err != nil {
		return false, fmt.Errorf("remove session: %w", err)
	}
	if session == nil {
		return false, nil
	}
	e.notifyClosed(*session)
	return true, nil
}

// Session returns the stored session of the user, nil when there is none.
func (e *Engine) Session(ctx context.Context, userID string) (*Session, error) {
	return e.store.Get(ctx, userID)
}

func (e *Engine) processResult(ctx context.Context, m Messenger, session *Session, result StepResult) Outcome {
	log := e.log.With(
		slog.String("user_id", session.UserID),
		slog.String("state", string(session.State)),
	)
	switch {
	case result.Error != nil:
		log.Error("step failed", sl.Err(result.Error))
		e.apologize(ctx, m, session.UserID)
		return OutcomeFailed
	case result.Done:
		if err := e.close(ctx, session); err != nil {
			log.Error("close session", sl.Err(err))
			return OutcomeFailed
		}
	case result.Advance:
		if err := e.advance(ctx, m, session); err != nil {
			log.Error("advance session", sl.Err(err))
			e.apologize(ctx, m, session.UserID)
			return OutcomeFailed
		}
	}
	return OutcomeHandled
}

// advance recomputes the state, stores the session and enters the new state.
// The session is only stored once the state is known, so a failed step never
// leaves a half-applied visit behind.
func (e *Engine) advance(ctx context.Context, m Messenger, session *Session) error {
	for i := 0; i < maxTransitions; i++ {
		next, err := e.nextState(ctx, session)
		if err != nil {
			return err
		}
		step, ok := e.steps.Get(next)
		if !ok {
			return fmt.Errorf("no step for state %s", next)
		}

		session.State = next
		session.UpdatedAt = time.Now()
		if err = e.store.Put(ctx, session); err != nil {
			return fmt.Errorf("store session: %w", err)
		}
		e.notifyChanged(*session)

		e.log.Debug("state changed",
			slog.String("user_id", session.UserID),
			slog.String("state", string(next)),
		)

		result := step.Enter(ctx, m, session)
		switch {
		case result.Error != nil:
			return result.Error
		case result.Done:
			return e.close(ctx, session)
		case !result.Advance:
			return nil
		}
	}
	return fmt.Errorf("more than %d transitions for %s", maxTransitions, session.UserID)
}

// nextState forces REGISTER for unknown users, otherwise resolves the visit.
func (e *Engine) nextState(ctx context.Context, session *Session) (State, error) {
	registered, err := e.users.IsRegistered(ctx, session.UserID)
	if err != nil {
		return "", fmt.Errorf("check registration: %w", err)
	}
	if !registered {
		return StateRegister, nil
	}
	return Resolve(session.Visit), nil
}

func (e *Engine) close(ctx context.Context, session *Session) error {
	if err := e.store.Remove(ctx, session.UserID); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	e.log.Info("session closed",
		slog.String("user_id", session.UserID),
		slog.String("visit_id", session.Visit.ID),
	)
	e.notifyClosed(*session)
	return nil
}

func (e *Engine) apologize(ctx context.Context, m Messenger, userID string) {
	if err := m.SendText(ctx, userID, GenericApology); err != nil {
		e.log.Warn("send apology", slog.String("user_id", userID), sl.Err(err))
	}
}

func (e *Engine) notifyChanged(session Session) {
	if e.listener != nil {
		e.listener.OnStateChanged(session)
	}
}

func (e *Engine) notifyClosed(session Session) {
	if e.listener != nil {
		e.listener.OnSessionClosed(session)
	}
}
