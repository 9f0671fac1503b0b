package chat

import (
	"context"
	"errors"

	"VisitBot/entity"
)

var ErrSessionActive = errors.New("session already active")

// StepResult is the outcome of a step handling input or being entered.
type StepResult struct {
	// Advance means the visit was mutated and the next state must be resolved.
	Advance bool
	// Done means the visit was finalized and the session must be closed.
	Done  bool
	Error error
}

// Step owns one conversation state: it prompts on Enter and consumes input.
type Step interface {
	State() State
	Enter(ctx context.Context, m Messenger, session *Session) StepResult
	HandleInput(ctx context.Context, m Messenger, session *Session, msg InboundMessage) StepResult
}

// Command starts work from a prefixed trigger such as ".tagihan".
type Command interface {
	Trigger() string
	Execute(ctx context.Context, m Messenger, msg InboundMessage, args string) error
}

// SessionStore keeps the in-progress session of each user.
type SessionStore interface {
	IsActive(ctx context.Context, userID string) (bool, error)
	Get(ctx context.Context, userID string) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Remove(ctx context.Context, userID string) error
}

// UserRegistry tells whether an account officer is known.
type UserRegistry interface {
	IsRegistered(ctx context.Context, userID string) (bool, error)
	Register(ctx context.Context, userID, accountOfficer string) (*entity.User, error)
}

// BillFinder looks up reference data by SPK. A missing bill is (nil, nil).
type BillFinder interface {
	FindBillByCode(ctx context.Context, code string) (*entity.Bill, error)
}

// VisitRepository persists finished visits.
type VisitRepository interface {
	SaveVisit(ctx context.Context, visit *entity.Visit) error
}
