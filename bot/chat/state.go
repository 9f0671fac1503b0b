package chat

import (
	"time"

	"VisitBot/entity"
)

// State is the field the conversation is currently waiting for.
type State string

const (
	StateRegister            State = "register"
	StateAwaitingCode        State = "awaiting_code"
	StateAwaitingNote        State = "awaiting_note"
	StateAwaitingLimit       State = "awaiting_limit"
	StateAwaitingAppointment State = "awaiting_appointment"
	StateAwaitingReminder    State = "awaiting_reminder"
	StateAwaitingName        State = "awaiting_name"
	StateAwaitingInterest    State = "awaiting_interest"
	StateAwaitingAddress     State = "awaiting_address"
	StateAwaitingBusiness    State = "awaiting_business"
	StateCompleted           State = "completed"
)

func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// Session pairs the current state with the visit under construction.
type Session struct {
	UserID    string        `json:"user_id" bson:"user_id"`
	State     State         `json:"state" bson:"state"`
	Visit     *entity.Visit `json:"visit" bson:"visit"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

func NewSession(visit *entity.Visit) *Session {
	return &Session{
		UserID:    visit.UserID,
		Visit:     visit,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a copy that can be mutated without touching s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Visit = s.Visit.Clone()
	return &c
}
