package visit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"VisitBot/bot/chat"
	"VisitBot/entity"
	"VisitBot/internal/lib/sl"
)

func send(ctx context.Context, m chat.Messenger, session *chat.Session, text string) chat.StepResult {
	if err := m.SendText(ctx, session.UserID, text); err != nil {
		return chat.StepResult{Error: fmt.Errorf("send to %s: %w", session.UserID, err)}
	}
	return chat.StepResult{}
}

func advance() chat.StepResult {
	return chat.StepResult{Advance: true}
}

// registerStep asks unknown users for the name they go by and stores them as officers.
type registerStep struct {
	w *Workflow
}

func (s *registerStep) State() chat.State { return chat.StateRegister }

func (s *registerStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, promptRegister(session.Visit))
}

func (s *registerStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	name := strings.TrimSpace(msg.Text())
	if name == "" {
		return send(ctx, m, session, promptRegister(session.Visit))
	}
	user, err := s.w.deps.Users.Register(ctx, session.UserID, name)
	if err != nil {
		return chat.StepResult{Error: fmt.Errorf("register user: %w", err)}
	}
	s.w.log.Info("user registered",
		slog.String("user_id", user.UserID),
		slog.String("account_officer", user.AccountOfficer),
	)
	return advance()
}

// codeStep looks up the SPK and seeds the visit from the bill.
type codeStep struct {
	w *Workflow
}

func (s *codeStep) State() chat.State { return chat.StateAwaitingCode }

func (s *codeStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, promptCode(session.Visit))
}

func (s *codeStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	code, _ := chat.SplitFirst(msg.Text())
	if code == "" {
		return send(ctx, m, session, msgMissingCode)
	}
	bill, err := s.w.deps.Bills.FindBillByCode(ctx, code)
	if err != nil {
		return chat.StepResult{Error: fmt.Errorf("find bill %s: %w", code, err)}
	}
	if bill == nil {
		return send(ctx, m, session, msgBillNotFound)
	}
	session.Visit.SeedFromBill(bill)
	return advance()
}

// textStep accepts any non-blank text for one field.
type textStep struct {
	w      *Workflow
	state  chat.State
	prompt func(*entity.Visit) string
	set    func(*entity.Visit, string)
}

func (s *textStep) State() chat.State { return s.state }

func (s *textStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, s.prompt(session.Visit))
}

func (s *textStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	text := strings.TrimSpace(msg.Text())
	if msg.ImagePath != "" && session.Visit.ImageURL == "" {
		session.Visit.ImageURL = msg.ImagePath
	}
	if text == "" {
		return send(ctx, m, session, s.prompt(session.Visit))
	}
	s.set(session.Visit, text)
	return advance()
}

// amountStep reads a rupiah amount; the setter may discard it.
type amountStep struct {
	w      *Workflow
	state  chat.State
	prompt func(*entity.Visit) string
	set    func(*entity.Visit, int64)
}

func (s *amountStep) State() chat.State { return s.state }

func (s *amountStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, s.prompt(session.Visit))
}

func (s *amountStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	amount, ok := ParseAmount(msg.Text())
	if !ok {
		return send(ctx, m, session, msgAmountNotFound)
	}
	s.set(session.Visit, amount)
	return advance()
}

type reminderStep struct {
	w *Workflow
}

func (s *reminderStep) State() chat.State { return chat.StateAwaitingReminder }

func (s *reminderStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, promptReminder(session.Visit))
}

func (s *reminderStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	text := strings.TrimSpace(msg.Text())
	if strings.EqualFold(text, skipWord) {
		session.Visit.ReminderSkipped = true
		return advance()
	}
	date, err := ParseDate(text, s.w.deps.Location)
	if err != nil {
		return send(ctx, m, session, msgReminderInvalid)
	}
	if date.Before(s.w.today()) {
		return send(ctx, m, session, msgReminderInPast)
	}
	session.Visit.ReminderDate = &date
	return advance()
}

type interestStep struct {
	w *Workflow
}

func (s *interestStep) State() chat.State { return chat.StateAwaitingInterest }

func (s *interestStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, promptInterest(session.Visit))
}

func (s *interestStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	answer := chat.MatchNumberToInline(msg.Text(), interestOptions)
	if answer == "" {
		return send(ctx, m, session, msgAnswerNotFound+"\n\n"+promptInterest(session.Visit))
	}
	session.Visit.Interested = answer
	return advance()
}

type addressStep struct {
	w *Workflow
}

func (s *addressStep) State() chat.State { return chat.StateAwaitingAddress }

func (s *addressStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return send(ctx, m, session, promptAddress(session.Visit))
}

func (s *addressStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, msg chat.InboundMessage) chat.StepResult {
	address := strings.TrimSpace(msg.Text())
	rule := fmt.Sprintf("required,min=%d,max=%d", minAddressLength, maxAddressLength)
	if err := s.w.validate.Var(address, rule); err != nil {
		return send(ctx, m, session, addressError(err))
	}
	session.Visit.Address = address
	return advance()
}

func addressError(err error) string {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(verr) > 0 {
		switch verr[0].Tag() {
		case "min":
			return fmt.Sprintf(msgAddressTooShort, minAddressLength)
		case "max":
			return fmt.Sprintf(msgAddressTooLong, maxAddressLength)
		}
	}
	return msgAddressEmpty
}

// completedStep saves the visit. A failed save keeps the session so any later
// message retries it.
type completedStep struct {
	w *Workflow
}

func (s *completedStep) State() chat.State { return chat.StateCompleted }

func (s *completedStep) Enter(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	return s.finalize(ctx, m, session)
}

func (s *completedStep) HandleInput(ctx context.Context, m chat.Messenger, session *chat.Session, _ chat.InboundMessage) chat.StepResult {
	return s.finalize(ctx, m, session)
}

func (s *completedStep) finalize(ctx context.Context, m chat.Messenger, session *chat.Session) chat.StepResult {
	visit := session.Visit
	log := s.w.log.With(
		slog.String("user_id", session.UserID),
		slog.String("visit_id", visit.ID),
		slog.String("visit_type", string(visit.Type)),
	)

	if err := s.w.deps.Visits.SaveVisit(ctx, visit); err != nil {
		log.Error("save visit", sl.Err(err))
		return send(ctx, m, session, fmt.Sprintf(msgSaveFailTemplate, visit.Type.Label()))
	}
	log.Info("visit saved")

	if err := m.SendText(ctx, session.UserID, Summary(visit)); err != nil {
		log.Warn("send summary", sl.Err(err))
	}
	return chat.StepResult{Done: true}
}
