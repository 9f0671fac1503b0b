package visit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"VisitBot/bot/chat"
	"VisitBot/entity"
	"VisitBot/internal/lib/sl"
)

const (
	minAddressLength = 9
	maxAddressLength = 500
)

// Deps are the collaborators of the visit workflow.
type Deps struct {
	Engine         *chat.Engine
	Bills          chat.BillFinder
	Users          chat.UserRegistry
	Visits         chat.VisitRepository
	Prefix         string
	MinAppointment int64
	Location       *time.Location
	Now            func() time.Time
	Log            *slog.Logger
}

// Workflow holds the commands and steps that collect visits.
type Workflow struct {
	deps     Deps
	validate *validator.Validate
	log      *slog.Logger
}

// Register builds the trigger and state tables and installs them on the engine.
// It fails when a trigger or a state is declared twice.
func Register(d Deps) (*Workflow, error) {
	if d.Engine == nil {
		return nil, errors.New("visit workflow: engine is required")
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	w := &Workflow{
		deps:     d,
		validate: validator.New(),
		log:      d.Log.With(sl.Module("chat.visit")),
	}

	commands := []chat.Command{
		&visitCommand{w: w, trigger: "tagihan", visitType: entity.VisitBilling},
		&visitCommand{w: w, trigger: "moni", visitType: entity.VisitMonitoring},
		&visitCommand{w: w, trigger: "janji", visitType: entity.VisitInformational},
		&visitCommand{w: w, trigger: "canvasing", visitType: entity.VisitProspecting},
		&visitCommand{w: w, trigger: "survey", visitType: entity.VisitSurvey},
		&cancelCommand{w: w},
	}
	for _, c := range commands {
		if err := d.Engine.Router().Register(c); err != nil {
			return nil, fmt.Errorf("visit workflow: %w", err)
		}
	}

	steps := []chat.Step{
		&registerStep{w: w},
		&codeStep{w: w},
		&textStep{w: w, state: chat.StateAwaitingNote, prompt: promptNote, set: setNote},
		&amountStep{w: w, state: chat.StateAwaitingLimit, prompt: promptLimit, set: setLimit},
		&amountStep{w: w, state: chat.StateAwaitingAppointment, prompt: promptAppointment, set: w.setAppointment},
		&reminderStep{w: w},
		&textStep{w: w, state: chat.StateAwaitingName, prompt: promptName, set: setName},
		&interestStep{w: w},
		&addressStep{w: w},
		&textStep{w: w, state: chat.StateAwaitingBusiness, prompt: promptBusiness, set: setBusiness},
		&completedStep{w: w},
	}
	for _, s := range steps {
		if err := d.Engine.Steps().Register(s); err != nil {
			return nil, fmt.Errorf("visit workflow: %w", err)
		}
	}

	w.log.Info("visit workflow registered",
		slog.Int("commands", len(commands)),
		slog.Int("steps", len(steps)),
	)
	return w, nil
}

func (w *Workflow) today() time.Time {
	return startOfDay(w.deps.Now(), w.deps.Location)
}

// applyFreeText fills the note, reminder and appointment found in the text after a trigger.
func (w *Workflow) applyFreeText(v *entity.Visit, text string) {
	if text == "" {
		return
	}
	if v.Note == "" {
		v.Note = text
	}
	if v.Type != entity.VisitBilling && v.Type != entity.VisitInformational {
		return
	}

	amountText := text
	if date, token, ok := FindDate(text, w.deps.Location); ok {
		if !date.Before(w.today()) && v.ReminderDate == nil {
			v.ReminderDate = &date
		}
		amountText = removeFirst(text, token)
	}
	if amount, ok := ParseAmount(amountText); ok && amount >= w.deps.MinAppointment && v.Appointment == nil {
		v.Appointment = entity.Int64(amount)
	}
}

func (w *Workflow) setAppointment(v *entity.Visit, amount int64) {
	if amount < w.deps.MinAppointment {
		return
	}
	v.Appointment = entity.Int64(amount)
}

func setNote(v *entity.Visit, text string)     { v.Note = text }
func setName(v *entity.Visit, text string)     { v.Name = text }
func setBusiness(v *entity.Visit, text string) { v.Business = text }
func setLimit(v *entity.Visit, amount int64)   { v.Limit = entity.Int64(amount) }
