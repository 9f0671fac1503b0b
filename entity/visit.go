package entity

import (
	"time"

	"github.com/google/uuid"
)

type VisitType string

const (
	VisitBilling       VisitType = "billing"
	VisitMonitoring    VisitType = "monitoring"
	VisitProspecting   VisitType = "prospecting"
	VisitSurvey        VisitType = "survey"
	VisitInformational VisitType = "informational"
)

// Label returns the word used for the type in user-facing messages.
func (t VisitType) Label() string {
	switch t {
	case VisitBilling:
		return "tagihan"
	case VisitMonitoring:
		return "monitoring"
	case VisitProspecting:
		return "canvasing"
	case VisitSurvey:
		return "survey"
	case VisitInformational:
		return "janji bayar"
	}
	return string(t)
}

// Visit is a field report collected through the conversation.
// Optional values are absent while empty (strings) or nil (pointers).
type Visit struct {
	ID              string     `json:"id" bson:"_id"`
	UserID          string     `json:"user_id" bson:"user_id"`
	Type            VisitType  `json:"type" bson:"type"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	Code            string     `json:"code,omitempty" bson:"code,omitempty"`
	Name            string     `json:"name,omitempty" bson:"name,omitempty"`
	Address         string     `json:"address,omitempty" bson:"address,omitempty"`
	DebitTray       *int64     `json:"debit_tray,omitempty" bson:"debit_tray,omitempty"`
	InterestDue     *int64     `json:"interest_due,omitempty" bson:"interest_due,omitempty"`
	Principal       *int64     `json:"principal,omitempty" bson:"principal,omitempty"`
	Penalty         *int64     `json:"penalty,omitempty" bson:"penalty,omitempty"`
	Limit           *int64     `json:"limit,omitempty" bson:"limit,omitempty"`
	Note            string     `json:"note,omitempty" bson:"note,omitempty"`
	ImageURL        string     `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Appointment     *int64     `json:"appointment,omitempty" bson:"appointment,omitempty"`
	ReminderDate    *time.Time `json:"reminder_date,omitempty" bson:"reminder_date,omitempty"`
	ReminderSkipped bool       `json:"reminder_skipped,omitempty" bson:"reminder_skipped,omitempty"`
	Business        string     `json:"business,omitempty" bson:"business,omitempty"`
	Interested      string     `json:"interested,omitempty" bson:"interested,omitempty"`
}

func NewVisit(userID string, visitType VisitType) *Visit {
	return &Visit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      visitType,
		CreatedAt: time.Now(),
	}
}

// HasReminder reports whether the reminder question has been answered,
// either with a date or by skipping it.
func (v *Visit) HasReminder() bool {
	return v.ReminderDate != nil || v.ReminderSkipped
}

// SeedFromBill copies reference data into fields that are still absent.
func (v *Visit) SeedFromBill(b *Bill) {
	if b == nil {
		return
	}
	if v.Code == "" {
		v.Code = b.Code
	}
	if v.Name == "" {
		v.Name = b.Name
	}
	if v.Address == "" {
		v.Address = b.Address
	}
	if v.DebitTray == nil {
		v.DebitTray = Int64(b.DebitTray)
	}
	if v.InterestDue == nil {
		v.InterestDue = Int64(b.LastInterest)
	}
	if v.Principal == nil {
		v.Principal = Int64(b.LastPrincipal)
	}
	if v.Penalty == nil {
		v.Penalty = Int64(b.PenaltyInterest + b.PenaltyPrincipal)
	}
	if v.Limit == nil {
		v.Limit = Int64(b.Plafond)
	}
}

// Clone returns a deep copy so the result shares no pointers with v.
func (v *Visit) Clone() *Visit {
	if v == nil {
		return nil
	}
	c := *v
	c.DebitTray = cloneInt64(v.DebitTray)
	c.InterestDue = cloneInt64(v.InterestDue)
	c.Principal = cloneInt64(v.Principal)
	c.Penalty = cloneInt64(v.Penalty)
	c.Limit = cloneInt64(v.Limit)
	c.Appointment = cloneInt64(v.Appointment)
	if v.ReminderDate != nil {
		d := *v.ReminderDate
		c.ReminderDate = &d
	}
	return &c
}

func Int64(n int64) *int64 {
	return &n
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
