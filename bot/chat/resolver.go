package chat

import "VisitBot/entity"

type rule struct {
	applies func(t entity.VisitType) bool
	missing func(v *entity.Visit) bool
	state   State
}

func anyType(entity.VisitType) bool { return true }

func typeIn(types ...entity.VisitType) func(entity.VisitType) bool {
	return func(t entity.VisitType) bool {
		for _, candidate := range types {
			if t == candidate {
				return true
			}
		}
		return false
	}
}

func typeNotIn(types ...entity.VisitType) func(entity.VisitType) bool {
	in := typeIn(types...)
	return func(t entity.VisitType) bool { return !in(t) }
}

// rules is evaluated top to bottom; the first applicable rule whose field is
// missing decides the state. Order matters: the reminder rule relies on the
// appointment rule above it.
var rules = []rule{
	{
		applies: typeIn(entity.VisitBilling, entity.VisitMonitoring),
		missing: func(v *entity.Visit) bool { return v.Code == "" },
		state:   StateAwaitingCode,
	},
	{
		applies: typeNotIn(entity.VisitSurvey, entity.VisitInformational),
		missing: func(v *entity.Visit) bool { return v.Note == "" },
		state:   StateAwaitingNote,
	},
	{
		applies: typeIn(entity.VisitSurvey),
		missing: func(v *entity.Visit) bool { return v.Limit == nil },
		state:   StateAwaitingLimit,
	},
	{
		applies: typeIn(entity.VisitBilling, entity.VisitInformational),
		missing: func(v *entity.Visit) bool { return v.Appointment == nil },
		state:   StateAwaitingAppointment,
	},
	{
		applies: typeIn(entity.VisitBilling, entity.VisitInformational),
		missing: func(v *entity.Visit) bool { return v.Appointment != nil && !v.HasReminder() },
		state:   StateAwaitingReminder,
	},
	{
		applies: anyType,
		missing: func(v *entity.Visit) bool { return v.Name == "" },
		state:   StateAwaitingName,
	},
	{
		applies: typeIn(entity.VisitProspecting),
		missing: func(v *entity.Visit) bool { return v.Interested == "" },
		state:   StateAwaitingInterest,
	},
	{
		applies: typeIn(entity.VisitProspecting),
		missing: func(v *entity.Visit) bool { return v.Address == "" },
		state:   StateAwaitingAddress,
	},
	{
		applies: anyType,
		missing: func(v *entity.Visit) bool { return v.Business == "" },
		state:   StateAwaitingBusiness,
	},
}

// Resolve returns the state implied by the first missing field of the visit,
// or StateCompleted when nothing required is missing. It never mutates v.
func Resolve(v *entity.Visit) State {
	for _, r := range rules {
		if r.applies(v.Type) && r.missing(v) {
			return r.state
		}
	}
	return StateCompleted
}
