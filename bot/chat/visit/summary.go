package visit

import (
	"fmt"
	"strings"

	"VisitBot/entity"
)

const dateFormat = "2006-01-02"

type summaryLayout struct {
	title  string
	header string
	fields func(v *entity.Visit, sb *strings.Builder)
}

var summaries = map[entity.VisitType]summaryLayout{
	entity.VisitBilling: {
		title:  "✅ *Data Tagihan Berhasil Disimpan*",
		header: "📋 *Detail Tagihan:*",
		fields: func(v *entity.Visit, sb *strings.Builder) {
			caseLines(v, sb)
			reminderLines(v, sb)
		},
	},
	entity.VisitInformational: {
		title:  "✅ *Data Janji Bayar Berhasil Disimpan*",
		header: "📋 *Detail Janji Bayar:*",
		fields: func(v *entity.Visit, sb *strings.Builder) {
			caseLines(v, sb)
			reminderLines(v, sb)
			line(sb, "Kondisi Usaha", v.Business)
		},
	},
	entity.VisitMonitoring: {
		title:  "✅ *Data Monitoring Berhasil Disimpan*",
		header: "📊 *Detail Monitoring:*",
		fields: func(v *entity.Visit, sb *strings.Builder) {
			caseLines(v, sb)
			line(sb, "Kondisi Usaha", v.Business)
		},
	},
	entity.VisitProspecting: {
		title:  "✅ *Data Canvasing Berhasil Disimpan*",
		header: "🎯 *Detail Canvasing:*",
		fields: func(v *entity.Visit, sb *strings.Builder) {
			line(sb, "Nama", v.Name)
			line(sb, "Alamat", v.Address)
			line(sb, "Minat", v.Interested)
			line(sb, "Kondisi Usaha", v.Business)
		},
	},
	entity.VisitSurvey: {
		title:  "✅ *Data Survey Berhasil Disimpan*",
		header: "📝 *Detail Survey:*",
		fields: func(v *entity.Visit, sb *strings.Builder) {
			line(sb, "Nama", v.Name)
			if v.Limit != nil {
				line(sb, "Plafond", FormatRupiah(*v.Limit))
			}
			line(sb, "Kondisi Usaha", v.Business)
		},
	},
}

// Summary renders the confirmation sent after a visit is saved.
func Summary(v *entity.Visit) string {
	layout, ok := summaries[v.Type]
	if !ok {
		return fmt.Sprintf("✅ *Data %s Berhasil Disimpan*", v.Type.Label())
	}
	var sb strings.Builder
	sb.WriteString(layout.title)
	sb.WriteString("\n\n")
	sb.WriteString(layout.header)
	sb.WriteString("\n")
	layout.fields(v, &sb)
	sb.WriteString(fmt.Sprintf("\nTerima kasih! Data %s telah tersimpan di sistem.", v.Type.Label()))
	return sb.String()
}

func caseLines(v *entity.Visit, sb *strings.Builder) {
	line(sb, "SPK", v.Code)
	line(sb, "Nama", v.Name)
	line(sb, "Catatan", v.Note)
}

func reminderLines(v *entity.Visit, sb *strings.Builder) {
	if v.ReminderDate != nil {
		line(sb, "Reminder", v.ReminderDate.Format(dateFormat))
	}
	if v.Appointment != nil {
		line(sb, "Janji Bayar", FormatRupiah(*v.Appointment))
	}
}

func line(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString("• ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
