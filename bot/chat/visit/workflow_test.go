package visit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VisitBot/bot/chat"
	"VisitBot/entity"
)

func TestRegister_RejectsSecondRegistration(t *testing.T) {
	f := newFixture(t)
	_, err := Register(Deps{Engine: f.engine, Log: slogDiscard()})
	assert.Error(t, err)
}

func TestBilling_StartsAtNoteWhenBillFound(t *testing.T) {
	f := newFixture(t)

	out := f.send(".tagihan " + spk)
	assert.Equal(t, chat.OutcomeHandled, out)
	assert.Equal(t, chat.StateAwaitingNote, f.state())

	s := f.session(officer)
	assert.Equal(t, "Budi", s.Visit.Name)
	assert.Equal(t, spk, s.Visit.Code)
	assert.Contains(t, f.m.last().text, "caption/keterangan untuk tagihan an Budi")
}

func TestBilling_FullConversation(t *testing.T) {
	f := newFixture(t)

	f.send(".tagihan " + spk)
	f.send("Nasabah janji bayar minggu depan")
	assert.Equal(t, chat.StateAwaitingAppointment, f.state())

	f.send("2999")
	assert.Equal(t, chat.StateAwaitingAppointment, f.state())
	assert.Nil(t, f.session(officer).Visit.Appointment)
	assert.Contains(t, f.m.last().text, "berjanji akan bayar")

	f.send("3000")
	assert.Equal(t, chat.StateAwaitingReminder, f.state())

	f.send("KOSONG")
	assert.Equal(t, chat.StateAwaitingBusiness, f.state())

	f.send("Usaha lancar")
	assert.Nil(t, f.session(officer))

	require.Len(t, f.visits.saved, 1)
	saved := f.visits.saved[0]
	assert.Equal(t, entity.VisitBilling, saved.Type)
	assert.Equal(t, "Nasabah janji bayar minggu depan", saved.Note)
	assert.Equal(t, int64(3000), *saved.Appointment)
	assert.True(t, saved.ReminderSkipped)
	assert.Equal(t, "Usaha lancar", saved.Business)
	assert.Contains(t, f.m.last().text, "Data Tagihan Berhasil Disimpan")
}

func TestBilling_FreeTextAfterCode(t *testing.T) {
	f := newFixture(t)

	f.send(".tagihan " + spk + " bayar 500rb 2026-10-20")
	s := f.session(officer)
	require.NotNil(t, s)
	assert.Equal(t, "bayar 500rb 2026-10-20", s.Visit.Note)
	require.NotNil(t, s.Visit.Appointment)
	assert.Equal(t, int64(500_000), *s.Visit.Appointment)
	require.NotNil(t, s.Visit.ReminderDate)
	assert.Equal(t, "2026-10-20", s.Visit.ReminderDate.Format(dateFormat))
	assert.Equal(t, chat.StateAwaitingBusiness, s.State)
}

func TestBilling_FreeTextIgnoresPastDateAndSmallAmount(t *testing.T) {
	f := newFixture(t)

	f.send(".tagihan " + spk + " bayar 2000 2026-10-01")
	s := f.session(officer)
	require.NotNil(t, s)
	assert.Nil(t, s.Visit.ReminderDate)
	assert.Nil(t, s.Visit.Appointment)
	assert.Equal(t, chat.StateAwaitingAppointment, s.State)
}

func TestMonitoring_FreeTextOnlyFillsNote(t *testing.T) {
	f := newFixture(t)

	f.send(".moni " + spk + " kunjungan rutin 5jt")
	s := f.session(officer)
	require.NotNil(t, s)
	assert.Equal(t, "kunjungan rutin 5jt", s.Visit.Note)
	assert.Nil(t, s.Visit.Appointment)
	assert.Equal(t, chat.StateAwaitingBusiness, s.State)
}

func TestInformational_SkipsNote(t *testing.T) {
	f := newFixture(t)
	f.send(".janji " + spk)
	assert.Equal(t, chat.StateAwaitingAppointment, f.state())
}

func TestVisitCommand_CodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		billErr error
		want    string
		outcome chat.Outcome
	}{
		{"missing code", ".tagihan", nil, msgMissingCode, chat.OutcomeHandled},
		{"unknown code", ".tagihan 999", nil, msgBillNotFound, chat.OutcomeHandled},
		{"lookup failure", ".moni " + spk, errDB, msgGeneralError, chat.OutcomeFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bills.err = tt.billErr

			assert.Equal(t, tt.outcome, f.send(tt.text))
			assert.Equal(t, tt.want, f.m.last().text)
			assert.Nil(t, f.session(officer))
		})
	}
}

func TestVisitCommand_OngoingSession(t *testing.T) {
	f := newFixture(t)
	f.send(".tagihan " + spk)
	f.m.reset()

	f.send(".survey")
	assert.Equal(t, chat.StateAwaitingNote, f.state())
	assert.Equal(t, entity.VisitBilling, f.session(officer).Visit.Type)
	want := "Anda memiliki proses pengisian LKN/RKH yang belum selesai: " + spk +
		". Harap selesaikan terlebih dahulu atau ketik .cancel."
	assert.Equal(t, []string{want}, f.m.to(officer))
}

func TestVisitCommand_GroupNotification(t *testing.T) {
	f := newFixture(t)

	f.sendAs(officer, group, ".tagihan "+spk)

	groupTexts := f.m.to(group)
	require.Len(t, groupTexts, 1)
	assert.Contains(t, groupTexts[0], "No SPK: "+spk)
	assert.Contains(t, groupTexts[0], "Tunggakan: Rp1.250.000")
	assert.Contains(t, groupTexts[0], "ayok japri")

	// the conversation itself continues privately
	assert.Equal(t, chat.StateAwaitingNote, f.state())
	assert.NotEmpty(t, f.m.to(officer))

	// answers posted in the group are not consumed by the session
	f.sendAs(officer, group, "catatan di grup")
	assert.Equal(t, chat.StateAwaitingNote, f.state())

	// nor can a group command end it
	assert.Equal(t, chat.OutcomeIgnored, f.sendAs(officer, group, ".cancel"))
	require.NotNil(t, f.session(officer))
	assert.Equal(t, chat.StateAwaitingNote, f.state())
}

func TestCancel(t *testing.T) {
	f := newFixture(t)

	f.send(".cancel")
	assert.Empty(t, f.m.to(officer))

	f.send(".canvasing")
	require.NotNil(t, f.session(officer))
	f.send(".CANCEL")
	assert.Nil(t, f.session(officer))
	assert.Equal(t, msgCancelled, f.m.last().text)
}

func TestUnregisteredOfficerRegistersFirst(t *testing.T) {
	f := newFixture(t)
	newcomer := "628222@s.whatsapp.net"

	f.sendAs(newcomer, newcomer, ".survey")
	s := f.session(newcomer)
	require.NotNil(t, s)
	assert.Equal(t, chat.StateRegister, s.State)
	assert.Contains(t, f.m.last().text, "Belum terdaftar")

	f.sendAs(newcomer, newcomer, "   ")
	assert.Equal(t, chat.StateRegister, f.session(newcomer).State)

	f.sendAs(newcomer, newcomer, "Siti")
	assert.Equal(t, chat.StateAwaitingLimit, f.session(newcomer).State)
	assert.Equal(t, "SITI", f.users.users[newcomer].AccountOfficer)
}

func TestSurvey_Limit(t *testing.T) {
	f := newFixture(t)
	f.send(".survey")
	assert.Equal(t, chat.StateAwaitingLimit, f.state())

	f.send("belum tahu")
	assert.Equal(t, msgAmountNotFound, f.m.last().text)
	assert.Equal(t, chat.StateAwaitingLimit, f.state())

	f.send("5,7jt")
	assert.Equal(t, chat.StateAwaitingName, f.state())
	assert.Equal(t, int64(5_700_000), *f.session(officer).Visit.Limit)
}

func TestProspecting_InterestAndAddress(t *testing.T) {
	f := newFixture(t)
	f.send(".canvasing")
	assert.Equal(t, chat.StateAwaitingNote, f.state())
	f.send("Kunjungan pasar")
	f.send("Sari")
	assert.Equal(t, chat.StateAwaitingInterest, f.state())

	f.send("5")
	assert.Equal(t, chat.StateAwaitingInterest, f.state())
	assert.True(t, strings.HasPrefix(f.m.last().text, msgAnswerNotFound))
	assert.Empty(t, f.session(officer).Visit.Interested)

	f.send("2")
	assert.Equal(t, chat.StateAwaitingAddress, f.state())
	assert.Equal(t, "Tertarik", f.session(officer).Visit.Interested)

	f.send(strings.Repeat("a", 8))
	assert.Equal(t, "Alamat terlalu pendek. Minimal 9 karakter. Silahkan masukkan alamat yang lebih lengkap.", f.m.last().text)
	f.send(strings.Repeat("a", 501))
	assert.Equal(t, "Alamat terlalu panjang. Maksimal 500 karakter.", f.m.last().text)
	assert.Equal(t, chat.StateAwaitingAddress, f.state())

	f.send(strings.Repeat("a", 9))
	assert.Equal(t, chat.StateAwaitingBusiness, f.state())

	f.send("Usaha Kue Kering")
	assert.Nil(t, f.session(officer))
	require.Len(t, f.visits.saved, 1)
	assert.Contains(t, f.m.last().text, "Minat: Tertarik")
}

func TestReminder(t *testing.T) {
	f := newFixture(t)
	f.send(".janji " + spk + " 50rb")
	assert.Equal(t, chat.StateAwaitingReminder, f.state())

	f.send("2026-10-16")
	assert.Equal(t, msgReminderInPast, f.m.last().text)

	f.send("31-02-2026")
	assert.Equal(t, msgReminderInvalid, f.m.last().text)

	f.send("besok")
	assert.Equal(t, msgReminderInvalid, f.m.last().text)
	assert.Equal(t, chat.StateAwaitingReminder, f.state())

	f.send("17/10/2026")
	s := f.session(officer)
	require.NotNil(t, s.Visit.ReminderDate)
	assert.Equal(t, "2026-10-17", s.Visit.ReminderDate.Format(dateFormat))
	assert.Equal(t, chat.StateAwaitingBusiness, s.State)
}

func TestFinalize_FailureKeepsSessionForRetry(t *testing.T) {
	f := newFixture(t)
	f.visits.err = errDB

	f.send(".survey")
	f.send("10jt")
	f.send("Rina")
	f.send("Warung kelontong")

	assert.Equal(t, chat.StateCompleted, f.state())
	assert.Contains(t, f.m.last().text, "terjadi kesalahan saat menyimpan data survey")
	assert.Empty(t, f.visits.saved)

	f.visits.err = nil
	f.send("coba lagi")
	assert.Nil(t, f.session(officer))
	require.Len(t, f.visits.saved, 1)
	assert.Equal(t, "Warung kelontong", f.visits.saved[0].Business)
	assert.Contains(t, f.m.last().text, "Data Survey Berhasil Disimpan")
}

func TestImageCaptionStartsVisit(t *testing.T) {
	f := newFixture(t)
	f.engine.Dispatch(t.Context(), f.m, chat.InboundMessage{
		ID:        "img-1",
		From:      officer,
		ChatID:    officer,
		Caption:   ".moni " + spk,
		ImagePath: "statics/media/abc.jpg",
	})
	s := f.session(officer)
	require.NotNil(t, s)
	assert.Equal(t, "statics/media/abc.jpg", s.Visit.ImageURL)
}
