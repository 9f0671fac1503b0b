package visit

import (
	"fmt"

	"VisitBot/bot/chat"
	"VisitBot/entity"
)

const (
	msgMissingCode      = "Anda belum memasukkan no SPK"
	msgBillNotFound     = "No SPK tidak ditemukan"
	msgGeneralError     = "Terjadi kesalahan saat memproses tagihan"
	msgCancelled        = "Aksi Dibatalkan"
	msgAmountNotFound   = "Saya tidak dapat menemukan nominalnya"
	msgAnswerNotFound   = "Saya tidak dapat menemukan jawaban yang anda kirim silahkan kirim lagi"
	msgReminderInPast   = "Tidak Mungkin dong reminder nya kemarin, yok isi lagi"
	msgReminderInvalid  = "Format tanggal tidak valid. Silakan masukkan tanggal dengan format yang benar (contoh: 2024-12-31 atau 31/12/2024)"
	msgAddressEmpty     = "Alamat tidak boleh kosong. Silahkan masukkan alamat lengkap."
	msgAddressTooShort  = "Alamat terlalu pendek. Minimal %d karakter. Silahkan masukkan alamat yang lebih lengkap."
	msgAddressTooLong   = "Alamat terlalu panjang. Maksimal %d karakter."
	msgOngoingTemplate  = "Anda memiliki proses pengisian LKN/RKH yang belum selesai: %s. Harap selesaikan terlebih dahulu atau ketik %scancel."
	msgSaveFailTemplate = "❌ Maaf, terjadi kesalahan saat menyimpan data %s.\n\nSilakan coba lagi atau hubungi administrator jika masalah berlanjut."
)

// skipWord lets the user leave optional answers empty.
const skipWord = "kosong"

var interestOptions = []chat.InlineButton{
	{Text: "Sangat tertarik", Data: "Sangat tertarik"},
	{Text: "Tertarik", Data: "Tertarik"},
	{Text: "Belum Tertarik", Data: "Belum Tertarik"},
	{Text: "Tidak Tertarik", Data: "Tidak Tertarik"},
}

func promptRegister(v *entity.Visit) string {
	return fmt.Sprintf("Hai!!! Kamu akan simpan data %s di database tagihan hari ini\n\n"+
		"Tapi Kamu Belum terdaftar pada database user kami, silahkan kirim nama panggilan anda.", v.Name)
}

func promptCode(v *entity.Visit) string {
	return fmt.Sprintf("Silahkan masukkan nomor SPK untuk %s %s.\n\nContoh: 1075xxxxxxxxx", v.Type.Label(), v.Name)
}

func promptNote(v *entity.Visit) string {
	return fmt.Sprintf("Silahkan masukkan caption/keterangan untuk %s an %s\n\n"+
		"Contoh: Penagihan Slamet Agustus Janji Bayar Tanggal 21", v.Type.Label(), v.Name)
}

func promptLimit(v *entity.Visit) string {
	return fmt.Sprintf("Silahkan masukkan plafond yang diajukan oleh %s\n\n"+
		"Format: 10,0rb|ribu|jt|juta|million|m|k\nContoh: 5,7jt", v.Name)
}

func promptAppointment(v *entity.Visit) string {
	return fmt.Sprintf("Apakah %s berjanji akan bayar tagihan pada tanggal yang telah ditentukan?\n\n"+
		"Format: 10,0rb|ribu|jt|juta|million|m|k\nContoh: 5,7jt", v.Name)
}

func promptReminder(v *entity.Visit) string {
	return fmt.Sprintf("Silahkan masukkan tanggal reminder untuk %s %s, atau %s jika tidak perlu reminder.\n\n"+
		"Format: YYYY-MM-DD\nContoh: 2026-01-12", v.Type.Label(), v.Name, skipWord)
}

func promptName(*entity.Visit) string {
	return "Silahkan masukkan nama lengkap nasabah/calon nasabah.\n\nContoh: Budi Santoso"
}

func promptInterest(v *entity.Visit) string {
	return chat.FormatNumberedInline(fmt.Sprintf("Seberapa tertarik %s dengan produk kami?", v.Name), interestOptions)
}

func promptAddress(v *entity.Visit) string {
	name := v.Name
	if name == "" {
		name = "calon nasabah"
	}
	return fmt.Sprintf("Silahkan masukkan alamat lengkap %s.\n\nContoh: Desa Lamuk RT 006 RW 008", name)
}

func promptBusiness(v *entity.Visit) string {
	example := "Usaha berjalan lancar, omset stabil, sudah memiliki produk yang berkualitas"
	if v.Type == entity.VisitProspecting || v.Type == entity.VisitSurvey {
		example = "Usaha Kue Kering"
	}
	return fmt.Sprintf("Jelaskan kondisi usaha %s, atau %s jika tidak ingin mengisi kondisi usaha.\n\nContoh: %s",
		v.Name, skipWord, example)
}

func ongoingMessage(session *chat.Session, prefix string) string {
	identifier := "N/A"
	if session.Visit != nil {
		switch {
		case session.Visit.Code != "":
			identifier = session.Visit.Code
		case session.Visit.Name != "":
			identifier = session.Visit.Name
		}
	}
	return fmt.Sprintf(msgOngoingTemplate, identifier, prefix)
}

func groupMessage(b *entity.Bill) string {
	return fmt.Sprintf("No SPK: %s\nNama: %s\nAlamat: %s\nTunggakan: %s\n\nNamun ada data yang belum diisi, ayok japri",
		b.Code, b.Name, b.Address, FormatRupiah(b.LastInstallment))
}
