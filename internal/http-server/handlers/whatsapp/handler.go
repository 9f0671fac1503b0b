package whatsapp

import (
	"log/slog"
	"net/http"

	"VisitBot/bot/whatsapp"
	"VisitBot/internal/lib/sl"
)

// WebhookHandler handles POST requests for incoming gateway events
func WebhookHandler(log *slog.Logger, bot *whatsapp.WhatsAppBot) http.HandlerFunc {
	logger := log.With(sl.Module("whatsapp.webhook"))
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("webhook event received")
		bot.HandleWebhook(w, r)
	}
}
