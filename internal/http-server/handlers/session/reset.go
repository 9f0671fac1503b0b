package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"VisitBot/internal/lib/api/cont"
	"VisitBot/internal/lib/api/response"
	"VisitBot/internal/lib/sl"
)

func ResetSession(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.session")
	return func(w http.ResponseWriter, r *http.Request) {
		jid, ok := jidParam(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid jid"))
			return
		}

		existed, err := handler.ResetSession(r.Context(), jid)
		if err != nil {
			log.With(mod).Error("reset session", slog.String("jid", jid), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Reset failed"))
			return
		}

		log.With(mod).Info("session reset",
			slog.String("jid", jid),
			slog.Bool("existed", existed),
			slog.String("by", cont.GetUser(r.Context())),
		)
		render.JSON(w, r, response.Ok(map[string]bool{"removed": existed}))
	}
}
