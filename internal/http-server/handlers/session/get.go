package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"VisitBot/internal/lib/api/response"
	"VisitBot/internal/lib/sl"
)

var validate = validator.New()

// jidParam reads and validates the {jid} path parameter.
func jidParam(r *http.Request) (string, bool) {
	jid := chi.URLParam(r, "jid")
	if err := validate.Var(jid, "required,max=128"); err != nil {
		return "", false
	}
	return jid, true
}

func GetSession(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.session")
	return func(w http.ResponseWriter, r *http.Request) {
		jid, ok := jidParam(r)
		if !ok {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid jid"))
			return
		}

		session, err := handler.GetSession(r.Context(), jid)
		if err != nil {
			log.With(mod).Error("get session", slog.String("jid", jid), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to get session"))
			return
		}
		if session == nil {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Session not found"))
			return
		}

		render.JSON(w, r, response.Ok(session))
	}
}
