package visit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"VisitBot/internal/lib/api/response"
	"VisitBot/internal/lib/sl"
)

type ListRequest struct {
	UserID string `validate:"required,max=128"`
	Limit  int64  `validate:"min=1,max=200"`
}

var validate = validator.New()

func ListVisits(log *slog.Logger, handler Core) http.HandlerFunc {
	mod := sl.Module("http.handlers.visit")
	return func(w http.ResponseWriter, r *http.Request) {
		req := ListRequest{
			UserID: r.URL.Query().Get("user"),
			Limit:  20,
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid limit"))
				return
			}
			req.Limit = n
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		visits, err := handler.ListVisits(r.Context(), req.UserID, req.Limit)
		if err != nil {
			log.With(mod).Error("list visits", slog.String("user", req.UserID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list visits"))
			return
		}

		render.JSON(w, r, response.Ok(visits))
	}
}
