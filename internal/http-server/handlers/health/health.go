package health

import (
	"net/http"

	"github.com/go-chi/render"

	"VisitBot/internal/lib/api/response"
)

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok("ok"))
	}
}
