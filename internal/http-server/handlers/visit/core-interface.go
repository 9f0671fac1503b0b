package visit

import (
	"context"

	"VisitBot/entity"
)

type Core interface {
	ListVisits(ctx context.Context, userID string, limit int64) ([]*entity.Visit, error)
}
