package session

import (
	"context"

	"VisitBot/bot/chat"
)

type Core interface {
	GetSession(ctx context.Context, userID string) (*chat.Session, error)
	ResetSession(ctx context.Context, userID string) (bool, error)
}
