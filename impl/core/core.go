package core

import (
	"context"
	"log/slog"

	"VisitBot/bot/chat"
	"VisitBot/entity"
	"VisitBot/internal/lib/sl"
)

type Repository interface {
	FindVisitsByUser(ctx context.Context, userID string, limit int64) ([]*entity.Visit, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

type Core struct {
	engine    *chat.Engine
	messenger chat.Messenger
	repo      Repository
	authKey   string
	log       *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetEngine(engine *chat.Engine) {
	c.engine = engine
}

func (c *Core) SetMessenger(m chat.Messenger) {
	c.messenger = m
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// HandleMessage feeds one webhook message into the conversation engine.
func (c *Core) HandleMessage(ctx context.Context, msg chat.InboundMessage) {
	if c.engine == nil || c.messenger == nil {
		c.log.Warn("message dropped, engine not set", slog.String("message_id", msg.ID))
		return
	}
	outcome := c.engine.Dispatch(ctx, c.messenger, msg)
	c.log.Debug("message handled",
		slog.String("message_id", msg.ID),
		slog.String("from", msg.From),
		slog.String("outcome", outcome.String()),
	)
}
