package visit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"VisitBot/bot/chat"
	"VisitBot/entity"
	"VisitBot/internal/lib/sl"
)

// visitCommand opens a session for one visit type.
type visitCommand struct {
	w         *Workflow
	trigger   string
	visitType entity.VisitType
}

func (c *visitCommand) Trigger() string { return c.trigger }

func (c *visitCommand) requiresCode() bool {
	return c.visitType != entity.VisitProspecting && c.visitType != entity.VisitSurvey
}

func (c *visitCommand) Execute(ctx context.Context, m chat.Messenger, msg chat.InboundMessage, args string) error {
	engine := c.w.deps.Engine
	log := c.w.log.With(
		slog.String("trigger", c.trigger),
		slog.String("user_id", msg.From),
	)

	current, err := engine.Session(ctx, msg.From)
	if err != nil {
		c.reply(ctx, m, msg, msgGeneralError)
		return fmt.Errorf("load session: %w", err)
	}
	if current != nil {
		return m.SendText(ctx, msg.From, ongoingMessage(current, c.w.deps.Prefix))
	}

	visit := entity.NewVisit(msg.From, c.visitType)
	text := args
	var bill *entity.Bill
	if c.requiresCode() {
		var code string
		code, text = chat.SplitFirst(args)
		if code == "" {
			c.reply(ctx, m, msg, msgMissingCode)
			return nil
		}
		bill, err = c.w.deps.Bills.FindBillByCode(ctx, code)
		if err != nil {
			c.reply(ctx, m, msg, msgGeneralError)
			return fmt.Errorf("find bill %s: %w", code, err)
		}
		if bill == nil {
			log.Warn("bill not found", slog.String("code", code))
			c.reply(ctx, m, msg, msgBillNotFound)
			return nil
		}
		visit.SeedFromBill(bill)
	}
	c.w.applyFreeText(visit, text)
	if msg.ImagePath != "" {
		visit.ImageURL = msg.ImagePath
	}

	if bill != nil && msg.IsGroup() {
		if err = m.SendText(ctx, msg.ChatID, groupMessage(bill)); err != nil {
			log.Warn("send group notification", sl.Err(err))
		}
	}

	err = engine.Start(ctx, m, chat.NewSession(visit))
	if errors.Is(err, chat.ErrSessionActive) {
		// another message opened a session in the meantime
		return nil
	}
	if err != nil {
		c.reply(ctx, m, msg, msgGeneralError)
		return fmt.Errorf("start session: %w", err)
	}
	return nil
}

func (c *visitCommand) reply(ctx context.Context, m chat.Messenger, msg chat.InboundMessage, text string) {
	if err := m.SendReply(ctx, msg.ReplyTo(), msg.ID, text); err != nil {
		c.w.log.Warn("send reply", slog.String("chat_id", msg.ReplyTo()), sl.Err(err))
	}
}

// cancelCommand drops the sender's session.
type cancelCommand struct {
	w *Workflow
}

func (c *cancelCommand) Trigger() string { return "cancel" }

func (c *cancelCommand) Execute(ctx context.Context, m chat.Messenger, msg chat.InboundMessage, _ string) error {
	existed, err := c.w.deps.Engine.Cancel(ctx, msg.From)
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}
	if !existed {
		return nil
	}
	c.w.log.Info("session cancelled", slog.String("user_id", msg.From))
	return m.SendText(ctx, msg.From, msgCancelled)
}
