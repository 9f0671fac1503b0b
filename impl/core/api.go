package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"VisitBot/bot/chat"
	"VisitBot/entity"
)

const apiUser = "api"

func (c *Core) AuthenticateByToken(token string) (string, error) {
	if c.authKey == "" {
		return "", fmt.Errorf("api key not configured")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) != 1 {
		return "", fmt.Errorf("invalid token")
	}
	return apiUser, nil
}

// ValidateToken authenticates dashboard websocket clients with the same key.
func (c *Core) ValidateToken(token string) (string, error) {
	return c.AuthenticateByToken(token)
}

func (c *Core) GetSession(ctx context.Context, userID string) (*chat.Session, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("engine is not set")
	}
	return c.engine.Session(ctx, userID)
}

func (c *Core) ResetSession(ctx context.Context, userID string) (bool, error) {
	if c.engine == nil {
		return false, fmt.Errorf("engine is not set")
	}
	existed, err := c.engine.Cancel(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("cancel session: %w", err)
	}
	c.log.With(
		slog.String("user_id", userID),
		slog.Bool("existed", existed),
	).Info("reset session")
	return existed, nil
}

// SessionState describes the session of a user for admin chats.
func (c *Core) SessionState(ctx context.Context, userID string) (string, error) {
	session, err := c.GetSession(ctx, userID)
	if err != nil {
		return "", err
	}
	officer := "unregistered"
	if c.repo != nil {
		user, err := c.repo.GetUser(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("find user: %w", err)
		}
		if user != nil {
			officer = user.AccountOfficer
		}
	}
	if session == nil {
		return fmt.Sprintf("officer: %s\nno active session", officer), nil
	}
	v := session.Visit
	return fmt.Sprintf("officer: %s\nstate: %s\ntype: %s\nspk: %s\nname: %s\nupdated: %s",
		officer, session.State, v.Type, v.Code, v.Name,
		session.UpdatedAt.Format("2006-01-02 15:04:05"),
	), nil
}

func (c *Core) ListVisits(ctx context.Context, userID string, limit int64) ([]*entity.Visit, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("repository is not set")
	}
	visits, err := c.repo.FindVisitsByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("find visits: %w", err)
	}
	return visits, nil
}
