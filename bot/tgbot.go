package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"

	"VisitBot/internal/lib/sl"
)

// SessionAdmin lets the admin inspect and drop conversations from Telegram.
type SessionAdmin interface {
	SessionState(ctx context.Context, userID string) (string, error)
	ResetSession(ctx context.Context, userID string) (bool, error)
}

// TgBot forwards log alerts to the administrator and answers a few admin commands.
type TgBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	sessions    SessionAdmin
}

func NewTgBot(botName, apiKey string, adminId int64, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:         log.With(sl.Module("tgbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) SetSessionAdmin(admin SessionAdmin) {
	t.sessions = admin
}

// Start polls for updates until ctx is cancelled.
func (t *TgBot) Start(ctx context.Context) error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Warn("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("session", t.handleSession))
	dispatcher.AddHandler(handlers.NewCommand("reset", t.handleReset))

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}
	t.log.Info("alert bot started", slog.String("username", t.botUsername))

	<-ctx.Done()
	return updater.Stop()
}

// SendMessage sends text to the administrator.
func (t *TgBot) SendMessage(msg string) {
	t.plainResponse(t.adminId, msg)
}

func (t *TgBot) handleSession(b *tgbotapi.Bot, ctx *ext.Context) error {
	userID, ok := t.adminArgument(ctx)
	if !ok {
		return nil
	}
	state, err := t.sessions.SessionState(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("session of %s: %w", userID, err)
	}
	t.plainResponse(ctx.EffectiveChat.Id, fmt.Sprintf("%s: %s", userID, state))
	return nil
}

func (t *TgBot) handleReset(b *tgbotapi.Bot, ctx *ext.Context) error {
	userID, ok := t.adminArgument(ctx)
	if !ok {
		return nil
	}
	existed, err := t.sessions.ResetSession(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("reset %s: %w", userID, err)
	}
	reply := "no active session"
	if existed {
		reply = "session removed"
	}
	t.plainResponse(ctx.EffectiveChat.Id, fmt.Sprintf("%s: %s", userID, reply))
	return nil
}

// adminArgument returns the JID argument of an admin command.
func (t *TgBot) adminArgument(ctx *ext.Context) (string, bool) {
	if ctx.EffectiveUser == nil || ctx.EffectiveUser.Id != t.adminId || t.sessions == nil {
		return "", false
	}
	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) < 2 {
		t.plainResponse(ctx.EffectiveChat.Id, "usage: /"+strings.TrimPrefix(args[0], "/")+" <jid>")
		return "", false
	}
	return args[1], true
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	sanitized := sanitize(text)

	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}
	_, err := t.api.SendMessage(chatId, sanitized, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("sending message", sl.Err(err))
		_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{})
		if err != nil {
			// not logged above debug: a failing alert must not raise another alert
			t.log.With(
				slog.Int64("id", chatId),
			).Debug("sending plain message", sl.Err(err))
		}
	}
}

// sanitize escapes MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reservedChars = "\\`_{}#+-.!|()[]*~>=<"

	var sb strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}
