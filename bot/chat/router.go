package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"VisitBot/internal/lib/sl"
)

// Outcome tells the ingestion boundary what happened to a message.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeNoMatch
	OutcomeDuplicate
	OutcomeHandled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeHandled:
		return "handled"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// inFlightTTL bounds how long a message id can stay marked if its handler never returns.
const inFlightTTL = 5 * time.Minute

// Router maps prefixed trigger words to commands.
type Router struct {
	prefix   string
	commands map[string]Command
	inFlight *cache.Cache
	log      *slog.Logger
}

func NewRouter(prefix string, log *slog.Logger) *Router {
	return &Router{
		prefix:   prefix,
		commands: make(map[string]Command),
		inFlight: cache.New(inFlightTTL, time.Minute),
		log:      log.With(sl.Module("chat.router")),
	}
}

// Register adds a command. Triggers are case-insensitive and must be unique.
func (r *Router) Register(c Command) error {
	trigger := strings.ToLower(strings.TrimSpace(c.Trigger()))
	if trigger == "" {
		return fmt.Errorf("command %T has empty trigger", c)
	}
	if _, ok := r.commands[trigger]; ok {
		return fmt.Errorf("trigger %q registered twice", trigger)
	}
	r.commands[trigger] = c
	r.log.Debug("registered command", slog.String("trigger", trigger))
	return nil
}

// Triggers lists registered triggers.
func (r *Router) Triggers() []string {
	triggers := make([]string, 0, len(r.commands))
	for t := range r.commands {
		triggers = append(triggers, t)
	}
	return triggers
}

// Match parses text as "<prefix><trigger> <args>" and returns the command.
func (r *Router) Match(text string) (Command, string, bool) {
	text = strings.TrimSpace(text)
	if r.prefix == "" || !strings.HasPrefix(text, r.prefix) {
		return nil, "", false
	}
	parts := strings.SplitN(text, " ", 2)
	trigger := strings.ToLower(strings.TrimPrefix(parts[0], r.prefix))
	c, ok := r.commands[trigger]
	if !ok {
		return nil, "", false
	}
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return c, args, true
}

// Dispatch runs the command addressed by msg at most once per message id at a time.
// Command errors and panics are logged and reported as OutcomeFailed.
func (r *Router) Dispatch(ctx context.Context, m Messenger, msg InboundMessage) (outcome Outcome) {
	log := r.log.With(
		slog.String("message_id", msg.ID),
		slog.String("from", msg.From),
	)

	if msg.ID != "" {
		if err := r.inFlight.Add(msg.ID, struct{}{}, cache.DefaultExpiration); err != nil {
			log.Warn("message already being processed")
			return OutcomeDuplicate
		}
		defer r.inFlight.Delete(msg.ID)
	}

	c, args, ok := r.Match(msg.Text())
	if !ok {
		return OutcomeNoMatch
	}
	log = log.With(slog.String("trigger", c.Trigger()))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("command panic", slog.Any("panic", rec))
			outcome = OutcomeFailed
		}
	}()

	if err := c.Execute(ctx, m, msg, args); err != nil {
		log.Error("command failed", sl.Err(err))
		return OutcomeFailed
	}
	log.Debug("command handled")
	return OutcomeHandled
}
