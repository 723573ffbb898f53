// Package chat routes incoming chat updates to the conversation and admin services.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"screenbot/internal/model"
	"screenbot/internal/service"
)

// Acker answers a button press with a short transient text
type Acker interface {
	Ack(ctx context.Context, chatID int64, text string) error
}

// Router dispatches commands, free text and button actions
type Router struct {
	conv   *service.ConversationService
	admin  *service.AdminService
	acks   Acker
	locks  *userLocks
	logger *slog.Logger
}

// NewRouter creates a new chat router
func NewRouter(conv *service.ConversationService, admin *service.AdminService, acks Acker, logger *slog.Logger) *Router {
	return &Router{
		conv:   conv,
		admin:  admin,
		acks:   acks,
		locks:  newUserLocks(),
		logger: logger,
	}
}

// Dispatch handles one update. Updates of the same user never run concurrently.
func (r *Router) Dispatch(ctx context.Context, update model.Update) error {
	unlock := r.locks.lock(update.From.UserID)
	defer unlock()

	switch update.Kind {
	case model.UpdateAction:
		return r.action(ctx, update)
	case model.UpdateText:
		return r.text(ctx, update)
	}
	return nil
}

func (r *Router) text(ctx context.Context, update model.Update) error {
	user, chatID := update.From, update.ChatID

	command, arg, ok := ParseCommand(update.Text)
	if ok {
		switch command {
		case "start", "restart":
			return r.conv.Start(ctx, user, chatID)
		case "cancel":
			return r.conv.Cancel(ctx, user, chatID)
		case "admin":
			return r.admin.StatsCommand(ctx, user, chatID, arg)
		case "chatid":
			return r.admin.ChatIDCommand(ctx, user, chatID, update.ChatType)
		}
	}
	// anything else, unknown commands included, is an answer to the current step
	return r.conv.Answer(ctx, user, chatID, update.Text)
}

func (r *Router) action(ctx context.Context, update model.Update) error {
	var (
		ack string
		err error
	)
	switch {
	case update.Action == model.ActionStart:
		ack, err = r.conv.Confirm(ctx, update.From, update.ChatID, update.Message)
	case strings.HasPrefix(update.Action, "admin:"):
		ack, err = r.admin.Action(ctx, update.From, update.ChatID, update.Action, update.Message)
	default:
		r.logger.Debug("unknown action ignored", "user_id", update.From.UserID, "action", update.Action)
	}

	if ack != "" {
		if ackErr := r.acks.Ack(ctx, update.ChatID, ack); ackErr != nil {
			r.logger.Debug("ack failed", "user_id", update.From.UserID, "error", ackErr)
		}
	}
	return err
}

// ParseCommand splits "/cmd@bot arg" into its lower-cased name and the trimmed rest
func ParseCommand(text string) (command, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	if i := strings.IndexByte(head, '@'); i >= 0 {
		head = head[:i]
	}
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}
