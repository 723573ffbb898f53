package service

import (
	"context"
	"time"

	"screenbot/internal/model"
)

// Messenger shows, edits and removes messages in a chat
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg model.OutgoingMessage) (*model.MessageRef, error)
	Edit(ctx context.Context, ref model.MessageRef, msg model.OutgoingMessage) error
	Delete(ctx context.Context, ref model.MessageRef) error
}

// Notifier delivers plain-text alerts to a chat
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func textMessage(text string) model.OutgoingMessage {
	return model.OutgoingMessage{Text: text}
}

func buttonMessage(text, buttonText, action string) model.OutgoingMessage {
	return model.OutgoingMessage{
		Text:    text,
		Buttons: [][]model.Button{{{Text: buttonText, Action: action}}},
	}
}
