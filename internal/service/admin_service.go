package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"screenbot/internal/cache"
	"screenbot/internal/config"
	"screenbot/internal/model"
)

const storeErrorDisplayLen = 300

// AdminService serves statistics to the single configured admin and cleans up after them
type AdminService struct {
	reports     *ReportService
	buffer      cache.AdminMessageBuffer
	messenger   Messenger
	adminUserID int64
	copy        *config.AdminCopy
	logger      *slog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	reports *ReportService,
	buffer cache.AdminMessageBuffer,
	messenger Messenger,
	adminUserID int64,
	texts *config.AdminCopy,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		reports:     reports,
		buffer:      buffer,
		messenger:   messenger,
		adminUserID: adminUserID,
		copy:        texts,
		logger:      logger,
	}
}

// IsAdmin reports whether userID is the configured admin
func (s *AdminService) IsAdmin(userID int64) bool {
	return userID != 0 && userID == s.adminUserID
}

// StatsCommand handles "/admin" and "/admin top"
func (s *AdminService) StatsCommand(ctx context.Context, user model.Candidate, chatID int64, arg string) error {
	if !s.IsAdmin(user.UserID) {
		return s.send(ctx, chatID, textMessage(s.copy.OnlyCommand))
	}
	return s.send(ctx, chatID, textMessage(s.StatsText(ctx, IsTopFilter(arg))))
}

// ChatIDCommand shows the chat identifier, useful for configuring the alert chat
func (s *AdminService) ChatIDCommand(ctx context.Context, user model.Candidate, chatID int64, chatType string) error {
	if !s.IsAdmin(user.UserID) {
		return s.send(ctx, chatID, textMessage(s.copy.OnlyCommand))
	}
	return s.send(ctx, chatID, textMessage(fmt.Sprintf(s.copy.ChatID, chatID, chatType)))
}

// Action handles admin:* buttons and returns the short acknowledgment to show, if any
func (s *AdminService) Action(ctx context.Context, user model.Candidate, chatID int64, action string, source *model.MessageRef) (string, error) {
	if !s.IsAdmin(user.UserID) {
		return s.copy.OnlyAction, nil
	}

	switch action {
	case model.ActionAdminMenu:
		return "", s.sendTracked(ctx, user.UserID, chatID, s.menu())
	case model.ActionAdminAll:
		return "", s.sendTracked(ctx, user.UserID, chatID, textMessage(s.StatsText(ctx, false)))
	case model.ActionAdminTop:
		return "", s.sendTracked(ctx, user.UserID, chatID, textMessage(s.StatsText(ctx, true)))
	case model.ActionAdminClose:
		if source != nil {
			if err := s.buffer.Track(ctx, user.UserID, *source); err != nil {
				s.logger.Warn("track admin menu failed", "user_id", user.UserID, "error", err)
			}
		}
		if err := s.Close(ctx, user.UserID); err != nil {
			return "", err
		}
		return s.copy.ClosedAck, nil
	default:
		return "", fmt.Errorf("unknown admin action %q", action)
	}
}

// Close deletes every tracked admin message, newest first, and empties the buffer
func (s *AdminService) Close(ctx context.Context, adminID int64) error {
	refs, err := s.buffer.Drain(ctx, adminID)
	if err != nil {
		return fmt.Errorf("drain admin buffer: %w", err)
	}
	for i := len(refs) - 1; i >= 0; i-- {
		if err := s.messenger.Delete(ctx, refs[i]); err != nil {
			s.logger.Debug("delete admin message failed", "message_id", refs[i].MessageID, "error", err)
		}
	}
	return nil
}

// StatsText renders the statistics, or the storage warning when rows cannot be read
func (s *AdminService) StatsText(ctx context.Context, topOnly bool) string {
	summary, err := s.reports.Stats(ctx, topOnly)
	if err != nil {
		s.logger.Error("read row store failed", "error", err)
		return fmt.Sprintf(s.copy.StoreError, model.Truncate(err.Error(), storeErrorDisplayLen))
	}
	return s.reports.RenderSummary(*summary)
}

// IsTopFilter reports whether a command argument asks for top candidates only
func IsTopFilter(arg string) bool {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "top", "топ":
		return true
	}
	return false
}

func (s *AdminService) menu() model.OutgoingMessage {
	return model.OutgoingMessage{
		Text: s.copy.MenuTitle,
		Buttons: [][]model.Button{
			{{Text: s.copy.AllButton, Action: model.ActionAdminAll}},
			{{Text: s.copy.TopButton, Action: model.ActionAdminTop}},
			{{Text: s.copy.CloseButton, Action: model.ActionAdminClose}},
		},
	}
}

func (s *AdminService) send(ctx context.Context, chatID int64, msg model.OutgoingMessage) error {
	_, err := s.messenger.Send(ctx, chatID, msg)
	return err
}

func (s *AdminService) sendTracked(ctx context.Context, adminID, chatID int64, msg model.OutgoingMessage) error {
	ref, err := s.messenger.Send(ctx, chatID, msg)
	if err != nil {
		return err
	}
	if err := s.buffer.Track(ctx, adminID, *ref); err != nil {
		s.logger.Warn("track admin message failed", "user_id", adminID, "error", err)
	}
	return nil
}
