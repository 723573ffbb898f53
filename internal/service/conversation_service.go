package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"screenbot/internal/cache"
	"screenbot/internal/classify"
	"screenbot/internal/config"
	"screenbot/internal/model"
)

// ConversationService drives one candidate through the rules, six questions and the project link
type ConversationService struct {
	sessions    cache.SessionCache
	messenger   Messenger
	completion  *CompletionService
	copy        *config.Copy
	adminUserID int64
	pacing      time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	sessions cache.SessionCache,
	messenger Messenger,
	completion *CompletionService,
	texts *config.Copy,
	adminUserID int64,
	pacing time.Duration,
	logger *slog.Logger,
) *ConversationService {
	return &ConversationService{
		sessions:    sessions,
		messenger:   messenger,
		completion:  completion,
		copy:        texts,
		adminUserID: adminUserID,
		pacing:      pacing,
		sleep:       sleepContext,
		logger:      logger,
	}
}

// Session returns the user's current session, idle if none is stored
func (s *ConversationService) Session(ctx context.Context, userID, chatID int64) (*model.Session, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		session = model.NewSession(userID, chatID)
	}
	session.ChatID = chatID
	return session, nil
}

func (s *ConversationService) save(ctx context.Context, session *model.Session) error {
	session.UpdatedAt = time.Now().UTC()
	if err := s.sessions.Set(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Start handles /start and /restart: full reset, then the rules message with the go button
func (s *ConversationService) Start(ctx context.Context, user model.Candidate, chatID int64) error {
	session, err := s.Session(ctx, user.UserID, chatID)
	if err != nil {
		return err
	}
	session.Reset()
	if err := fireStep(ctx, session, EventStart); err != nil {
		return err
	}

	conv := s.copy.Conversation
	if _, err := s.messenger.Send(ctx, chatID, buttonMessage(conv.Rules, conv.GoButton, model.ActionStart)); err != nil {
		s.logger.Warn("send rules failed", "user_id", user.UserID, "error", err)
	}
	return s.save(ctx, session)
}

// Confirm handles the go button. Outside the rules step it only returns the short acknowledgment.
func (s *ConversationService) Confirm(ctx context.Context, user model.Candidate, chatID int64, rules *model.MessageRef) (string, error) {
	session, err := s.Session(ctx, user.UserID, chatID)
	if err != nil {
		return "", err
	}
	if !canFire(session, EventConfirm) {
		return s.copy.Conversation.GoAck, nil
	}

	if rules != nil {
		if err := s.messenger.Delete(ctx, *rules); err != nil {
			s.logger.Debug("delete rules message failed", "user_id", user.UserID, "error", err)
		}
	}

	if err := fireStep(ctx, session, EventConfirm); err != nil {
		return "", err
	}
	session.Answers = make(map[model.QuestionKey]string)
	session.LastPrompt = nil
	if err := s.save(ctx, session); err != nil {
		return "", err
	}

	s.replacePrompt(ctx, session, textMessage(s.copy.Conversation.Questions[0].Prompt))
	return "", s.save(ctx, session)
}

// Answer handles free text for the current step. Validation failures reprompt and never return errors.
func (s *ConversationService) Answer(ctx context.Context, user model.Candidate, chatID int64, text string) error {
	session, err := s.Session(ctx, user.UserID, chatID)
	if err != nil {
		return err
	}

	switch {
	case session.Step.IsQuestion():
		return s.answerQuestion(ctx, session, text)
	case session.Step == model.StepAwaitingLink:
		return s.answerLink(ctx, user, session, text)
	default:
		// idle, rules shown or completed: free text is ignored
		return nil
	}
}

func (s *ConversationService) answerQuestion(ctx context.Context, session *model.Session, text string) error {
	key := model.QuestionSteps[session.Step]
	n := key.Index()
	conv := s.copy.Conversation

	answer := strings.TrimSpace(text)
	if answer == "" {
		s.notice(ctx, session, conv.Questions[n-1].Reprompt)
		return nil
	}

	session.Answers[key] = answer
	if err := fireStep(ctx, session, EventAnswer); err != nil {
		return err
	}
	if err := s.save(ctx, session); err != nil {
		return err
	}

	if n < len(model.QuestionKeys) {
		s.markAccepted(ctx, session, n)
		s.replacePrompt(ctx, session, textMessage(conv.Questions[n].Prompt))
	} else {
		s.replacePrompt(ctx, session, textMessage(conv.LinkPrompt))
	}
	return s.save(ctx, session)
}

func (s *ConversationService) answerLink(ctx context.Context, user model.Candidate, session *model.Session, text string) error {
	conv := s.copy.Conversation
	answer := strings.TrimSpace(text)
	if answer == "" {
		s.notice(ctx, session, conv.LinkReprompt)
		return nil
	}

	var link model.ProjectLink
	switch category := classify.Classify(answer); category {
	case classify.Decline:
		link = model.ProjectLink{Kind: model.LinkDeclined}
	case classify.ValidURL:
		link = model.ProjectLink{Kind: model.LinkURL, URL: answer}
	case classify.NdaMarker:
		link = model.ProjectLink{Kind: model.LinkNDA}
	case classify.NdaNote:
		link = model.ProjectLink{Kind: model.LinkNDA, Note: answer}
	case classify.BareDomain:
		s.notice(ctx, session, fmt.Sprintf(conv.LinkBareDomain, answer))
		return nil
	default:
		s.notice(ctx, session, conv.LinkInvalid)
		return nil
	}

	if err := fireStep(ctx, session, EventSubmitLink); err != nil {
		return err
	}
	if err := s.save(ctx, session); err != nil {
		return err
	}

	payload := model.NewScreeningPayload(user, session.Answers, link)
	s.completion.Complete(ctx, payload, session.ChatID)

	thanks := textMessage(conv.Thanks)
	if user.UserID == s.adminUserID {
		thanks = buttonMessage(conv.Thanks, s.copy.Admin.EntryButton, model.ActionAdminMenu)
	}
	s.replacePrompt(ctx, session, thanks)

	if err := fireStep(ctx, session, EventReset); err != nil {
		return err
	}
	session.Reset()
	return s.save(ctx, session)
}

// Cancel discards the session from any step. Nothing is persisted.
func (s *ConversationService) Cancel(ctx context.Context, user model.Candidate, chatID int64) error {
	session, err := s.Session(ctx, user.UserID, chatID)
	if err != nil {
		return err
	}
	if err := fireStep(ctx, session, EventCancel); err != nil {
		return err
	}
	session.Reset()

	s.notice(ctx, session, s.copy.Conversation.Cancelled)
	s.logger.Info("session cancelled", "user_id", user.UserID)
	return s.save(ctx, session)
}

// replacePrompt pauses, removes the previous prompt and shows msg as the new one.
// Cleanup errors are swallowed.
func (s *ConversationService) replacePrompt(ctx context.Context, session *model.Session, msg model.OutgoingMessage) {
	if err := s.sleep(ctx, s.pacing); err != nil {
		s.logger.Debug("pacing interrupted", "user_id", session.UserID, "error", err)
	}

	if session.LastPrompt != nil {
		if err := s.messenger.Delete(ctx, *session.LastPrompt); err != nil {
			s.logger.Debug("delete previous prompt failed", "user_id", session.UserID, "error", err)
		}
		session.LastPrompt = nil
	}

	ref, err := s.messenger.Send(ctx, session.ChatID, msg)
	if err != nil {
		s.logger.Warn("send prompt failed", "user_id", session.UserID, "step", session.Step, "error", err)
		return
	}
	session.LastPrompt = ref
}

// markAccepted turns the previous prompt into the "answer N accepted" line, then pauses
func (s *ConversationService) markAccepted(ctx context.Context, session *model.Session, n int) {
	if session.LastPrompt != nil {
		text := fmt.Sprintf(s.copy.Conversation.Accepted, n)
		if err := s.messenger.Edit(ctx, *session.LastPrompt, textMessage(text)); err != nil {
			s.logger.Debug("mark answer accepted failed", "user_id", session.UserID, "error", err)
		}
	}
	if err := s.sleep(ctx, s.pacing); err != nil {
		s.logger.Debug("pacing interrupted", "user_id", session.UserID, "error", err)
	}
}

// notice sends an untracked message; the current prompt stays in place
func (s *ConversationService) notice(ctx context.Context, session *model.Session, text string) {
	if _, err := s.messenger.Send(ctx, session.ChatID, textMessage(text)); err != nil {
		s.logger.Warn("send notice failed", "user_id", session.UserID, "error", err)
	}
}
