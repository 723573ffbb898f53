package model

import "time"

// MessageRef points at a message shown in a chat. It is a lookup token for
// edit/delete, never ownership of the message.
type MessageRef struct {
	ChatID    int64  `json:"chatId"`
	MessageID string `json:"messageId"`
}

// Candidate is the chat identity of the person being screened
type Candidate struct {
	UserID   int64  `json:"tg_user_id"`
	Username string `json:"username,omitempty"`  // handle, without "@"
	FullName string `json:"full_name,omitempty"` // display name
}

// Session is the per-user in-memory conversation state
type Session struct {
	UserID     int64                  `json:"userId"`
	ChatID     int64                  `json:"chatId"`
	Step       Step                   `json:"step"`
	Answers    map[QuestionKey]string `json:"answers"`
	LastPrompt *MessageRef            `json:"lastPrompt,omitempty"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// NewSession returns an idle session with no answers
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:  userID,
		ChatID:  chatID,
		Step:    StepIdle,
		Answers: make(map[QuestionKey]string),
	}
}

// Reset discards all collected data and returns the session to idle
func (s *Session) Reset() {
	s.Step = StepIdle
	s.Answers = make(map[QuestionKey]string)
	s.LastPrompt = nil
}
