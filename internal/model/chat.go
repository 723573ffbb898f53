package model

// UpdateKind is the type of an incoming chat event
type UpdateKind string

const (
	UpdateText   UpdateKind = "text"   // free text, including "/commands"
	UpdateAction UpdateKind = "action" // button press
)

// Update is one incoming chat event
type Update struct {
	Kind     UpdateKind  `json:"type"`
	From     Candidate   `json:"-"`
	ChatID   int64       `json:"-"`
	ChatType string      `json:"-"` // "private" or "group"
	Text     string      `json:"text,omitempty"`
	Action   string      `json:"data,omitempty"`    // button payload, e.g. "go:start"
	Message  *MessageRef `json:"message,omitempty"` // message carrying the pressed button
}

// Button is an inline action button
type Button struct {
	Text   string `json:"text"`
	Action string `json:"data"`
}

// OutgoingMessage is a message shown to a chat
type OutgoingMessage struct {
	Text    string     `json:"text"`
	Buttons [][]Button `json:"buttons,omitempty"` // rows of buttons
}

// Button actions
const (
	ActionStart      = "go:start"
	ActionAdminMenu  = "admin:menu"
	ActionAdminAll   = "admin:all"
	ActionAdminTop   = "admin:top"
	ActionAdminClose = "admin:close"
)
