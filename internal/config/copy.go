package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed copy.yaml
var defaultCopy []byte

// QuestionCopy is one screening question and its "needs more detail" reprompt
type QuestionCopy struct {
	Prompt   string `yaml:"prompt"`
	Reprompt string `yaml:"reprompt"`
}

// ConversationCopy holds candidate-facing texts
type ConversationCopy struct {
	Rules          string         `yaml:"rules"`
	GoButton       string         `yaml:"go_button"`
	GoAck          string         `yaml:"go_ack"`
	Accepted       string         `yaml:"accepted"`
	Questions      []QuestionCopy `yaml:"questions"`
	LinkPrompt     string         `yaml:"link_prompt"`
	LinkReprompt   string         `yaml:"link_reprompt"`
	LinkInvalid    string         `yaml:"link_invalid"`
	LinkBareDomain string         `yaml:"link_bare_domain"`
	ScoringWait    string         `yaml:"scoring_wait"`
	Thanks         string         `yaml:"thanks"`
	Cancelled      string         `yaml:"cancelled"`
}

// AdminCopy holds admin panel texts
type AdminCopy struct {
	EntryButton string `yaml:"entry_button"`
	MenuTitle   string `yaml:"menu_title"`
	AllButton   string `yaml:"all_button"`
	TopButton   string `yaml:"top_button"`
	CloseButton string `yaml:"close_button"`
	ClosedAck   string `yaml:"closed_ack"`
	OnlyCommand string `yaml:"only_command"`
	OnlyAction  string `yaml:"only_action"`
	StoreError  string `yaml:"store_error"`
	ChatID      string `yaml:"chat_id"`
}

// ReportCopy holds statistics texts
type ReportCopy struct {
	Title       string `yaml:"title"`
	TitleTop    string `yaml:"title_top"`
	NoData      string `yaml:"no_data"`
	NoTop       string `yaml:"no_top"`
	Total       string `yaml:"total"`
	Average     string `yaml:"average"`
	TopCount    string `yaml:"top_count"`
	FailedCount string `yaml:"failed_count"`
	Leaderboard string `yaml:"leaderboard"`
	Entry       string `yaml:"entry"`
	HotBadge    string `yaml:"hot_badge"`
	Unknown     string `yaml:"unknown"`
}

// AlertCopy holds admin alert texts
type AlertCopy struct {
	TopHeadline       string   `yaml:"top_headline"`
	AttentionHeadline string   `yaml:"attention_headline"`
	PlaceholderName   string   `yaml:"placeholder_name"`
	SummaryTitle      string   `yaml:"summary_title"`
	Summary           string   `yaml:"summary"`
	ScoresTitle       string   `yaml:"scores_title"`
	Criteria          []string `yaml:"criteria"`
	NoStars           string   `yaml:"no_stars"`
	Materials         string   `yaml:"materials"`
	NDA               string   `yaml:"nda"`
	NDANote           string   `yaml:"nda_note"`
	Declined          string   `yaml:"declined"`
	DiagnosticsTitle  string   `yaml:"diagnostics_title"`
	Footer            string   `yaml:"footer"`
}

// Copy is the full set of user-facing texts
type Copy struct {
	Conversation ConversationCopy `yaml:"conversation"`
	Admin        AdminCopy        `yaml:"admin"`
	Report       ReportCopy       `yaml:"report"`
	Alert        AlertCopy        `yaml:"alert"`
}

// DefaultCopy returns the embedded texts
func DefaultCopy() *Copy {
	c, err := ParseCopy(defaultCopy)
	if err != nil {
		panic(fmt.Sprintf("embedded copy.yaml: %v", err))
	}
	return c
}

// LoadCopy reads texts from path, or the embedded defaults when path is empty
func LoadCopy(path string) (*Copy, error) {
	if path == "" {
		return DefaultCopy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read copy file: %w", err)
	}
	return ParseCopy(data)
}

// ParseCopy decodes and checks a copy document
func ParseCopy(data []byte) (*Copy, error) {
	var c Copy
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode copy: %w", err)
	}
	if n := len(c.Conversation.Questions); n != 6 {
		return nil, fmt.Errorf("copy: expected 6 questions, got %d", n)
	}
	if n := len(c.Alert.Criteria); n != 3 {
		return nil, fmt.Errorf("copy: expected 3 alert criteria labels, got %d", n)
	}
	return &c, nil
}
