package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"screenbot/internal/config"
	"screenbot/internal/model"
)

const (
	alertDiagnosticLen = 200
	alertNoteLen       = 110
)

// AlertInput is everything an admin alert can mention about one completed session
type AlertInput struct {
	Candidate     model.Candidate
	Result        *model.ScoreResult // nil when scoring failed
	Link          model.ProjectLink
	Top           bool
	ScoringFailed bool
	ScoringError  string
	StoreError    string
}

// ShouldAlert fires when scoring failed, the store failed or the candidate is top
func ShouldAlert(scoringFailed, storeFailed, top bool) bool {
	return scoringFailed || storeFailed || top
}

// AlertService formats and delivers admin alerts
type AlertService struct {
	notifier Notifier
	chatID   int64
	copy     *config.AlertCopy
	logger   *slog.Logger
}

// NewAlertService creates a new alert service delivering to chatID
func NewAlertService(notifier Notifier, chatID int64, texts *config.AlertCopy, logger *slog.Logger) *AlertService {
	return &AlertService{
		notifier: notifier,
		chatID:   chatID,
		copy:     texts,
		logger:   logger,
	}
}

// Dispatch sends the alert once. Delivery errors are logged and dropped.
func (s *AlertService) Dispatch(ctx context.Context, input AlertInput) {
	if err := s.notifier.Notify(ctx, s.chatID, s.FormatAlert(input)); err != nil {
		s.logger.Warn("admin alert not delivered",
			"user_id", input.Candidate.UserID,
			"chat_id", s.chatID,
			"error", err)
	}
}

// FormatAlert renders the plain-text alert card
func (s *AlertService) FormatAlert(input AlertInput) string {
	c := s.copy
	var b strings.Builder

	headline := c.AttentionHeadline
	if input.Top {
		headline = c.TopHeadline
	}
	fmt.Fprintf(&b, headline, s.displayName(input.Candidate))
	b.WriteString("\n\n")

	b.WriteString(c.SummaryTitle + "\n")
	b.WriteString(c.Summary + "\n\n")

	b.WriteString(c.ScoresTitle + "\n")
	for i, label := range c.Criteria {
		if input.Result == nil || i >= len(input.Result.Criteria) {
			fmt.Fprintf(&b, "%s: %s\n", label, c.NoStars)
			continue
		}
		score := input.Result.Criteria[i].Score
		fmt.Fprintf(&b, "%s: %s (%d/10)\n", label, s.stars(score), score)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, c.Materials, s.materialLine(input.Link))
	b.WriteString("\n")

	if input.ScoringFailed || input.StoreError != "" || input.ScoringError != "" {
		b.WriteString("\n" + c.DiagnosticsTitle + "\n")
		if input.ScoringFailed {
			b.WriteString("• scoring_failed: True\n")
		}
		if input.StoreError != "" {
			fmt.Fprintf(&b, "• store_error: %s\n", model.Truncate(input.StoreError, alertDiagnosticLen))
		}
		if input.ScoringError != "" {
			fmt.Fprintf(&b, "• error: %s\n", model.Truncate(input.ScoringError, alertDiagnosticLen))
		}
	}

	b.WriteString("\n" + c.Footer)
	return b.String()
}

// displayName prefers the handle, then the full name, then the placeholder
func (s *AlertService) displayName(candidate model.Candidate) string {
	if handle := strings.TrimSpace(candidate.Username); handle != "" {
		return "@" + handle
	}
	if name := strings.TrimSpace(candidate.FullName); name != "" {
		return name
	}
	return s.copy.PlaceholderName
}

// stars maps 0..10 to ceil(score/2) stars; zero stars renders the "none" marker
func (s *AlertService) stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	n := (score + 1) / 2
	if n == 0 {
		return s.copy.NoStars
	}
	return strings.Repeat("⭐", n)
}

func (s *AlertService) materialLine(link model.ProjectLink) string {
	switch link.Kind {
	case model.LinkURL:
		return link.URL
	case model.LinkDeclined:
		return s.copy.Declined
	default:
		if link.Note == "" {
			return s.copy.NDA
		}
		return fmt.Sprintf(s.copy.NDANote, shorten(link.Note, alertNoteLen))
	}
}

// shorten flattens newlines and cuts to max runes, marking the cut with "..."
func shorten(text string, max int) string {
	t := strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	runes := []rune(t)
	if len(runes) <= max {
		return t
	}
	return strings.TrimRight(string(runes[:max-3]), " ") + "..."
}
