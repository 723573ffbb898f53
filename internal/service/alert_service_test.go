package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbot/internal/config"
	"screenbot/internal/model"
)

func newTestAlerts(n Notifier) *AlertService {
	return NewAlertService(n, testAlertChat, &config.DefaultCopy().Alert, discardLogger())
}

func scoredResult(scores ...int) *model.ScoreResult {
	r := &model.ScoreResult{Summary: "s"}
	for i, s := range scores {
		r.Criteria = append(r.Criteria, model.Criterion{Name: CriteriaNames[i], Score: s})
	}
	r.OverallScore = r.ExpectedOverall()
	r.Hot = r.ExpectedHot()
	return r
}

func TestShouldAlert(t *testing.T) {
	assert.False(t, ShouldAlert(false, false, false))
	assert.True(t, ShouldAlert(true, false, false))
	assert.True(t, ShouldAlert(false, true, false))
	assert.True(t, ShouldAlert(false, false, true))
}

func TestFormatAlertTopCandidate(t *testing.T) {
	alerts := newTestAlerts(&fakeNotifier{})
	text := alerts.FormatAlert(AlertInput{
		Candidate: model.Candidate{UserID: 1, Username: "dev", FullName: "Dev Person"},
		Result:    scoredResult(9, 8, 0),
		Link:      model.ProjectLink{Kind: model.LinkURL, URL: "https://example.com/x"},
		Top:       true,
	})

	assert.True(t, strings.HasPrefix(text, "🎯 Топ-кандидат: @dev\n\n"))
	assert.Contains(t, text, "🛠 Практический опыт: ⭐⭐⭐⭐⭐ (9/10)\n")
	assert.Contains(t, text, "🧠 Контроль и логика: ⭐⭐⭐⭐ (8/10)\n")
	assert.Contains(t, text, "🚀 Продуктовый подход: — (0/10)\n")
	assert.Contains(t, text, "Материалы: https://example.com/x\n")
	assert.NotContains(t, text, "Тех. детали")
	assert.True(t, strings.HasSuffix(text, "📥 Открыть полную анкету: /admin top"))
}

func TestFormatAlertFailureDiagnostics(t *testing.T) {
	alerts := newTestAlerts(&fakeNotifier{})
	text := alerts.FormatAlert(AlertInput{
		Candidate:     model.Candidate{UserID: 1},
		Link:          model.ProjectLink{Kind: model.LinkDeclined},
		ScoringFailed: true,
		ScoringError:  strings.Repeat("e", 400),
		StoreError:    "quota exceeded",
	})

	assert.True(t, strings.HasPrefix(text, "⚠️ Кандидат требует внимания: Кандидат"))
	assert.Contains(t, text, "🛠 Практический опыт: —\n")
	assert.Contains(t, text, "Материалы: Отказался делиться ссылкой.")
	assert.Contains(t, text, "• scoring_failed: True\n")
	assert.Contains(t, text, "• store_error: quota exceeded\n")
	assert.Contains(t, text, "• error: "+strings.Repeat("e", 200)+"\n")
	assert.NotContains(t, text, strings.Repeat("e", 201))
}

func TestFormatAlertDisplayNameFallsBackToFullName(t *testing.T) {
	alerts := newTestAlerts(&fakeNotifier{})
	text := alerts.FormatAlert(AlertInput{
		Candidate: model.Candidate{UserID: 1, FullName: "Dev Person"},
		Link:      model.ProjectLink{Kind: model.LinkNDA},
		Top:       true,
		Result:    scoredResult(8, 8, 8),
	})
	assert.Contains(t, text, "🎯 Топ-кандидат: Dev Person\n")
	assert.Contains(t, text, "Материалы: NDA (ссылка в анкете).")
}

func TestFormatAlertShortensNDANote(t *testing.T) {
	alerts := newTestAlerts(&fakeNotifier{})
	note := "делал RAG\n" + strings.Repeat("я", 200)
	text := alerts.FormatAlert(AlertInput{
		Candidate: model.Candidate{UserID: 1},
		Link:      model.ProjectLink{Kind: model.LinkNDA, Note: note},
		Top:       true,
		Result:    scoredResult(8, 8, 8),
	})

	want := "Материалы: NDA: " + shorten(note, 110) + "\n"
	assert.Contains(t, text, want)
	assert.Equal(t, 110, len([]rune(shorten(note, 110))))
	assert.NotContains(t, shorten(note, 110), "\n")
}

func TestStars(t *testing.T) {
	alerts := newTestAlerts(&fakeNotifier{})
	cases := map[int]string{0: "—", 1: "⭐", 2: "⭐", 7: "⭐⭐⭐⭐", 9: "⭐⭐⭐⭐⭐", 10: "⭐⭐⭐⭐⭐"}
	for score, want := range cases {
		assert.Equal(t, want, alerts.stars(score), "score %d", score)
	}
}

func TestDispatchSwallowsDeliveryErrors(t *testing.T) {
	notifier := &fakeNotifier{err: errBoom}
	alerts := newTestAlerts(notifier)

	require.NotPanics(t, func() {
		alerts.Dispatch(context.Background(), AlertInput{Top: true, Result: scoredResult(9, 9, 9)})
	})
	assert.Len(t, notifier.alerts, 1, "delivery is attempted exactly once")
}
