package chat

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbot/internal/cache"
	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/service"
)

const adminID = int64(1000)

// memoryChat implements Messenger, Notifier and Acker in memory
type memoryChat struct {
	mu    sync.Mutex
	n     int
	sent  []string
	acks  []string
	alert []string
}

func (c *memoryChat) Send(ctx context.Context, chatID int64, msg model.OutgoingMessage) (*model.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	c.sent = append(c.sent, msg.Text)
	return &model.MessageRef{ChatID: chatID, MessageID: fmt.Sprint(c.n)}, nil
}

func (c *memoryChat) Edit(ctx context.Context, ref model.MessageRef, msg model.OutgoingMessage) error {
	return nil
}

func (c *memoryChat) Delete(ctx context.Context, ref model.MessageRef) error { return nil }

func (c *memoryChat) Notify(ctx context.Context, chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = append(c.alert, text)
	return nil
}

func (c *memoryChat) Ack(ctx context.Context, chatID int64, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acks = append(c.acks, text)
	return nil
}

func (c *memoryChat) lastSent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type memoryStore struct {
	mu      sync.Mutex
	records []*model.SessionRecord
}

func (s *memoryStore) AppendRow(ctx context.Context, r *model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *memoryStore) FetchAllRows(ctx context.Context) ([]model.RecordRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]model.RecordRow, 0, len(s.records))
	for _, r := range s.records {
		rows = append(rows, r.Row())
	}
	return rows, nil
}

func (s *memoryStore) Close(ctx context.Context) error { return nil }

func newTestRouter(t *testing.T) (*Router, *memoryChat, *memoryStore, cache.SessionCache) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	texts := config.DefaultCopy()
	chat := &memoryChat{}
	store := &memoryStore{}
	sessions := cache.NewMemorySessionCache()

	scoring := service.NewScoringService(service.NewMockOracle("mock"), logger)
	alerts := service.NewAlertService(chat, -1, &texts.Alert, logger)
	completion := service.NewCompletionService(scoring, store, alerts, chat, &texts.Conversation, logger)
	conv := service.NewConversationService(sessions, chat, completion, texts, adminID, 0, logger)
	reports := service.NewReportService(store, &texts.Report)
	admin := service.NewAdminService(reports, cache.NewMemoryAdminBuffer(cache.AdminBufferLimit), chat, adminID, &texts.Admin, logger)
	return NewRouter(conv, admin, chat, logger), chat, store, sessions
}

func text(user model.Candidate, s string) model.Update {
	return model.Update{Kind: model.UpdateText, From: user, ChatID: user.UserID, ChatType: "private", Text: s}
}

func action(user model.Candidate, data string) model.Update {
	return model.Update{Kind: model.UpdateAction, From: user, ChatID: user.UserID, Action: data}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in      string
		command string
		arg     string
		ok      bool
	}{
		{"/start", "start", "", true},
		{"  /admin   top ", "admin", "top", true},
		{"/Admin@screen_bot топ", "admin", "топ", true},
		{"/", "", "", false},
		{"hello /start", "", "", false},
	}
	for _, tc := range cases {
		command, arg, ok := ParseCommand(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.command, command, tc.in)
		assert.Equal(t, tc.arg, arg, tc.in)
	}
}

func TestRouterFullFlowWithMockScoring(t *testing.T) {
	ctx := context.Background()
	router, chat, store, sessions := newTestRouter(t)
	user := model.Candidate{UserID: 7, Username: "dev"}

	require.NoError(t, router.Dispatch(ctx, text(user, "/start")))
	require.NoError(t, router.Dispatch(ctx, action(user, model.ActionStart)))
	for i := 0; i < 6; i++ {
		require.NoError(t, router.Dispatch(ctx, text(user, "my answer")))
	}
	require.NoError(t, router.Dispatch(ctx, text(user, "https://github.com/dev")))

	require.Len(t, store.records, 1)
	assert.False(t, store.records[0].ScoringFailed)
	assert.Equal(t, "mock", store.records[0].LLMModel)

	s, err := sessions.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, model.StepIdle, s.Step)
	assert.Contains(t, chat.lastSent(), "Спасибо! Готово.")
}

func TestRouterStrayGoButtonIsAcknowledged(t *testing.T) {
	router, chat, _, _ := newTestRouter(t)
	user := model.Candidate{UserID: 7}

	require.NoError(t, router.Dispatch(context.Background(), action(user, model.ActionStart)))
	assert.Equal(t, []string{"Ок"}, chat.acks)
}

func TestRouterAdminCommands(t *testing.T) {
	ctx := context.Background()
	router, chat, _, _ := newTestRouter(t)
	admin := model.Candidate{UserID: adminID}
	stranger := model.Candidate{UserID: 5}

	require.NoError(t, router.Dispatch(ctx, text(stranger, "/admin")))
	assert.Equal(t, "⛔️ Команда доступна только администратору.", chat.lastSent())

	require.NoError(t, router.Dispatch(ctx, text(admin, "/admin top")))
	assert.Equal(t, "📊 Статистика\nПока нет прохождений.", chat.lastSent())

	require.NoError(t, router.Dispatch(ctx, text(admin, "/chatid")))
	assert.Equal(t, fmt.Sprintf("chat_id: %d\nchat_type: private", adminID), chat.lastSent())

	require.NoError(t, router.Dispatch(ctx, action(stranger, model.ActionAdminMenu)))
	assert.Equal(t, "⛔️ Только для администратора.", chat.acks[len(chat.acks)-1])

	require.NoError(t, router.Dispatch(ctx, action(admin, model.ActionAdminMenu)))
	assert.Equal(t, "Админ-панель:", chat.lastSent())
	require.NoError(t, router.Dispatch(ctx, action(admin, model.ActionAdminClose)))
	assert.Equal(t, "Закрыто ✅", chat.acks[len(chat.acks)-1])
}

func TestUserLocksSerializeSameUser(t *testing.T) {
	locks := newUserLocks()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(42)
			defer unlock()
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locks.locks)
}

func TestUserLocksDoNotBlockOtherUsers(t *testing.T) {
	locks := newUserLocks()
	unlock := locks.lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		locks.lock(2)()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("user 2 blocked by user 1")
	}
}
