package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"screenbot/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

type sentMessage struct {
	ChatID int64
	Ref    model.MessageRef
	Msg    model.OutgoingMessage
}

type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	edits   map[string]string
	deleted []model.MessageRef
	sendErr error
	delErr  error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{edits: make(map[string]string)}
}

func (m *fakeMessenger) Send(ctx context.Context, chatID int64, msg model.OutgoingMessage) (*model.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	m.nextID++
	ref := model.MessageRef{ChatID: chatID, MessageID: fmt.Sprintf("m%d", m.nextID)}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Ref: ref, Msg: msg})
	return &ref, nil
}

func (m *fakeMessenger) Edit(ctx context.Context, ref model.MessageRef, msg model.OutgoingMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits[ref.MessageID] = msg.Text
	return nil
}

func (m *fakeMessenger) Delete(ctx context.Context, ref model.MessageRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return m.delErr
}

func (m *fakeMessenger) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.Msg.Text)
	}
	return out
}

func (m *fakeMessenger) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []string
	chats  []int64
	err    error
}

func (n *fakeNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chats = append(n.chats, chatID)
	n.alerts = append(n.alerts, text)
	return n.err
}

// fakeOracle replays scripted replies in order; the last one repeats
type fakeOracle struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []string
}

func (o *fakeOracle) Model() string { return "gpt-test" }

func (o *fakeOracle) Complete(ctx context.Context, system, user string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, user)
	if o.err != nil {
		return "", o.err
	}
	i := len(o.calls) - 1
	if i >= len(o.replies) {
		i = len(o.replies) - 1
	}
	return o.replies[i], nil
}

type fakeStore struct {
	mu       sync.Mutex
	records  []*model.SessionRecord
	rows     []model.RecordRow
	appendEr error
	fetchErr error
}

func (s *fakeStore) AppendRow(ctx context.Context, record *model.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendEr != nil {
		return s.appendEr
	}
	s.records = append(s.records, record)
	s.rows = append(s.rows, record.Row())
	return nil
}

func (s *fakeStore) FetchAllRows(ctx context.Context) ([]model.RecordRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.rows, nil
}

func (s *fakeStore) Close(ctx context.Context) error { return nil }

var errBoom = errors.New("boom")

const hotReply = `{"criteria":[` +
	`{"name":"Practical AI Application","score_0_10":9,"rationale":"Strong."},` +
	`{"name":"AI Reasoning & Control","score_0_10":8,"rationale":"Solid."},` +
	`{"name":"AI Product Thinking","score_0_10":7,"rationale":"Good."}],` +
	`"overall_score_0_10":8,"hot":true,"summary_1_2_lines":"Strong candidate."}`

const coldReply = `{"criteria":[` +
	`{"name":"Practical AI Application","score_0_10":4,"rationale":"Thin."},` +
	`{"name":"AI Reasoning & Control","score_0_10":5,"rationale":"Some."},` +
	`{"name":"AI Product Thinking","score_0_10":6,"rationale":"Fine."}],` +
	`"overall_score_0_10":5,"hot":false,"summary_1_2_lines":"Average."}`
