package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/kvstore"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var cacheSeq atomic.Int64

func newTestCache(t *testing.T) *kvstore.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:service%d?mode=memory&cache=shared", cacheSeq.Add(1))
	db, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cache, err := kvstore.New(db)
	require.NoError(t, err)
	return cache
}

// fakeMessageRepo is an in-memory MessageRepository.
type fakeMessageRepo struct {
	rows []model.Message
	fail bool
}

func (f *fakeMessageRepo) ByUser(_ context.Context, userID string) ([]model.Message, error) {
	if f.fail {
		return nil, errors.New("remote unavailable")
	}
	var out []model.Message
	out = append(out, f.rows...)
	return out, nil
}

func (f *fakeMessageRepo) InsertBatch(_ context.Context, messages []model.Message) error {
	if f.fail {
		return errors.New("remote unavailable")
	}
	f.rows = append(f.rows, messages...)
	return nil
}

func (f *fakeMessageRepo) DeleteByUser(_ context.Context, userID string) error {
	if f.fail {
		return errors.New("remote unavailable")
	}
	f.rows = nil
	return nil
}

// fakeGenerator returns a fixed reply or error.
type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _ []model.Message, _ string) (string, error) {
	return f.reply, f.err
}

func TestChatHistorySeedsGreeting(t *testing.T) {
	svc := NewChatService(&fakeMessageRepo{}, newTestCache(t), nil)

	history := svc.History(context.Background(), "u1")
	require.Len(t, history, 1)
	require.Equal(t, model.SenderTrainer, history[0].Sender)
	require.Equal(t, Greeting, history[0].Body)
}

func TestChatSendEmptyMessage(t *testing.T) {
	svc := NewChatService(&fakeMessageRepo{}, newTestCache(t), nil)

	_, _, err := svc.Send(context.Background(), "u1", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatSendWithGenerator(t *testing.T) {
	repo := &fakeMessageRepo{}
	gen := &fakeGenerator{reply: "Focus on progressive overload."}
	svc := NewChatService(repo, newTestCache(t), gen)
	ctx := context.Background()

	userMsg, trainerMsg, err := svc.Send(ctx, "u1", "How do I get stronger?")
	require.NoError(t, err)
	require.Equal(t, model.SenderUser, userMsg.Sender)
	require.Equal(t, "How do I get stronger?", userMsg.Body)
	require.Equal(t, model.SenderTrainer, trainerMsg.Sender)
	require.Equal(t, "Focus on progressive overload.", trainerMsg.Body)

	// Greeting + question + reply, ordered by time.
	history := svc.History(ctx, "u1")
	require.Len(t, history, 3)
	require.Equal(t, Greeting, history[0].Body)
	require.Equal(t, userMsg.ID, history[1].ID)
	require.Equal(t, trainerMsg.ID, history[2].ID)
}

func TestChatSendFallbackWithoutGenerator(t *testing.T) {
	svc := NewChatService(&fakeMessageRepo{}, newTestCache(t), nil)

	_, trainerMsg, err := svc.Send(context.Background(), "u1", "hello")
	require.NoError(t, err)
	require.Equal(t, FallbackReply, trainerMsg.Body)
}

func TestChatSendFallbackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model timeout")}
	svc := NewChatService(&fakeMessageRepo{}, newTestCache(t), gen)

	_, trainerMsg, err := svc.Send(context.Background(), "u1", "hello")
	require.NoError(t, err)
	require.Equal(t, FallbackReply, trainerMsg.Body)
}

func TestChatSendFallbackOnEmptyGeneration(t *testing.T) {
	gen := &fakeGenerator{reply: ""}
	svc := NewChatService(&fakeMessageRepo{}, newTestCache(t), gen)

	_, trainerMsg, err := svc.Send(context.Background(), "u1", "hello")
	require.NoError(t, err)
	require.Equal(t, FallbackReply, trainerMsg.Body)
}

func TestChatSendSurvivesRemoteOutage(t *testing.T) {
	repo := &fakeMessageRepo{fail: true}
	svc := NewChatService(repo, newTestCache(t), nil)
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "u1", "offline question")
	require.NoError(t, err)

	history := svc.History(ctx, "u1")
	require.Len(t, history, 3)
}

func TestChatClearReseedsGreeting(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, newTestCache(t), nil)
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "u1", "hello")
	require.NoError(t, err)

	history := svc.ClearHistory(ctx, "u1")
	require.Len(t, history, 1)
	require.Equal(t, Greeting, history[0].Body)

	// Remote was rewritten to just the greeting too.
	require.Len(t, repo.rows, 1)
	require.Equal(t, Greeting, repo.rows[0].Body)
}

func TestChatAnonymousStaysLocal(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, newTestCache(t), nil)
	ctx := context.Background()

	_, _, err := svc.Send(ctx, "", "anonymous question")
	require.NoError(t, err)

	require.Empty(t, repo.rows)
	require.Len(t, svc.History(ctx, ""), 3)
}
