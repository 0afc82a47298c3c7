package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftlab/internal/kvstore"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/syncstore"
	"github.com/liftlab/liftlab/internal/trainer"
)

var ErrEmptyMessage = errors.New("message body is required")

// Greeting seeds an otherwise empty conversation.
const Greeting = "Hey! I'm your AI trainer. Ask me anything about training, form, programming or recovery."

// FallbackReply is returned when the trainer model is unavailable.
const FallbackReply = "I'm having trouble thinking right now - try me again in a moment. In the meantime: consistency beats intensity!"

type ChatService struct {
	store     *syncstore.Store[model.Message]
	generator trainer.Generator // nil when the model is not configured
}

// NewChatService wires the message sync store. generator may be nil;
// replies then always degrade to the fallback string.
func NewChatService(messageRepo repository.MessageRepository, cache *kvstore.Store, generator trainer.Generator) *ChatService {
	store := syncstore.New(messageRepo, cache, "messages", greetingSeed)
	return &ChatService{store: store, generator: generator}
}

func greetingSeed(userID string) model.Message {
	return model.Message{
		ID:     uuid.NewString(),
		UserID: userID,
		Sender: model.SenderTrainer,
		Body:   Greeting,
		SentAt: time.Now().UTC(),
	}
}

// History resolves the conversation, reconciling cache and remote.
// An empty userID means anonymous local-only mode.
func (s *ChatService) History(ctx context.Context, userID string) []model.Message {
	return s.store.Load(ctx, userID)
}

// Send appends the user's message, asks the trainer model for a reply
// and appends that too. A model failure is absorbed into the canned
// fallback so the conversation always advances.
func (s *ChatService) Send(ctx context.Context, userID, body string) (model.Message, model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return model.Message{}, model.Message{}, ErrEmptyMessage
	}

	history := s.store.Load(ctx, userID)

	userMsg := model.Message{
		ID:     uuid.NewString(),
		UserID: userID,
		Sender: model.SenderUser,
		Body:   body,
		SentAt: time.Now().UTC(),
	}
	s.store.Append(ctx, userID, userMsg)

	reply := FallbackReply
	if s.generator != nil {
		generated, err := s.generator.Generate(ctx, history, body)
		if err != nil {
			slog.Warn("trainer model failed, using fallback reply", "user_id", userID, "error", err)
		} else if generated != "" {
			reply = generated
		}
	}

	trainerMsg := model.Message{
		ID:     uuid.NewString(),
		UserID: userID,
		Sender: model.SenderTrainer,
		Body:   reply,
		SentAt: time.Now().UTC(),
	}
	s.store.Append(ctx, userID, trainerMsg)

	return userMsg, trainerMsg, nil
}

// ClearHistory wipes the conversation in both stores and reseeds the
// greeting message.
func (s *ChatService) ClearHistory(ctx context.Context, userID string) []model.Message {
	return s.store.Clear(ctx, userID)
}
