// Package trainer wraps the LLM behind the AI-coach chat. The model is
// an opaque request/response dependency: one prompt in, one completion
// out. Callers own the degradation path when it fails.
package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/liftlab/liftlab/internal/config"
	appmodel "github.com/liftlab/liftlab/internal/model"
)

// historyLimit bounds how many prior turns are sent with each request.
const historyLimit = 10

const systemPrompt = `You are a supportive personal trainer inside a fitness tracking app.
Answer questions about strength training, programming, recovery and nutrition.
Keep replies short, practical and encouraging. You are not a medical
professional; suggest seeing one for pain or injuries.`

// Generator produces one assistant reply for a conversation turn.
type Generator interface {
	Generate(ctx context.Context, history []appmodel.Message, userMessage string) (string, error)
}

// Service runs the coach conversation through an Ark-hosted chat model.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// New compiles the prompt/model chain. It fails when Ark credentials are
// missing; the caller decides whether that is fatal.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	if !cfg.TrainerEnabled() {
		return nil, fmt.Errorf("trainer model not configured (ARK_API_KEY and ARK_MODEL required)")
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: cfg.ArkBaseURL,
		Region:  cfg.ArkRegion,
		APIKey:  cfg.ArkAPIKey,
		Model:   cfg.ArkModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate runs one conversation turn through the chain.
func (s *Service) Generate(ctx context.Context, history []appmodel.Message, userMessage string) (string, error) {
	input := map[string]any{
		"system":  systemPrompt,
		"history": buildHistory(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	slog.Debug("trainer reply generated", "length", len(response.Content))
	return response.Content, nil
}

func buildHistory(messages []appmodel.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case appmodel.SenderUser:
			history = append(history, schema.UserMessage(msg.Body))
		case appmodel.SenderTrainer:
			history = append(history, schema.AssistantMessage(msg.Body, nil))
		}
	}

	return history
}
