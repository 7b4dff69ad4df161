package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/bushido-log/backend/internal/config"
	"github.com/bushido-log/backend/internal/provider"
)

// Service encapsulates chat-completion calls to the LLM provider.
type Service struct {
	chatModel model.ToolCallingChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the chat service and compiles its prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Chat runs one persona exchange with the user's text.
func (s *Service) Chat(ctx context.Context, text string) (string, error) {
	return s.complete(ctx, samuraiSystemPrompt, text)
}

// Mission generates the daily mission from the labeled context block.
func (s *Service) Mission(ctx context.Context, in MissionInput) (string, error) {
	return s.complete(ctx, missionSystemPrompt, BuildMissionContext(in))
}

// complete runs one system+user exchange and returns the trimmed reply.
// Failures come back as *provider.Error, nothing else.
func (s *Service) complete(ctx context.Context, system, userText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Second)
	defer cancel()

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": system,
		"query":  userText,
	})
	if err != nil {
		return "", provider.Wrap(err)
	}
	if response == nil {
		return "", provider.Malformed("provider returned no message")
	}

	reply := strings.TrimSpace(response.Content)
	log.Printf("[ai] completion ok, length=%d", len(reply))
	return reply, nil
}
