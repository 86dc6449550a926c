package services

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"tripweaver/internal/agents"
	"tripweaver/internal/config"
	"tripweaver/internal/models"
	"tripweaver/internal/pkg/logger"
)

// LLMService is the chat completion transport shared by every
// generation-backed agent.
type LLMService struct {
	client openai.Client
	config config.LLMConfig
	logger *logger.Logger
}

func NewLLMService(cfg config.LLMConfig, log *logger.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key required")
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	)

	log.Info("LLM service initialized",
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
		"max_retries", cfg.MaxRetries,
	)

	return &LLMService{
		client: client,
		config: cfg,
		logger: log,
	}, nil
}

// Generate performs one chat completion round trip and returns the raw
// assistant content. ForceJSON switches the response format to a strict
// JSON object and appends a reinforcing system message.
func (service *LLMService) Generate(ctx context.Context, request agents.GenerationRequest) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, service.config.Timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(request.SystemPrompt),
		openai.UserMessage(request.Prompt),
	}
	if request.ForceJSON {
		messages = append(messages,
			openai.SystemMessage("You must respond with a valid JSON object and nothing else."))
	}

	params := openai.ChatCompletionNewParams{
		Model:    service.config.Model,
		Messages: messages,
		User:     openai.String(request.PromptVersion),
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}
	if request.ForceJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := service.client.Chat.Completions.New(ctx, params)

	duration := time.Since(start)
	fields := logger.Fields{
		"model":          service.config.Model,
		"prompt_version": request.PromptVersion,
		"prompt_length":  len(request.Prompt),
		"force_json":     request.ForceJSON,
	}

	if err != nil {
		service.logger.LogService("llm", "generate", duration, fields, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return "", models.NewTimeoutError("LLM_TIMEOUT", "generation timed out").WithCause(err)
		}
		return "", models.WrapExternalError("llm", err)
	}
	if len(completion.Choices) == 0 {
		err := errors.New("completion contained no choices")
		service.logger.LogService("llm", "generate", duration, fields, err)
		return "", models.WrapExternalError("llm", err)
	}

	content := completion.Choices[0].Message.Content
	fields["completion_length"] = len(content)
	service.logger.LogService("llm", "generate", duration, fields, nil)

	return content, nil
}
