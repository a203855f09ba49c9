package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/chat"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/tools"
)

// Config holds the model parameters for the responder
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Responder implements chat.Responder with OpenAI function calling.
// One non-streamed round resolves tool calls, then the answer is streamed.
type Responder struct {
	client   *openai.Client
	registry *tools.Registry
	cfg      Config
	now      func() time.Time
	logger   *zap.Logger
}

// NewResponder creates a new OpenAI chat responder
func NewResponder(cfg Config, registry *tools.Registry, logger *zap.Logger) *Responder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Responder{
		client:   openai.NewClientWithConfig(clientCfg),
		registry: registry,
		cfg:      cfg,
		now:      time.Now,
		logger:   logger,
	}
}

// Respond answers the transcript. Upstream failures become the apology stream.
func (r *Responder) Respond(ctx context.Context, messages []entity.ChatMessage) (chat.Stream, error) {
	if _, ok := entity.LastUserMessage(messages); !ok {
		return nil, chat.ErrNoUserMessage
	}

	defs := r.registry.Definitions()
	prompt, err := renderSystemPrompt(defs, r.now())
	if err != nil {
		r.logger.Error("Failed to build prompt", zap.Error(err))
		return chat.ApologyStream(ctx), nil
	}

	history := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	history = append(history, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt})
	for _, m := range messages {
		switch m.Role {
		case entity.RoleUser, entity.RoleAssistant:
			history = append(history, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
		default:
			r.logger.Warn("Dropping chat turn with unsupported role", zap.String("role", m.Role))
		}
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		Messages:    history,
		Tools:       toOpenAITools(defs),
	})
	if err != nil {
		r.logger.Error("OpenAI API call failed", zap.Error(err))
		return chat.ApologyStream(ctx), nil
	}
	if len(resp.Choices) == 0 {
		r.logger.Error("No response from OpenAI")
		return chat.ApologyStream(ctx), nil
	}

	reply := resp.Choices[0].Message
	if len(reply.ToolCalls) == 0 {
		return chat.NewWordStream(ctx, reply.Content, 0, 0), nil
	}

	history = append(history, reply)
	for _, call := range reply.ToolCalls {
		history = append(history, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    r.runTool(ctx, call),
			ToolCallID: call.ID,
		})
	}

	stream, err := r.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		Messages:    history,
		Stream:      true,
	})
	if err != nil {
		r.logger.Error("OpenAI stream failed", zap.Error(err))
		return chat.ApologyStream(ctx), nil
	}

	return &completionStream{stream: stream}, nil
}

// runTool returns the JSON result, or a JSON error object for the model
func (r *Responder) runTool(ctx context.Context, call openai.ToolCall) string {
	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return toolError(fmt.Errorf("arguments are not valid JSON: %w", err))
		}
	}

	result, err := r.registry.Execute(ctx, call.Function.Name, args)
	if err != nil {
		return toolError(err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return toolError(err)
	}

	r.logger.Debug("Tool call answered",
		zap.String("tool", call.Function.Name),
		zap.Int("bytes", len(data)))
	return string(data)
}

func toolError(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}

func toOpenAITools(defs []tools.Definition) []openai.Tool {
	out := make([]openai.Tool, 0, len(defs))
	for _, d := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  d.Parameters,
			},
		})
	}
	return out
}

// completionStream adapts an OpenAI delta stream to chat.Stream
type completionStream struct {
	stream *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("stream receive failed: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			continue
		}
		return resp.Choices[0].Delta.Content, nil
	}
}

func (s *completionStream) Close() error {
	return s.stream.Close()
}
